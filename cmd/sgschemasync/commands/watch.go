package commands

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/studiographene/SGSchemaSync/config"
	"github.com/studiographene/SGSchemaSync/parser"
)

// debounceWindow coalesces bursts of filesystem events (editors typically
// fire several per save) into one regeneration.
const debounceWindow = 300 * time.Millisecond

// watchAndGenerate runs an initial generation, then regenerates whenever
// the specification or the configuration file changes. It blocks until
// interrupted.
func watchAndGenerate(cfg *config.Config, flags *GenerateFlags, logger parser.Logger) error {
	if err := runGeneration(cfg, flags, logger); err != nil {
		// In watch mode a failing run is not fatal; the next save may fix it.
		logger.Error("generation failed", "error", err.Error())
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the containing directories: editors replace files on save, and
	// watching the path directly would lose the watch after the first swap.
	watched := map[string]bool{}
	for _, target := range []string{cfg.Input, flags.Config} {
		dir := filepath.Dir(target)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return err
		}
		watched[dir] = true
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	logger.Info("watching for changes", "input", cfg.Input, "config", flags.Config)

	var debounce *time.Timer
	rerun := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event, cfg.Input, flags.Config) {
				continue
			}
			logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			// The config may have changed; reload it so edits take effect.
			fresh, err := loadConfig(flags)
			if err != nil {
				logger.Error("configuration reload failed", "error", err.Error())
				continue
			}
			cfg = fresh
			if err := runGeneration(cfg, flags, logger); err != nil {
				logger.Error("generation failed", "error", err.Error())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err.Error())

		case <-interrupt:
			logger.Info("stopping watch")
			return nil
		}
	}
}

// relevantEvent reports whether event touches one of the watched files
// with an op worth regenerating for.
func relevantEvent(event fsnotify.Event, targets ...string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, target := range targets {
		if name == filepath.Clean(target) {
			return true
		}
	}
	return false
}
