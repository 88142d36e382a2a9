// This file writes generated bundles to the output root. Orchestrated
// bundles are always overwritten; write-once scaffolds are skipped when a
// file already exists, because those files are user-owned after first
// generation.

package generator

import (
	"os"
	"path/filepath"

	"github.com/studiographene/SGSchemaSync/internal/fileutil"
	"github.com/studiographene/SGSchemaSync/parser"
	"github.com/studiographene/SGSchemaSync/sgerrors"
)

// WriteSummary reports what WriteBundles did.
type WriteSummary struct {
	// Written counts files created or overwritten.
	Written int
	// Skipped counts write-once bundles left untouched.
	Skipped int
}

// WriteBundles writes every bundle under root, creating directories as
// needed. The first filesystem error aborts the write; generation output
// is not transactional.
func WriteBundles(root string, bundles []Bundle, logger parser.Logger) (*WriteSummary, error) {
	if logger == nil {
		logger = parser.NopLogger{}
	}

	summary := &WriteSummary{}
	for _, bundle := range bundles {
		target := filepath.Join(root, filepath.FromSlash(bundle.Path))

		if bundle.WriteOnce {
			if _, err := os.Stat(target); err == nil {
				logger.Debug("skipping existing write-once file", "path", target)
				summary.Skipped++
				continue
			}
		}

		if err := os.MkdirAll(filepath.Dir(target), fileutil.DirReadableByAll); err != nil {
			return summary, &sgerrors.GenerateError{Message: "failed to create output directory", Cause: err}
		}
		if err := os.WriteFile(target, []byte(bundle.Content), fileutil.ReadableByAll); err != nil {
			return summary, &sgerrors.GenerateError{Message: "failed to write " + bundle.Path, Cause: err}
		}

		logger.Debug("wrote bundle", "kind", bundle.Kind, "path", target, "bytes", len(bundle.Content))
		summary.Written++
	}
	return summary, nil
}
