package commands

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/studiographene/SGSchemaSync/parser"
)

// ZerologAdapter adapts a zerolog.Logger to the parser.Logger interface
// used throughout the library.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewConsoleLogger builds the CLI's console logger. Verbose enables debug
// output; quiet drops everything below error.
func NewConsoleLogger(out io.Writer, verbose, quiet bool) *ZerologAdapter {
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.ErrorLevel
	}

	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	return &ZerologAdapter{
		logger: zerolog.New(writer).Level(level).With().Timestamp().Logger(),
	}
}

// event attaches alternating key-value attrs to a zerolog event. Dangling
// keys and non-string keys are tolerated rather than dropped silently.
func event(e *zerolog.Event, attrs []any) *zerolog.Event {
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			e = e.Interface("attr", attrs[i]).Interface("value", attrs[i+1])
			continue
		}
		e = e.Interface(key, attrs[i+1])
	}
	if len(attrs)%2 == 1 {
		e = e.Interface("attr", attrs[len(attrs)-1])
	}
	return e
}

// Debug implements parser.Logger.
func (z *ZerologAdapter) Debug(msg string, attrs ...any) { event(z.logger.Debug(), attrs).Msg(msg) }

// Info implements parser.Logger.
func (z *ZerologAdapter) Info(msg string, attrs ...any) { event(z.logger.Info(), attrs).Msg(msg) }

// Warn implements parser.Logger.
func (z *ZerologAdapter) Warn(msg string, attrs ...any) { event(z.logger.Warn(), attrs).Msg(msg) }

// Error implements parser.Logger.
func (z *ZerologAdapter) Error(msg string, attrs ...any) { event(z.logger.Error(), attrs).Msg(msg) }

// With implements parser.Logger.
func (z *ZerologAdapter) With(attrs ...any) parser.Logger {
	ctx := z.logger.With()
	for i := 0; i+1 < len(attrs); i += 2 {
		if key, ok := attrs[i].(string); ok {
			ctx = ctx.Interface(key, attrs[i+1])
		}
	}
	return &ZerologAdapter{logger: ctx.Logger()}
}

var _ parser.Logger = (*ZerologAdapter)(nil)
