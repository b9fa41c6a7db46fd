package hellowindow

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for hellowindow and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: per-frame diagnostics (frame size, render time)
//   - [slog.LevelInfo]: lifecycle transitions (resumed, adapter selected, close)
//   - [slog.LevelWarn]: skipped frames, resource release errors
//
// Example:
//
//	hellowindow.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
// Sub-packages call this to share one logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// ParseLevel converts a level name ("debug", "info", "warn", "error") to a
// slog.Level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
