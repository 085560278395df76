package rasterdoc

import (
	"context"
	"log/slog"
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
// SetLogger can be called while other goroutines are logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for rasterdoc and its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used by rasterdoc:
//   - [slog.LevelDebug]: buffer allocation, region clipping, geometry adjustments
//   - [slog.LevelInfo]: document-level changes (canvas resized, extensions set up)
//   - [slog.LevelWarn]: recoverable oddities (incompressible payloads, skipped layers)
//
// Example:
//
//	rasterdoc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages (resample, script,
// snapshot) call this to share one logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
