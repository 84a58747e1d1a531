// Package log provides a thin slog wrapper that tags every record with the
// engine component it came from.
package log

import (
	"io"
	"log/slog"
	"os"
)

// New returns a component-tagged logger writing text to stderr.
func New(component string) *slog.Logger {
	return NewWithHandler(component, slog.NewTextHandler(os.Stderr, nil))
}

// NewWithHandler returns a component-tagged logger over a custom handler,
// mainly for tests.
func NewWithHandler(component string, h slog.Handler) *slog.Logger {
	return slog.New(h).With("component", component)
}

// Discard returns a logger that drops everything. Engine packages accept a
// nil logger and substitute this, keeping pure code paths quiet by default.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard maps nil to Discard so callers can pass loggers through
// unconditionally.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
