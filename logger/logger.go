package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w, or stderr when w is nil.
func New(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// SetLevel parses level ("debug", "info", "warn", "error") and applies it.
// An empty level leaves the logger unchanged.
func SetLevel(l *log.Logger, level string) error {
	if level == "" {
		return nil
	}
	ll, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	l.SetLevel(ll)
	return nil
}
