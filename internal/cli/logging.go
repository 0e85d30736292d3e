package cli

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// NewLogger builds the run logger: text or JSON on w, debug level when
// verbose, with a fresh run_id on every record.
func NewLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("run_id", uuid.New().String())
}
