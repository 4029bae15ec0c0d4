package logging

import (
	"log/slog"
	"os"
)

// New returns a JSON logger at the given level writing to stdout.
func New(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
