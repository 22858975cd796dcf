//go:build !js || !wasm

package debug

import (
	"log/slog"
	"os"
)

// NewConsoleHandler returns a text handler writing to stderr
func NewConsoleHandler(level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}
