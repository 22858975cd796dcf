//go:build js && wasm

package debug

import (
	"log/slog"
	"strings"
	"syscall/js"
)

// consoleWriter forwards each formatted record to console.log
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewConsoleHandler returns a text handler writing to the browser console
func NewConsoleHandler(level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(consoleWriter{}, &slog.HandlerOptions{Level: level})
}
