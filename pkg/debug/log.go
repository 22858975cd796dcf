package debug

import (
	"log/slog"

	"github.com/recera/geowidget/pkg/reactive"
	"github.com/recera/geowidget/pkg/scheduler"
)

// EnableLogging installs a console logger at level as the default logger
// and routes scheduler and reactive diagnostics to it
func EnableLogging(level slog.Leveler) *slog.Logger {
	l := slog.New(NewConsoleHandler(level))
	slog.SetDefault(l)
	scheduler.SetLogger(l)
	reactive.SetLogger(l)
	return l
}
