package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON logger on stdout. Extra handlers (such as a
// DBHandler) receive the same records.
func Setup(env string, extra ...slog.Handler) {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	if len(extra) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
	}
	slog.SetDefault(slog.New(handler))
}
