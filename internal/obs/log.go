// Package obs holds logging setup and Prometheus metrics.
package obs

import (
	"io"
	"log/slog"
)

// SetupLogger installs the default slog logger.
// format is "json" or "text"; verbose lowers the level to Debug.
func SetupLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
