// Package obs contains observability utilities such as logging.
package obs

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the global structured logger used by the pipeline.
//
// Logger is exported to allow other packages to use it for logging.
var Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// InitLogger initializes the global Logger from the LOG_LEVEL and LOG_FORMAT
// environment variables. The default is a JSON handler at info level.
func InitLogger() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	Logger = slog.New(h)
}
