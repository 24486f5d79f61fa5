// Package observability sets up logging and Prometheus metrics.
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs the global logger. format is "json" or "console".
func InitLogger(app, level, format string) zerolog.Logger {
	return initLogger(os.Stdout, app, level, format)
}

func initLogger(out io.Writer, app, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	w := out
	if !strings.EqualFold(format, "json") {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	logger := zerolog.New(w).Level(lvl).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
