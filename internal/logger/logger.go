// Package logger configures the service-wide zerolog logger.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls log output.
type Config struct {
	Level       string // trace, debug, info, warn, error
	Format      string // json, console
	ServiceName string
	Environment string
}

// New builds the root logger. Unknown levels fall back to info; console
// format is intended for local development, json for everything else.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	logger := zerolog.New(out)
	if strings.EqualFold(cfg.Format, "console") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger.Level(level).With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}
