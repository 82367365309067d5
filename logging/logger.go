// Package logging wires the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sfr-epg/version"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level  string    // optional log level ("debug", "info", etc.)
	Output io.Writer // optional writer (defaults to os.Stderr)
	JSON   bool      // emit JSON lines instead of console output
}

var (
	mu   sync.RWMutex
	base zerolog.Logger
)

// Configure (re)initialises the global logger. Stdout is reserved for XMLTV output,
// so the default writer is stderr.
func Configure(cfg Config) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	} else if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	if !cfg.JSON && !strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.TimeOnly, NoColor: true}
	}

	l := zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("service", version.Program).
		Logger()

	mu.Lock()
	base = l
	mu.Unlock()
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}

// LevelFor maps the XMLTV --debug/--quiet switches to a zerolog level name.
func LevelFor(debug, quiet bool) string {
	switch {
	case debug:
		return zerolog.LevelDebugValue
	case quiet:
		return zerolog.LevelErrorValue
	default:
		return ""
	}
}

func init() {
	Configure(Config{})
}
