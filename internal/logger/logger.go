// Package logger builds the zerolog logger shared by all components.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, encoding and destination.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	Output string // stdout, stderr or a file path
}

// New returns a logger for cfg and the closer for its destination. Empty
// fields fall back to info, console and stderr. Closing a standard stream
// destination is a no-op.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log level: %w", err)
		}
		level = l
	}
	console, err := isConsole(cfg.Format)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("could not open log file: %w", err)
		}
		out, closer = f, f
	}

	return build(out, console, level), closer, nil
}

func isConsole(format string) (bool, error) {
	switch strings.ToLower(format) {
	case "", "console", "text":
		return true, nil
	case "json":
		return false, nil
	default:
		return false, fmt.Errorf("invalid log format %q", format)
	}
}

func build(out io.Writer, console bool, level zerolog.Level) zerolog.Logger {
	if console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
