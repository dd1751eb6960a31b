// Package logging configures the process-wide slog sink shared by the
// dispatcher and every tool handler.
package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// NameKey is the attribute carrying the logger name.
const NameKey = "logger"

// Options selects the sink, level and line format.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds the root logger. Format is one of "classic" (default), "text"
// or "json"; Level is a slog level name, "info" when empty.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "classic":
		h = NewClassicHandler(out, hopts)
	case "text":
		h = slog.NewTextHandler(out, hopts)
	case "json":
		h = slog.NewJSONHandler(out, hopts)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}
	return slog.New(h), nil
}

// ParseLevel maps debug/info/warn/error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logging: %w", err)
	}
	return l, nil
}

// Component returns a child logger reporting under name. A nil base yields a
// logger that discards everything.
func Component(base *slog.Logger, name string) *slog.Logger {
	if base == nil {
		base = slog.New(slog.DiscardHandler)
	}
	return base.With(slog.String(NameKey, name))
}

// StdLogger adapts base for APIs that want a *log.Logger, such as chi's
// request logger.
func StdLogger(base *slog.Logger, name string) *log.Logger {
	return slog.NewLogLogger(Component(base, name).Handler(), slog.LevelInfo)
}
