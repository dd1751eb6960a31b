package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

const classicTimeLayout = "2006-01-02 15:04:05,000"

// ClassicHandler writes "time - logger - LEVEL - message" lines. Attributes
// other than the logger name are appended as key=value pairs.
type ClassicHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	opts   slog.HandlerOptions
	name   string
	prefix string
	attrs  []slog.Attr
}

// NewClassicHandler returns a ClassicHandler writing to out.
func NewClassicHandler(out io.Writer, opts *slog.HandlerOptions) *ClassicHandler {
	h := &ClassicHandler{mu: &sync.Mutex{}, out: out, name: "root"}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *ClassicHandler) Enabled(_ context.Context, l slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return l >= threshold
}

func (h *ClassicHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(r.Time.Format(classicTimeLayout))
	buf.WriteString(" - ")
	name := h.name
	var extra []slog.Attr
	extra = append(extra, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == NameKey && h.prefix == "" {
			name = a.Value.String()
			return true
		}
		extra = append(extra, h.qualify(a))
		return true
	})
	buf.WriteString(name)
	buf.WriteString(" - ")
	buf.WriteString(levelName(r.Level))
	buf.WriteString(" - ")
	buf.WriteString(r.Message)
	for _, a := range extra {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			continue
		}
		fmt.Fprintf(&buf, " %s=%v", a.Key, a.Value.Any())
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *ClassicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	for _, a := range attrs {
		if a.Key == NameKey && h.prefix == "" {
			c.name = a.Value.String()
			continue
		}
		c.attrs = append(c.attrs, h.qualify(a))
	}
	return c
}

func (h *ClassicHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.prefix = h.prefix + name + "."
	return c
}

func (h *ClassicHandler) qualify(a slog.Attr) slog.Attr {
	if h.prefix != "" {
		a.Key = h.prefix + a.Key
	}
	return a
}

func (h *ClassicHandler) clone() *ClassicHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	return &c
}

// levelName uses the level names of the classic format, where warnings are
// spelled WARNING. Levels between the named ones keep slog's offset form.
func levelName(l slog.Level) string {
	switch l {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARNING"
	case slog.LevelError:
		return "ERROR"
	}
	return l.String()
}
