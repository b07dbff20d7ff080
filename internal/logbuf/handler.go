// ABOUTME: slog.Handler that routes structured log records into a Buffer
// ABOUTME: Lets the log pane show engine logs the way a console capture would

package logbuf

import (
	"context"
	"log/slog"
	"strings"
)

// Handler is a slog.Handler that renders records as single plain-text
// lines into a Buffer, so a UI log pane can display engine logs without
// touching the process's real stdout or stderr.
type Handler struct {
	buf   *Buffer
	level slog.Level
	attrs []slog.Attr
}

// NewHandler creates a handler writing into buf at the given level.
func NewHandler(buf *Buffer, level slog.Level) *Handler {
	return &Handler{buf: buf, level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(r.Time.Format("15:04:05"))
	b.WriteString(" ")
	b.WriteString(levelTag(r.Level))
	b.WriteString(" ")
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		b.WriteString(" " + a.Key + "=" + a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		b.WriteString(" " + a.Key + "=" + a.Value.String())
		return true
	})

	h.buf.Append(b.String())
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &Handler{buf: h.buf, level: h.level, attrs: newAttrs}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	// Groups are flattened; the log pane shows plain lines.
	return h
}

func levelTag(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DBG"
	case slog.LevelInfo:
		return "INF"
	case slog.LevelWarn:
		return "WRN"
	case slog.LevelError:
		return "ERR"
	default:
		return "???"
	}
}
