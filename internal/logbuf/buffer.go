// ABOUTME: Bounded in-memory buffer of captured log lines with watcher fan-out
// ABOUTME: Reuses the chat history retention pattern for the log pane stream

package logbuf

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/2389/coven-console/internal/watch"
)

// DefaultCapacity is the log line retention cap used when the caller
// passes 0 to New.
const DefaultCapacity = 500

// Buffer retains the most recent captured log lines and streams each new
// line to its watchers. It mirrors the chat history design: insertion
// order, oldest-first eviction past the cap.
type Buffer struct {
	mu       sync.Mutex
	lines    []string
	capacity int

	notifier *watch.Notifier[string]
	logger   *slog.Logger
}

// New creates an empty buffer. capacity 0 means DefaultCapacity. Pass nil
// logger for default.
func New(capacity int, logger *slog.Logger) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "logbuf")
	return &Buffer{
		capacity: capacity,
		notifier: watch.NewNotifier[string](logger),
		logger:   logger,
	}
}

// Append records lines and delivers each to current watchers.
func (b *Buffer) Append(lines ...string) {
	b.mu.Lock()
	b.lines = append(b.lines, lines...)
	if len(b.lines) > b.capacity {
		b.lines = b.lines[len(b.lines)-b.capacity:]
	}
	b.mu.Unlock()

	for _, line := range lines {
		b.notifier.Publish(line)
	}
}

// Lines returns the retained lines in insertion order, oldest first.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len returns the number of retained lines.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Clear drops all retained lines.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

// Watch subscribes an observer to new lines and returns a handle for
// Unwatch.
func (b *Buffer) Watch(fn func(string)) string {
	return b.notifier.Subscribe(fn)
}

// Unwatch removes a line observer.
func (b *Buffer) Unwatch(handle string) {
	b.notifier.Unsubscribe(handle)
}

// Writer returns an io.Writer that captures a process output stream into
// the buffer, splitting on newlines. Partial lines are held until their
// newline arrives. The writer is safe for use by one stream at a time.
func (b *Buffer) Writer() io.Writer {
	return &lineWriter{buf: b}
}

type lineWriter struct {
	mu      sync.Mutex
	buf     *Buffer
	partial strings.Builder
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, c := range string(p) {
		if c == '\n' {
			w.buf.Append(w.partial.String())
			w.partial.Reset()
			continue
		}
		w.partial.WriteRune(c)
	}
	return len(p), nil
}
