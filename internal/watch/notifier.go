// ABOUTME: Generic one-to-many notification fan-out for state change events
// ABOUTME: Synchronous ordered delivery with per-observer fault isolation

package watch

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Observer receives published values. Observers are opaque to the engine;
// the notifier only holds the registered handles.
type Observer[T any] func(T)

type subscription[T any] struct {
	id string
	fn Observer[T]
}

// Notifier fans a value out to every currently subscribed observer.
//
// Delivery is synchronous and in subscription order. The subscriber list is
// snapshotted before delivery, so observers subscribing or unsubscribing
// during a Publish do not affect the in-flight delivery. A panicking
// observer is logged and skipped; delivery to the remaining observers
// continues.
//
// Notifier is safe for concurrent use.
type Notifier[T any] struct {
	mu     sync.RWMutex
	subs   []subscription[T]
	logger *slog.Logger
}

// NewNotifier creates a notifier. Pass nil logger for default.
func NewNotifier[T any](logger *slog.Logger) *Notifier[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier[T]{logger: logger.With("component", "notifier")}
}

// Subscribe registers an observer and returns a handle for Unsubscribe.
func (n *Notifier[T]) Subscribe(fn Observer[T]) string {
	id := uuid.New().String()

	n.mu.Lock()
	n.subs = append(n.subs, subscription[T]{id: id, fn: fn})
	n.mu.Unlock()

	n.logger.Debug("observer added", "sub_id", id)
	return id
}

// Unsubscribe removes the observer with the given handle. Unknown handles
// are a no-op, so double-unsubscribe is safe.
func (n *Notifier[T]) Unsubscribe(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, sub := range n.subs {
		if sub.id == id {
			n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
			n.logger.Debug("observer removed", "sub_id", id)
			return
		}
	}
}

// Len returns the number of currently subscribed observers.
func (n *Notifier[T]) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Publish delivers v to every observer subscribed at the moment of the
// call, in subscription order.
func (n *Notifier[T]) Publish(v T) {
	n.mu.RLock()
	targets := make([]subscription[T], len(n.subs))
	copy(targets, n.subs)
	n.mu.RUnlock()

	for _, sub := range targets {
		n.deliver(sub, v)
	}
}

// deliver invokes one observer, isolating panics so a failing observer
// cannot abort delivery to its siblings.
func (n *Notifier[T]) deliver(sub subscription[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("observer panicked during delivery",
				"sub_id", sub.id,
				"panic", r)
		}
	}()
	sub.fn(v)
}
