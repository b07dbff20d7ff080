// ABOUTME: Bot callback registry and concurrent event fan-out
// ABOUTME: PostEvent joins all callbacks and aggregates their failures

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/2389/coven-console/internal/model"
	"github.com/2389/coven-console/internal/session"
)

// Callback is a bot-integration handler invoked for every posted message
// event. Callbacks run concurrently with each other; a failure is reported
// in PostEvent's aggregate error without blocking siblings.
type Callback func(ctx context.Context, event model.MessageEvent) error

type callbackRegistry struct {
	mu     sync.RWMutex
	fns    []Callback
	logger *slog.Logger
}

func newCallbackRegistry(logger *slog.Logger) *callbackRegistry {
	return &callbackRegistry{logger: logger.With("component", "callbacks")}
}

func (r *callbackRegistry) add(fn Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns = append(r.fns, fn)
}

func (r *callbackRegistry) snapshot() []Callback {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Callback, len(r.fns))
	copy(out, r.fns)
	return out
}

// OnEvent registers a bot callback for PostEvent fan-out.
func (e *Engine) OnEvent(fn Callback) {
	e.callbacks.add(fn)
}

// PostEvent routes a message event to every registered bot callback.
// Callbacks run concurrently; PostEvent waits for all of them and returns
// their failures joined into one error (nil when every callback
// succeeded). A panicking callback is reported as a failure.
func (e *Engine) PostEvent(ctx context.Context, event model.MessageEvent) error {
	callbacks := e.callbacks.snapshot()
	if len(callbacks) == 0 {
		return nil
	}

	errs := make([]error, len(callbacks))
	var wg sync.WaitGroup
	for i, fn := range callbacks {
		wg.Add(1)
		go func(i int, fn Callback) {
			defer wg.Done()
			errs[i] = e.invokeCallback(ctx, fn, event)
		}(i, fn)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		e.logger.Warn("bot callback failures",
			"message_id", event.MessageID,
			"error", err)
		return err
	}
	return nil
}

// invokeCallback runs one callback, converting a panic into an error so it
// cannot take down sibling callbacks or the caller.
func (e *Engine) invokeCallback(ctx context.Context, fn Callback, event model.MessageEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panicked: %v", r)
		}
	}()
	return fn(ctx, event)
}

// Receive injects an inbound message event into the session, as if from a
// real user on the simulated chat framework. The sender and channel are
// registered if unseen, the message is stored, chat observers are
// notified, and the event is fanned out to bot callbacks.
//
// The returned alert flag follows the same rule as Send; the error is the
// callback fan-out aggregate.
func (e *Engine) Receive(ctx context.Context, event model.MessageEvent) (bool, error) {
	e.AddUser(event.User)

	target := e.session.ResolveChannel(event.Channel)
	if !target.IsDirect() {
		e.AddChannel(target)
	}

	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	if event.Type == "" {
		event.Type = model.EventTypeMessage
	}
	event.Channel = target
	event.MessageID = e.store.WriteMessage(event, target)

	e.chat.Publish(ChatChange{Kind: ChatWritten, Channel: target, Events: []model.MessageEvent{event}})

	alerted := e.shouldAlert(target)
	e.logger.Debug("message received",
		"channel_id", target.ID,
		"message_id", event.MessageID,
		"sender", event.User.ID,
		"alerted", alerted)

	return alerted, e.PostEvent(ctx, event)
}

// ReceiveDirect injects an inbound direct message from a user, resolving
// the conversation to the user's private channel first.
func (e *Engine) ReceiveDirect(ctx context.Context, event model.MessageEvent) (bool, error) {
	event.Channel = session.ResolveDirect(event.User)
	return e.Receive(ctx, event)
}
