// ABOUTME: Observer registration for the engine's notification categories
// ABOUTME: Chat, user, channel, bot, and mode streams with opaque handles

package engine

import "github.com/2389/coven-console/internal/model"

// WatchChat subscribes an observer to history mutations. Returns a handle
// for UnwatchChat.
func (e *Engine) WatchChat(fn func(ChatChange)) string {
	return e.chat.Subscribe(fn)
}

// UnwatchChat removes a chat observer.
func (e *Engine) UnwatchChat(handle string) {
	e.chat.Unsubscribe(handle)
}

// WatchUsers subscribes an observer to genuine user additions.
func (e *Engine) WatchUsers(fn func(model.User)) string {
	return e.users.Subscribe(fn)
}

// UnwatchUsers removes a user observer.
func (e *Engine) UnwatchUsers(handle string) {
	e.users.Unsubscribe(handle)
}

// WatchChannels subscribes an observer to genuine channel additions.
func (e *Engine) WatchChannels(fn func(model.Channel)) string {
	return e.channels.Subscribe(fn)
}

// UnwatchChannels removes a channel observer.
func (e *Engine) UnwatchChannels(handle string) {
	e.channels.Unsubscribe(handle)
}

// WatchBots subscribes an observer to genuine bot additions.
func (e *Engine) WatchBots(fn func(model.Bot)) string {
	return e.bots.Subscribe(fn)
}

// UnwatchBots removes a bot observer.
func (e *Engine) UnwatchBots(handle string) {
	e.bots.Unsubscribe(handle)
}

// WatchMode subscribes an observer to bot-mode toggles.
func (e *Engine) WatchMode(fn func(bool)) string {
	return e.session.WatchMode(fn)
}

// UnwatchMode removes a mode observer.
func (e *Engine) UnwatchMode(handle string) {
	e.session.UnwatchMode(handle)
}
