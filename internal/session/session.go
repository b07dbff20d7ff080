// ABOUTME: Session context tracking the current user, channel, bot, and mode
// ABOUTME: Resolves the direct-message sentinel to concrete private channels

package session

import (
	"log/slog"
	"sync"

	"github.com/2389/coven-console/internal/model"
	"github.com/2389/coven-console/internal/watch"
)

// Session tracks the "current" pointers of one console session: the active
// user, channel, and bot, plus the bot-mode flag.
//
// The mode flag changes interpretation only, never storage: in bot-mode the
// self identity for outbound messages is the current bot, in user-mode the
// current user. Toggling it notifies mode observers so dependent views can
// re-derive deterministically.
type Session struct {
	mu      sync.RWMutex
	user    model.User
	channel model.Channel
	bot     model.Bot
	botMode bool

	mode   *watch.Notifier[bool]
	logger *slog.Logger
}

// New creates a session with the given initial identities. Pass nil logger
// for default.
func New(user model.User, channel model.Channel, bot model.Bot, botMode bool, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "session")
	return &Session{
		user:    user,
		channel: channel,
		bot:     bot,
		botMode: botMode,
		mode:    watch.NewNotifier[bool](logger),
		logger:  logger,
	}
}

// User returns the current user.
func (s *Session) User() model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Channel returns the current channel.
func (s *Session) Channel() model.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channel
}

// Bot returns the current bot.
func (s *Session) Bot() model.Bot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bot
}

// SetUser switches the current user.
func (s *Session) SetUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// SetChannel switches the current channel. Storage is untouched; only what
// history and channel listings consider "current" changes.
func (s *Session) SetChannel(channel model.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = channel
}

// SetBot switches the current bot.
func (s *Session) SetBot(bot model.Bot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bot = bot
}

// BotMode reports whether the session is in bot-mode.
func (s *Session) BotMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.botMode
}

// SetBotMode toggles bot-mode and notifies mode observers.
func (s *Session) SetBotMode(enabled bool) {
	s.mu.Lock()
	s.botMode = enabled
	s.mu.Unlock()

	s.logger.Debug("bot mode changed", "enabled", enabled)
	s.mode.Publish(enabled)
}

// WatchMode subscribes an observer to bot-mode changes and returns a
// handle for UnwatchMode.
func (s *Session) WatchMode(fn func(bool)) string {
	return s.mode.Subscribe(fn)
}

// UnwatchMode removes a mode observer.
func (s *Session) UnwatchMode(handle string) {
	s.mode.Unsubscribe(handle)
}

// Self returns the identity outbound messages are sent as: the current bot
// in bot-mode, the current user otherwise.
func (s *Session) Self() model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.botMode {
		return s.bot.User
	}
	return s.user
}

// IsDirect reports whether the session's current channel is a direct
// conversation (the sentinel or a concrete private channel).
func (s *Session) IsDirect() bool {
	return s.Channel().IsDirect()
}

// ResolveDirect synthesizes the canonical concrete channel for the direct
// conversation with a user.
func ResolveDirect(user model.User) model.Channel {
	if user.ID == "" {
		panic("session: resolving direct channel without a user")
	}
	return model.Channel{
		ID:     model.PrivatePrefix + user.ID,
		Name:   user.Nickname,
		Avatar: user.Avatar,
	}
}

// ResolveChannel rewrites the direct sentinel to the current user's private
// channel; concrete channels pass through unchanged. A session must always
// have a current user, so resolving the sentinel without one panics.
func (s *Session) ResolveChannel(channel model.Channel) model.Channel {
	if channel.ID != model.Direct.ID {
		return channel
	}
	return ResolveDirect(s.User())
}

// Resolve turns a target into the concrete channel it addresses.
func (s *Session) Resolve(target model.Target) model.Channel {
	switch t := target.(type) {
	case model.ChannelTarget:
		return s.ResolveChannel(t.Channel)
	case model.DirectTarget:
		return ResolveDirect(t.User)
	default:
		panic("session: unknown target type")
	}
}

// OwnerDirect returns the current user's own private channel.
func (s *Session) OwnerDirect() model.Channel {
	return ResolveDirect(s.User())
}
