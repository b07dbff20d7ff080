// ABOUTME: In-memory message store with idempotent registries and capped history
// ABOUTME: Single-mutex critical section; message ids assigned at write time

package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2389/coven-console/internal/model"
)

// DefaultRetention is the per-channel history cap used when the caller
// passes 0 to New.
const DefaultRetention = 500

// Store owns the identity registries and per-channel message histories.
type Store struct {
	mu        sync.RWMutex
	retention int

	users     []model.User
	userAdded map[string]time.Time

	bots     []model.Bot
	botAdded map[string]time.Time

	channels     []model.Channel
	channelAdded map[string]time.Time

	history map[string][]model.MessageEvent

	logger *slog.Logger
}

// New creates an empty store. retention caps each channel's history;
// 0 means DefaultRetention. Pass nil logger for default.
func New(retention int, logger *slog.Logger) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		retention:    retention,
		userAdded:    make(map[string]time.Time),
		botAdded:     make(map[string]time.Time),
		channelAdded: make(map[string]time.Time),
		history:      make(map[string][]model.MessageEvent),
		logger:       logger.With("component", "store"),
	}
}

// Retention returns the per-channel history cap.
func (s *Store) Retention() int {
	return s.retention
}

// AddUser registers a user. Returns true if the user was genuinely new;
// re-registering an existing id is a no-op and returns false.
func (s *Store) AddUser(user model.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.userAdded[user.ID]; exists {
		return false
	}
	s.users = append(s.users, user)
	s.userAdded[user.ID] = time.Now()
	s.logger.Debug("user registered", "user_id", user.ID, "total_users", len(s.users))
	return true
}

// AddBot registers a bot. Same idempotency rules as AddUser.
func (s *Store) AddBot(bot model.Bot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.botAdded[bot.ID]; exists {
		return false
	}
	s.bots = append(s.bots, bot)
	s.botAdded[bot.ID] = time.Now()
	s.logger.Debug("bot registered", "bot_id", bot.ID, "total_bots", len(s.bots))
	return true
}

// AddChannel registers a channel. Same idempotency rules as AddUser.
// The direct sentinel is not a registrable channel.
func (s *Store) AddChannel(channel model.Channel) bool {
	s.assertConcrete(channel)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.channelAdded[channel.ID]; exists {
		return false
	}
	s.channels = append(s.channels, channel)
	s.channelAdded[channel.ID] = time.Now()
	s.logger.Debug("channel registered", "channel_id", channel.ID, "total_channels", len(s.channels))
	return true
}

// SetChannelAddedAt overrides a channel's registration time. Used for
// synthesized direct channels, whose activity-ordering key must match the
// owning user's registration time.
func (s *Store) SetChannelAddedAt(channelID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.channelAdded[channelID]; exists {
		s.channelAdded[channelID] = at
	}
}

// Users returns the registered users in registration order.
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out
}

// Bots returns the registered bots in registration order.
func (s *Store) Bots() []model.Bot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Bot, len(s.bots))
	copy(out, s.bots)
	return out
}

// Channels returns the registered channels in registration order.
func (s *Store) Channels() []model.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Channel, len(s.channels))
	copy(out, s.channels)
	return out
}

// HasUser reports whether a user with the given id is registered.
func (s *Store) HasUser(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.userAdded[id]
	return ok
}

// HasChannel reports whether a channel with the given id is registered.
func (s *Store) HasChannel(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.channelAdded[id]
	return ok
}

// UserAddedAt returns a user's registration time.
func (s *Store) UserAddedAt(id string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.userAdded[id]
	return at, ok
}

// ChannelAddedAt returns a channel's registration time.
func (s *Store) ChannelAddedAt(id string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.channelAdded[id]
	return at, ok
}

// WriteMessage appends an event to the channel's history and returns its
// message id. An empty MessageID on the event is replaced with a freshly
// generated one; a caller-supplied id is kept, and a second write with an
// id already present in the channel is ignored so ids stay unique within
// a history. Histories past the retention cap are trimmed from the oldest
// end.
func (s *Store) WriteMessage(event model.MessageEvent, channel model.Channel) string {
	s.assertConcrete(channel)

	generated := event.MessageID == ""
	if generated {
		event.MessageID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !generated {
		for _, existing := range s.history[channel.ID] {
			if existing.MessageID == event.MessageID {
				return event.MessageID
			}
		}
	}

	h := append(s.history[channel.ID], event)
	if len(h) > s.retention {
		h = h[len(h)-s.retention:]
	}
	s.history[channel.ID] = h

	s.logger.Debug("message written",
		"channel_id", channel.ID,
		"message_id", event.MessageID,
		"history_len", len(h))
	return event.MessageID
}

// EditMessage replaces the content of the message with the given id.
// Returns false without mutating anything if the id is absent. Time and
// sender are preserved.
func (s *Store) EditMessage(messageID string, content model.ConsoleMessage, channel model.Channel) bool {
	s.assertConcrete(channel)

	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.history[channel.ID]
	for i := range h {
		if h[i].MessageID == messageID {
			h[i].Message = content
			return true
		}
	}
	return false
}

// RemoveMessage deletes the message with the given id. Absent ids are a
// silent no-op, so removal is idempotent.
func (s *Store) RemoveMessage(messageID string, channel model.Channel) {
	s.assertConcrete(channel)

	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.history[channel.ID]
	for i := range h {
		if h[i].MessageID == messageID {
			s.history[channel.ID] = append(h[:i:i], h[i+1:]...)
			return
		}
	}
}

// GetMessage looks up a message by id within a channel's history.
func (s *Store) GetMessage(messageID string, channel model.Channel) (model.MessageEvent, bool) {
	s.assertConcrete(channel)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, event := range s.history[channel.ID] {
		if event.MessageID == messageID {
			return event, true
		}
	}
	return model.MessageEvent{}, false
}

// History returns the channel's messages in insertion order, oldest first.
// Unknown channels yield an empty slice, never an error.
func (s *Store) History(channel model.Channel) []model.MessageEvent {
	s.assertConcrete(channel)

	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.history[channel.ID]
	out := make([]model.MessageEvent, len(h))
	copy(out, h)
	return out
}

// LastActivity returns the timestamp of the channel's newest message, or
// false if it has none.
func (s *Store) LastActivity(channel model.Channel) (time.Time, bool) {
	s.assertConcrete(channel)

	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.history[channel.ID]
	if len(h) == 0 {
		return time.Time{}, false
	}
	return h[len(h)-1].Time, true
}

// ClearHistory drops every message stored for the channel.
func (s *Store) ClearHistory(channel model.Channel) {
	s.assertConcrete(channel)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.history, channel.ID)
	s.logger.Debug("history cleared", "channel_id", channel.ID)
}

// assertConcrete enforces the contract that the direct sentinel is resolved
// before reaching storage. Hitting it here is a caller defect, not a
// runtime condition.
func (s *Store) assertConcrete(channel model.Channel) {
	if channel.ID == model.Direct.ID {
		panic("store: direct sentinel must be resolved to a concrete channel before storage access")
	}
}
