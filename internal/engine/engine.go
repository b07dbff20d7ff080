// ABOUTME: Chat engine facade coordinating store, session, and notifications
// ABOUTME: Implements send/receive/edit/recall, channel listing, and DM synthesis

package engine

import (
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/2389/coven-console/internal/config"
	"github.com/2389/coven-console/internal/model"
	"github.com/2389/coven-console/internal/session"
	"github.com/2389/coven-console/internal/store"
	"github.com/2389/coven-console/internal/watch"
)

// Engine is the chat state and notification engine driving a console UI.
type Engine struct {
	store   *store.Store
	session *session.Session
	logger  *slog.Logger

	chat     *watch.Notifier[ChatChange]
	users    *watch.Notifier[model.User]
	channels *watch.Notifier[model.Channel]
	bots     *watch.Notifier[model.Bot]

	callbacks *callbackRegistry
}

// New creates an engine from configuration: an empty store with the
// configured retention, a session seeded with the configured identities,
// and the owner user, bot, and default channel pre-registered.
func New(cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "engine")

	owner := model.User{
		ID:       cfg.Session.User.ID,
		Nickname: cfg.Session.User.Name,
		Avatar:   orDefault(cfg.Session.User.Avatar, model.DefaultUserAvatar),
	}
	bot := model.Bot{User: model.User{
		ID:       cfg.Session.Bot.ID,
		Nickname: cfg.Session.Bot.Name,
		Avatar:   orDefault(cfg.Session.Bot.Avatar, model.DefaultBotAvatar),
	}}
	channel := model.Channel{
		ID:          cfg.Session.Channel.ID,
		Name:        cfg.Session.Channel.Name,
		Description: cfg.Session.Channel.Description,
		Avatar:      orDefault(cfg.Session.Channel.Avatar, model.DefaultChannelAvatar),
	}

	e := &Engine{
		store:     store.New(cfg.Retention.Chat, logger),
		session:   session.New(owner, channel, bot, cfg.Session.BotMode, logger),
		logger:    logger,
		chat:      watch.NewNotifier[ChatChange](logger),
		users:     watch.NewNotifier[model.User](logger),
		channels:  watch.NewNotifier[model.Channel](logger),
		bots:      watch.NewNotifier[model.Bot](logger),
		callbacks: newCallbackRegistry(logger),
	}

	e.store.AddUser(owner)
	e.store.AddBot(bot)
	e.store.AddChannel(channel)

	logger.Info("engine ready",
		"owner", owner.ID,
		"bot", bot.ID,
		"channel", channel.ID,
		"bot_mode", cfg.Session.BotMode,
		"retention", e.store.Retention())
	return e
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Session exposes the session context so the UI can switch the current
// user, channel, bot, and mode.
func (e *Engine) Session() *session.Session {
	return e.session
}

// Users returns the registered users in registration order.
func (e *Engine) Users() []model.User { return e.store.Users() }

// Bots returns the registered bots in registration order.
func (e *Engine) Bots() []model.Bot { return e.store.Bots() }

// AddUser registers a user, notifying user observers on a genuine
// addition. Returns whether the user was new.
func (e *Engine) AddUser(user model.User) bool {
	if e.store.AddUser(user) {
		e.users.Publish(user)
		return true
	}
	return false
}

// AddBot registers a bot, notifying bot observers on a genuine addition.
func (e *Engine) AddBot(bot model.Bot) bool {
	if e.store.AddBot(bot) {
		e.bots.Publish(bot)
		return true
	}
	return false
}

// AddChannel registers a channel, notifying channel observers on a genuine
// addition.
func (e *Engine) AddChannel(channel model.Channel) bool {
	if e.store.AddChannel(channel) {
		e.channels.Publish(channel)
		return true
	}
	return false
}

// SendRequest describes an outbound message. Target nil means the current
// channel; Bot nil means the current bot.
type SendRequest struct {
	Content model.ConsoleMessage
	Target  model.Target
	Bot     *model.Bot
}

// SendResult reports the stored message id and whether the UI should raise
// an out-of-band "new message" alert.
type SendResult struct {
	MessageID string
	Alerted   bool
}

// Send resolves the target channel and sender identity, stores the
// message, and notifies chat observers.
func (e *Engine) Send(req SendRequest) SendResult {
	target := e.resolveTarget(req.Target)

	bot := e.session.Bot()
	if req.Bot != nil {
		bot = *req.Bot
	}

	event := model.MessageEvent{
		Time:    time.Now(),
		SelfID:  bot.ID,
		Type:    model.EventTypeMessage,
		User:    bot.User,
		Channel: target,
		Message: req.Content,
	}
	event.MessageID = e.store.WriteMessage(event, target)

	e.chat.Publish(ChatChange{Kind: ChatWritten, Channel: target, Events: []model.MessageEvent{event}})

	alerted := e.shouldAlert(target)
	e.logger.Debug("message sent",
		"channel_id", target.ID,
		"message_id", event.MessageID,
		"sender", bot.ID,
		"alerted", alerted)
	return SendResult{MessageID: event.MessageID, Alerted: alerted}
}

// Edit replaces a message's content and notifies chat observers. Returns
// false without side effects if the id is absent in the channel.
func (e *Engine) Edit(messageID string, content model.ConsoleMessage, channel *model.Channel) bool {
	target := e.resolveOptional(channel)
	if !e.store.EditMessage(messageID, content, target) {
		return false
	}
	e.chat.Publish(ChatChange{Kind: ChatEdited, Channel: target, MessageID: messageID, Content: content})
	return true
}

// Recall removes a message and notifies chat observers. Absent ids are a
// silent no-op.
func (e *Engine) Recall(messageID string, channel *model.Channel) {
	target := e.resolveOptional(channel)
	if _, ok := e.store.GetMessage(messageID, target); !ok {
		return
	}
	e.store.RemoveMessage(messageID, target)
	e.chat.Publish(ChatChange{Kind: ChatRecalled, Channel: target, MessageID: messageID})
}

// GetMessage looks up a stored message by id. A nil channel means the
// current one.
func (e *Engine) GetMessage(messageID string, channel *model.Channel) (model.MessageEvent, bool) {
	return e.store.GetMessage(messageID, e.resolveOptional(channel))
}

// History returns a channel's messages oldest first. A nil channel means
// the current one; the direct sentinel resolves to the owner's private
// channel.
func (e *Engine) History(channel *model.Channel) []model.MessageEvent {
	return e.store.History(e.resolveOptional(channel))
}

// ClearHistory drops a channel's messages and notifies chat observers.
func (e *Engine) ClearHistory(channel *model.Channel) {
	target := e.resolveOptional(channel)
	e.store.ClearHistory(target)
	e.chat.Publish(ChatChange{Kind: ChatCleared, Channel: target})
}

// CreateDM synthesizes (and registers) the private channel for the direct
// conversation with a user. The channel's activity-ordering key matches
// the user's registration time so listings stay deterministic before any
// messages exist.
func (e *Engine) CreateDM(user model.User) model.Channel {
	e.AddUser(user)
	ch := session.ResolveDirect(user)
	if e.AddChannel(ch) {
		if at, ok := e.store.UserAddedAt(user.ID); ok {
			e.store.SetChannelAddedAt(ch.ID, at)
		}
	}
	return ch
}

// ListChannels returns channels ordered by most recent activity, newest
// first. Activity is the timestamp of a channel's latest message, falling
// back to its registration time. With includeAllDMs (bot-mode) one
// synthesized private channel per known user is listed; otherwise only the
// session owner's.
func (e *Engine) ListChannels(includeAllDMs bool) []model.Channel {
	channels := lo.Filter(e.store.Channels(), func(ch model.Channel, _ int) bool {
		return !ch.IsDirect()
	})

	if includeAllDMs {
		dms := lo.Map(e.store.Users(), func(u model.User, _ int) model.Channel {
			return session.ResolveDirect(u)
		})
		channels = append(channels, dms...)
	} else {
		channels = append(channels, e.session.OwnerDirect())
	}

	sort.SliceStable(channels, func(i, j int) bool {
		return e.activity(channels[i]).After(e.activity(channels[j]))
	})
	return channels
}

// activity returns a channel's ordering key: last message time, else
// registration time. Synthesized direct channels without a registry entry
// fall back to their user's registration time.
func (e *Engine) activity(ch model.Channel) time.Time {
	if at, ok := e.store.LastActivity(ch); ok {
		return at
	}
	if at, ok := e.store.ChannelAddedAt(ch.ID); ok {
		return at
	}
	if ch.IsDirect() {
		userID := ch.ID[len(model.PrivatePrefix):]
		if at, ok := e.store.UserAddedAt(userID); ok {
			return at
		}
	}
	return time.Time{}
}

// shouldAlert reports whether a message written to target warrants an
// out-of-band "new message" alert: the target is the owner's private
// channel, the owner is viewing a different channel, and the session is
// not in bot-mode.
func (e *Engine) shouldAlert(target model.Channel) bool {
	if e.session.BotMode() {
		return false
	}
	owner := e.session.OwnerDirect()
	if target.ID != owner.ID {
		return false
	}
	viewing := e.session.ResolveChannel(e.session.Channel())
	return viewing.ID != target.ID
}

// resolveTarget maps a request target to a concrete channel, defaulting to
// the current channel.
func (e *Engine) resolveTarget(target model.Target) model.Channel {
	if target == nil {
		return e.session.ResolveChannel(e.session.Channel())
	}
	return e.session.Resolve(target)
}

// resolveOptional maps an optional channel argument to a concrete channel,
// defaulting to the current one.
func (e *Engine) resolveOptional(channel *model.Channel) model.Channel {
	if channel == nil {
		return e.session.ResolveChannel(e.session.Channel())
	}
	return e.session.ResolveChannel(*channel)
}
