// ABOUTME: Identity value types for the console chat engine
// ABOUTME: Users, bots, channels, message events, and the direct-message sentinel

package model

import "time"

// EventTypeMessage is the event type carried by chat message events.
const EventTypeMessage = "console.message"

// PrivatePrefix prefixes the id of every concrete direct-message channel.
// The full id is "private:<user_id>".
const PrivatePrefix = "private:"

// Default avatars used when a caller registers an identity without one.
const (
	DefaultUserAvatar    = "👤"
	DefaultBotAvatar     = "🤖"
	DefaultChannelAvatar = "💬"
)

// Direct is the sentinel channel representing "whichever direct-message
// context is currently active". Its id never appears as a history key.
var Direct = Channel{
	ID:          "_direct",
	Name:        "Direct Messages",
	Description: "direct message channel",
	Avatar:      "🔏",
}

// User is a chat participant. Identity is the ID field only.
type User struct {
	ID       string
	Avatar   string
	Nickname string
}

// NewUser creates a user, filling in default avatar and nickname.
func NewUser(id string) User {
	return User{ID: id, Avatar: DefaultUserAvatar, Nickname: "User"}
}

// Equal reports whether both users name the same entity.
func (u User) Equal(other User) bool {
	return u.ID == other.ID
}

// Bot is a user acting in the bot role. A session has exactly one current
// bot, used as the sender identity in bot-mode.
type Bot struct {
	User
}

// NewBot creates a bot, filling in default avatar and nickname.
func NewBot(id string) Bot {
	return Bot{User: User{ID: id, Avatar: DefaultBotAvatar, Nickname: "Bot"}}
}

// Channel is a named conversation context. Identity is the ID field only.
type Channel struct {
	ID          string
	Name        string
	Description string
	Avatar      string
}

// Equal reports whether both channels name the same entity.
func (c Channel) Equal(other Channel) bool {
	return c.ID == other.ID
}

// IsDirect reports whether the channel is the direct sentinel or a concrete
// private channel.
func (c Channel) IsDirect() bool {
	return c.ID == Direct.ID || len(c.ID) >= len(PrivatePrefix) && c.ID[:len(PrivatePrefix)] == PrivatePrefix
}

// MessageEvent is a single chat message as stored in channel history.
//
// MessageID is assigned by the store at write time when left empty; once
// assigned it is stable and keys edit/recall operations.
type MessageEvent struct {
	Time      time.Time
	SelfID    string
	Type      string
	User      User
	Channel   Channel
	MessageID string
	Message   ConsoleMessage
}

// Target identifies where a message should go before the session resolves
// it to a concrete channel: either a channel directly, or the direct
// conversation with a given user.
type Target interface {
	isTarget()
}

// ChannelTarget addresses a channel as-is (the direct sentinel included).
type ChannelTarget struct {
	Channel Channel
}

func (ChannelTarget) isTarget() {}

// DirectTarget addresses the direct conversation with a user.
type DirectTarget struct {
	User User
}

func (DirectTarget) isTarget() {}
