// ABOUTME: TOML scenario files: preset identities and scripted inbound messages
// ABOUTME: Lets the demo driver replay a deterministic conversation into the engine

package scenario

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/2389/coven-console/internal/model"
)

// Identity is one preset user, bot, or channel in a scenario file.
type Identity struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Avatar      string `toml:"avatar"`
}

// Message is one scripted inbound message. Channel may name a preset
// channel id or be empty, in which case the message goes to the sender's
// direct conversation. Markdown marks the text as markdown content.
type Message struct {
	From     string `toml:"from"`
	Channel  string `toml:"channel"`
	Text     string `toml:"text"`
	Markdown bool   `toml:"markdown"`
}

// Scenario is a replayable script of identities and messages.
type Scenario struct {
	Users    []Identity `toml:"users"`
	Bots     []Identity `toml:"bots"`
	Channels []Identity `toml:"channels"`
	Messages []Message  `toml:"messages"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	var sc Scenario
	if _, err := toml.DecodeFile(path, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks that every scripted message references a known sender
// and (when set) a known channel.
func (s *Scenario) Validate() error {
	users := make(map[string]bool, len(s.Users))
	for i, u := range s.Users {
		if u.ID == "" {
			return fmt.Errorf("users[%d]: id is required", i)
		}
		users[u.ID] = true
	}
	for i, b := range s.Bots {
		if b.ID == "" {
			return fmt.Errorf("bots[%d]: id is required", i)
		}
	}
	channels := make(map[string]bool, len(s.Channels))
	for i, c := range s.Channels {
		if c.ID == "" {
			return fmt.Errorf("channels[%d]: id is required", i)
		}
		channels[c.ID] = true
	}
	for i, m := range s.Messages {
		if !users[m.From] {
			return fmt.Errorf("messages[%d]: unknown sender %q", i, m.From)
		}
		if m.Channel != "" && !channels[m.Channel] {
			return fmt.Errorf("messages[%d]: unknown channel %q", i, m.Channel)
		}
	}
	return nil
}

// User converts a preset identity to a model user.
func (id Identity) User() model.User {
	return model.User{
		ID:       id.ID,
		Nickname: id.Name,
		Avatar:   orDefault(id.Avatar, model.DefaultUserAvatar),
	}
}

// Bot converts a preset identity to a model bot.
func (id Identity) Bot() model.Bot {
	return model.Bot{User: model.User{
		ID:       id.ID,
		Nickname: id.Name,
		Avatar:   orDefault(id.Avatar, model.DefaultBotAvatar),
	}}
}

// Channel converts a preset identity to a model channel.
func (id Identity) Channel() model.Channel {
	return model.Channel{
		ID:          id.ID,
		Name:        id.Name,
		Description: id.Description,
		Avatar:      orDefault(id.Avatar, model.DefaultChannelAvatar),
	}
}

// Content builds the message's rich content: a single markdown or text
// element.
func (m Message) Content() model.ConsoleMessage {
	if m.Markdown {
		return model.ConsoleMessage{model.Markdown{Markup: m.Text}}
	}
	return model.PlainText(m.Text)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
