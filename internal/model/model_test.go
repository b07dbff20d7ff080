// ABOUTME: Tests for identity value types and the direct-message sentinel
// ABOUTME: Covers id-based equality, defaults, and direct channel detection

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserEqualityIsByID(t *testing.T) {
	a := User{ID: "u1", Nickname: "Alice", Avatar: "👤"}
	b := User{ID: "u1", Nickname: "Renamed", Avatar: "🎭"}
	c := User{ID: "u2", Nickname: "Alice", Avatar: "👤"}

	assert.True(t, a.Equal(b), "same id, different metadata: same entity")
	assert.False(t, a.Equal(c))
}

func TestChannelEqualityIsByID(t *testing.T) {
	a := Channel{ID: "general", Name: "General"}
	b := Channel{ID: "general", Name: "Renamed", Description: "other"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Channel{ID: "random"}))
}

func TestNewUserDefaults(t *testing.T) {
	u := NewUser("console")
	assert.Equal(t, "console", u.ID)
	assert.Equal(t, DefaultUserAvatar, u.Avatar)

	b := NewBot("robot")
	assert.Equal(t, "robot", b.ID)
	assert.Equal(t, DefaultBotAvatar, b.Avatar)
}

func TestChannelIsDirect(t *testing.T) {
	tests := []struct {
		name    string
		channel Channel
		want    bool
	}{
		{"sentinel", Direct, true},
		{"private channel", Channel{ID: PrivatePrefix + "u1"}, true},
		{"regular channel", Channel{ID: "general"}, false},
		{"empty id", Channel{}, false},
		{"prefix only", Channel{ID: "private:"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.channel.IsDirect())
		})
	}
}
