// ABOUTME: Tests for the in-memory message store
// ABOUTME: Covers idempotent registration, retention eviction, edit/remove/get

package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/coven-console/internal/model"
)

var general = model.Channel{ID: "general", Name: "General"}

func makeEvent(sender model.User, text string) model.MessageEvent {
	return model.MessageEvent{
		Time:    time.Now(),
		SelfID:  "robot",
		Type:    model.EventTypeMessage,
		User:    sender,
		Channel: general,
		Message: model.PlainText(text),
	}
}

func TestAddUserIsIdempotent(t *testing.T) {
	s := New(0, nil)
	alice := model.User{ID: "u1", Nickname: "Alice"}

	assert.True(t, s.AddUser(alice))
	assert.False(t, s.AddUser(model.User{ID: "u1", Nickname: "Impostor"}))

	users := s.Users()
	require.Len(t, users, 1)
	// First registration wins for metadata.
	assert.Equal(t, "Alice", users[0].Nickname)
}

func TestAddBotAndChannelAreIdempotent(t *testing.T) {
	s := New(0, nil)

	assert.True(t, s.AddBot(model.NewBot("robot")))
	assert.False(t, s.AddBot(model.NewBot("robot")))
	assert.Len(t, s.Bots(), 1)

	assert.True(t, s.AddChannel(general))
	assert.False(t, s.AddChannel(general))
	assert.Len(t, s.Channels(), 1)
	assert.True(t, s.HasChannel("general"))
	assert.False(t, s.HasChannel("random"))
}

func TestWriteMessageAssignsID(t *testing.T) {
	s := New(0, nil)
	alice := model.User{ID: "u1"}

	event := makeEvent(alice, "hello")
	id := s.WriteMessage(event, general)
	require.NotEmpty(t, id)

	got, ok := s.GetMessage(id, general)
	require.True(t, ok)
	assert.Equal(t, id, got.MessageID)

	// Round-trip: equal to the written event except for the assigned id.
	event.MessageID = id
	assert.Equal(t, event, got)
}

func TestWriteMessageKeepsCallerSuppliedID(t *testing.T) {
	s := New(0, nil)

	event := makeEvent(model.User{ID: "u1"}, "hello")
	event.MessageID = "msg-1"
	assert.Equal(t, "msg-1", s.WriteMessage(event, general))
}

func TestWriteMessageIgnoresDuplicateID(t *testing.T) {
	s := New(0, nil)

	event := makeEvent(model.User{ID: "u1"}, "hello")
	event.MessageID = "msg-1"
	s.WriteMessage(event, general)

	dup := makeEvent(model.User{ID: "u2"}, "replayed")
	dup.MessageID = "msg-1"
	assert.Equal(t, "msg-1", s.WriteMessage(dup, general))

	h := s.History(general)
	require.Len(t, h, 1)
	// First write wins, same as the registries.
	assert.Equal(t, "hello", h[0].Message.String())

	// The same id in another channel is fine; uniqueness is per history.
	other := model.Channel{ID: "random", Name: "Random"}
	assert.Equal(t, "msg-1", s.WriteMessage(dup, other))
	assert.Len(t, s.History(other), 1)
}

func TestRetentionEvictsOldestFirst(t *testing.T) {
	s := New(0, nil)
	alice := model.User{ID: "u1"}

	for i := 0; i < DefaultRetention+1; i++ {
		s.WriteMessage(makeEvent(alice, fmt.Sprintf("msg %d", i)), general)
	}

	h := s.History(general)
	require.Len(t, h, DefaultRetention)
	// The oldest entry was evicted; what was written 2nd is now first.
	assert.Equal(t, "msg 1", h[0].Message.String())
	assert.Equal(t, fmt.Sprintf("msg %d", DefaultRetention), h[len(h)-1].Message.String())
}

func TestRetentionKeepsLastNInOrder(t *testing.T) {
	s := New(3, nil)
	alice := model.User{ID: "u1"}

	for i := 0; i < 10; i++ {
		s.WriteMessage(makeEvent(alice, fmt.Sprintf("msg %d", i)), general)
	}

	h := s.History(general)
	require.Len(t, h, 3)
	assert.Equal(t, "msg 7", h[0].Message.String())
	assert.Equal(t, "msg 8", h[1].Message.String())
	assert.Equal(t, "msg 9", h[2].Message.String())
}

func TestEditMessagePreservesTimeAndSender(t *testing.T) {
	s := New(0, nil)
	alice := model.User{ID: "u1", Nickname: "Alice"}

	event := makeEvent(alice, "original")
	id := s.WriteMessage(event, general)

	require.True(t, s.EditMessage(id, model.PlainText("edited"), general))

	got, ok := s.GetMessage(id, general)
	require.True(t, ok)
	assert.Equal(t, "edited", got.Message.String())
	assert.Equal(t, event.Time, got.Time)
	assert.Equal(t, alice, got.User)
}

func TestEditAbsentMessageReturnsFalse(t *testing.T) {
	s := New(0, nil)
	id := s.WriteMessage(makeEvent(model.User{ID: "u1"}, "keep"), general)

	assert.False(t, s.EditMessage("no-such-id", model.PlainText("x"), general))

	got, _ := s.GetMessage(id, general)
	assert.Equal(t, "keep", got.Message.String())
}

func TestRemoveMessageIsIdempotent(t *testing.T) {
	s := New(0, nil)
	id1 := s.WriteMessage(makeEvent(model.User{ID: "u1"}, "first"), general)
	id2 := s.WriteMessage(makeEvent(model.User{ID: "u1"}, "second"), general)

	s.RemoveMessage(id1, general)
	s.RemoveMessage(id1, general)

	h := s.History(general)
	require.Len(t, h, 1)
	assert.Equal(t, id2, h[0].MessageID)
}

func TestHistoryUnknownChannelIsEmpty(t *testing.T) {
	s := New(0, nil)
	assert.Empty(t, s.History(model.Channel{ID: "nowhere"}))
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := New(0, nil)
	s.WriteMessage(makeEvent(model.User{ID: "u1"}, "hello"), general)

	h := s.History(general)
	h[0].Message = model.PlainText("mutated")

	fresh := s.History(general)
	assert.Equal(t, "hello", fresh[0].Message.String())
}

func TestClearHistory(t *testing.T) {
	s := New(0, nil)
	s.WriteMessage(makeEvent(model.User{ID: "u1"}, "hello"), general)

	s.ClearHistory(general)
	assert.Empty(t, s.History(general))
}

func TestLastActivity(t *testing.T) {
	s := New(0, nil)

	_, ok := s.LastActivity(general)
	assert.False(t, ok)

	event := makeEvent(model.User{ID: "u1"}, "hello")
	s.WriteMessage(event, general)

	at, ok := s.LastActivity(general)
	require.True(t, ok)
	assert.Equal(t, event.Time, at)
}

func TestDirectSentinelPanics(t *testing.T) {
	s := New(0, nil)

	assert.Panics(t, func() { s.WriteMessage(makeEvent(model.User{ID: "u1"}, "x"), model.Direct) })
	assert.Panics(t, func() { s.History(model.Direct) })
	assert.Panics(t, func() { s.AddChannel(model.Direct) })
}

func TestRegistrationTimesRecorded(t *testing.T) {
	s := New(0, nil)
	before := time.Now()
	s.AddUser(model.User{ID: "u1"})
	s.AddChannel(general)
	after := time.Now()

	at, ok := s.UserAddedAt("u1")
	require.True(t, ok)
	assert.False(t, at.Before(before))
	assert.False(t, at.After(after))

	cat, ok := s.ChannelAddedAt("general")
	require.True(t, ok)
	assert.False(t, cat.Before(before))

	_, ok = s.UserAddedAt("ghost")
	assert.False(t, ok)
}

func TestSetChannelAddedAt(t *testing.T) {
	s := New(0, nil)
	s.AddChannel(general)

	want := time.Now().Add(-time.Hour)
	s.SetChannelAddedAt("general", want)

	at, ok := s.ChannelAddedAt("general")
	require.True(t, ok)
	assert.Equal(t, want, at)

	// Unknown channels are untouched.
	s.SetChannelAddedAt("ghost", want)
	_, ok = s.ChannelAddedAt("ghost")
	assert.False(t, ok)
}
