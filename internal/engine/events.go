// ABOUTME: Notification payloads published by the chat engine
// ABOUTME: One chat-change type covering writes, edits, recalls, and clears

package engine

import "github.com/2389/coven-console/internal/model"

// ChatChangeKind distinguishes what happened to a channel's history.
type ChatChangeKind int

const (
	// ChatWritten means new messages were appended.
	ChatWritten ChatChangeKind = iota
	// ChatEdited means an existing message's content was replaced.
	ChatEdited
	// ChatRecalled means a message was removed. The UI is expected to show
	// a "recalled" placeholder rather than erase the row; that policy is
	// carried by this notification, not enforced here.
	ChatRecalled
	// ChatCleared means the channel's history was dropped.
	ChatCleared
)

// String returns the kind's wire-friendly name.
func (k ChatChangeKind) String() string {
	switch k {
	case ChatWritten:
		return "written"
	case ChatEdited:
		return "edited"
	case ChatRecalled:
		return "recalled"
	case ChatCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// ChatChange is delivered to chat observers whenever a channel's history
// mutates.
type ChatChange struct {
	Kind    ChatChangeKind
	Channel model.Channel

	// Events carries the appended messages for ChatWritten.
	Events []model.MessageEvent

	// MessageID identifies the affected message for ChatEdited and
	// ChatRecalled.
	MessageID string

	// Content carries the new content for ChatEdited.
	Content model.ConsoleMessage
}
