// Package model defines the identity value types shared by the console
// chat engine: users, bots, channels, and message events.
//
// # Identity
//
// Users, bots, and channels are identified by their ID string. Two values
// with the same ID are the same entity regardless of display metadata; use
// Equal rather than == when metadata may differ.
//
// # Direct messages
//
// The Direct channel is a sentinel meaning "the active direct-message
// context". It is never a storage key: every read or write against it must
// first be resolved to a concrete private channel (id "private:<user_id>")
// by the session layer.
//
// # Message content
//
// ConsoleMessage is an ordered sequence of rich content elements (plain
// text, styled markup, markdown). The engine stores and compares them but
// never interprets them; rendering belongs to the UI collaborator.
package model
