// ABOUTME: Rich message content carried by chat events
// ABOUTME: ConsoleMessage is an element sequence; markdown converts via goldmark

package model

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// Element is one piece of rich message content. The engine treats elements
// as opaque; only UI collaborators interpret them.
type Element interface {
	fmt.Stringer
}

// Text is a plain text element.
type Text struct {
	Text string
}

func (t Text) String() string { return t.Text }

// Emoji is a named emoji element (e.g. "rocket").
type Emoji struct {
	Name string
}

func (e Emoji) String() string { return ":" + e.Name + ":" }

// Markup is styled inline text. Style is a renderer hint ("bold red",
// "dim", ...) that the engine never interprets.
type Markup struct {
	Markup string
	Style  string
}

func (m Markup) String() string { return m.Markup }

// Markdown is a block of markdown source.
type Markdown struct {
	Markup string
}

func (m Markdown) String() string { return m.Markup }

// HTML converts the markdown source to HTML for UI collaborators that
// render rich content.
func (m Markdown) HTML() (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(m.Markup), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// ConsoleMessage is an ordered sequence of content elements.
type ConsoleMessage []Element

// PlainText builds a message holding a single text element.
func PlainText(text string) ConsoleMessage {
	return ConsoleMessage{Text{Text: text}}
}

// String concatenates the string form of every element.
func (m ConsoleMessage) String() string {
	var b strings.Builder
	for _, el := range m {
		b.WriteString(el.String())
	}
	return b.String()
}
