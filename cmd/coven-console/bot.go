// ABOUTME: Demo bot behaviors wired into the engine's event fan-out
// ABOUTME: Answers pings, serves help text, inspects events, broadcasts DMs

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/2389/coven-console/internal/engine"
	"github.com/2389/coven-console/internal/model"
)

const helpText = `## Commands

- **ping**: check the bot is listening
- **/help**: show this help
- **/inspect**: dump the triggering event
- **/broadcast TEXT**: send TEXT to every known user's direct channel

Console commands: /channels /history /clear /dm /switch /mode /logs /quit`

// registerDemoBot installs a callback that makes the session bot answer a
// handful of commands. Messages authored by the bot itself are ignored so
// replies cannot loop.
func registerDemoBot(e *engine.Engine, logger *slog.Logger) {
	bot := e.Session().Bot()

	e.OnEvent(func(_ context.Context, event model.MessageEvent) error {
		if event.User.ID == bot.ID {
			return nil
		}

		reply := func(content model.ConsoleMessage) {
			e.Send(engine.SendRequest{
				Content: content,
				Target:  model.ChannelTarget{Channel: event.Channel},
				Bot:     &bot,
			})
		}

		text := strings.TrimSpace(event.Message.String())
		switch {
		case strings.EqualFold(text, "ping"):
			reply(model.ConsoleMessage{model.Text{Text: "pong "}, model.Emoji{Name: "ping_pong"}})

		case text == "/help":
			reply(model.ConsoleMessage{model.Markdown{Markup: helpText}})

		case text == "/inspect":
			reply(model.PlainText(fmt.Sprintf(
				"from=%s (%s) channel=%s (%s) message_id=%s at=%s",
				event.User.ID, event.User.Nickname,
				event.Channel.ID, event.Channel.Name,
				event.MessageID, event.Time.Format("15:04:05"))))

		case strings.HasPrefix(text, "/broadcast "):
			body := strings.TrimSpace(strings.TrimPrefix(text, "/broadcast "))
			if body == "" {
				reply(model.PlainText("usage: /broadcast TEXT"))
				return nil
			}
			n := 0
			for _, u := range e.Users() {
				dm := e.CreateDM(u)
				e.Send(engine.SendRequest{
					Content: model.PlainText(body),
					Target:  model.ChannelTarget{Channel: dm},
					Bot:     &bot,
				})
				n++
			}
			logger.Info("broadcast delivered", "recipients", n)
		}
		return nil
	})
}
