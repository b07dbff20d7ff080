// ABOUTME: Colorized transcript rendering for chat and registry changes
// ABOUTME: Includes the /channels activity table and /logs buffer dump

package main

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/2389/coven-console/internal/engine"
	"github.com/2389/coven-console/internal/logbuf"
	"github.com/2389/coven-console/internal/model"
)

// printer renders chat changes as transcript lines. A single mutex keeps
// concurrent callback output from interleaving mid-line.
type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func (p *printer) onChange(c engine.ChatChange) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch c.Kind {
	case engine.ChatWritten:
		for _, ev := range c.Events {
			p.writeEvent(ev)
		}
	case engine.ChatEdited:
		fmt.Fprintln(p.out, color.YellowString("✎ %s edited: %s", shortID(c.MessageID), c.Content.String()))
	case engine.ChatRecalled:
		fmt.Fprintln(p.out, color.YellowString("✗ %s recalled", shortID(c.MessageID)))
	case engine.ChatCleared:
		fmt.Fprintln(p.out, color.HiBlackString("history cleared in %s", c.Channel.Name))
	}
}

func (p *printer) printEvent(ev model.MessageEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writeEvent(ev)
}

// writeEvent assumes p.mu is held. Bot-authored messages (SelfID set)
// render in cyan, inbound user messages in green.
func (p *printer) writeEvent(ev model.MessageEvent) {
	nick := ev.User.Nickname
	if nick == "" {
		nick = ev.User.ID
	}
	name := color.GreenString(nick)
	if ev.SelfID != "" {
		name = color.CyanString(nick)
	}
	fmt.Fprintf(p.out, "%s %s %s %s\n",
		color.HiBlackString(ev.Time.Format("15:04:05")),
		ev.User.Avatar, name, ev.Message.String())
}

func (p *printer) alert(ch model.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, color.YellowString("🔔 new message in %s %s", ch.Avatar, ch.Name))
}

func (p *printer) onUser(u model.User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, color.HiBlackString("%s %s joined", u.Avatar, u.Nickname))
}

func (p *printer) onChannel(ch model.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, color.HiBlackString("channel %s %s registered", ch.Avatar, ch.Name))
}

func (p *printer) onMode(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if enabled {
		fmt.Fprintln(p.out, color.MagentaString("bot mode on"))
	} else {
		fmt.Fprintln(p.out, color.MagentaString("bot mode off"))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// printChannels renders the activity-ordered channel list, newest first.
func printChannels(out io.Writer, eng *engine.Engine) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Channel", "ID", "Messages", "Direct"})
	table.SetBorder(false)

	for _, ch := range eng.ListChannels(eng.Session().BotMode()) {
		direct := ""
		if ch.IsDirect() {
			direct = "yes"
		}
		table.Append([]string{
			ch.Avatar + " " + ch.Name,
			ch.ID,
			strconv.Itoa(len(eng.History(&ch))),
			direct,
		})
	}
	table.Render()
}

// printLogs dumps the captured log ring, oldest first.
func printLogs(out io.Writer, logs *logbuf.Buffer) {
	lines := logs.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(out, color.HiBlackString("no log records captured"))
		return
	}
	for _, line := range lines {
		fmt.Fprintln(out, color.HiBlackString(line))
	}
}
