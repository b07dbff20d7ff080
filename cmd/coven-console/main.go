// ABOUTME: Entry point for the coven-console demo driver
// ABOUTME: Runs the chat engine interactively or replays scenario files

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/2389/coven-console/internal/config"
	"github.com/2389/coven-console/internal/engine"
	"github.com/2389/coven-console/internal/logbuf"
	"github.com/2389/coven-console/internal/model"
	"github.com/2389/coven-console/internal/scenario"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                                                                  _
  ___ _____   _____ _ __         ___ ___  _ __  ___  ___  | | ___
 / __/ _ \ \ / / _ \ '_ \ _____ / __/ _ \| '_ \/ __|/ _ \ | |/ _ \
| (_| (_) \ V /  __/ | | |_____| (_| (_) | | | \__ \ (_) || |  __/
 \___\___/ \_/ \___|_| |_|      \___\___/|_| |_|___/\___/ |_|\___|
`

// getConfigPath returns the path to the console config file.
// Priority: COVEN_CONSOLE_CONFIG env var > XDG_CONFIG_HOME/coven/console.yaml > ~/.config/coven/console.yaml
func getConfigPath() string {
	if envPath := os.Getenv("COVEN_CONSOLE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "console.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "coven", "console.yaml")
}

// loadConfig reads the config file if present, otherwise falls back to
// built-in defaults so the demo runs without any setup.
func loadConfig() (*config.Config, error) {
	path := getConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}

func main() {
	// Best effort; a missing .env is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println("Usage: coven-console <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  run                   Start an interactive console session")
		fmt.Println("  replay FILE           Replay a scenario file through the engine")
		fmt.Println("  version               Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "run":
		err = runConsole(ctx)
	case "replay":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: coven-console replay FILE")
			os.Exit(1)
		}
		err = runReplay(ctx, os.Args[2])
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runConsole(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logs := logbuf.New(cfg.Retention.Log, nil)
	logger := setupLogger(cfg, logs)

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	cyan.Print(banner)
	gray.Printf("  version %s\n\n", version)

	eng := engine.New(cfg, logger)
	registerDemoBot(eng, logger.With("component", "demo-bot"))

	p := newPrinter(os.Stdout)
	eng.WatchChat(p.onChange)
	eng.WatchUsers(p.onUser)
	eng.WatchChannels(p.onChannel)
	eng.WatchMode(p.onMode)

	sess := eng.Session()
	gray.Printf("  you are %s %s, talking in %s %s\n",
		sess.User().Avatar, sess.User().Nickname,
		sess.Channel().Avatar, sess.Channel().Name)
	gray.Println("  type /help for commands, /quit to exit")
	fmt.Println()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if done := handleLine(ctx, eng, logs, p, line); done {
				return nil
			}
		}
	}
}

// handleLine dispatches one REPL line. Returns true when the session
// should end.
func handleLine(ctx context.Context, eng *engine.Engine, logs *logbuf.Buffer, p *printer, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	switch {
	case line == "/quit":
		return true
	case line == "/channels":
		printChannels(os.Stdout, eng)
		return false
	case line == "/logs":
		printLogs(os.Stdout, logs)
		return false
	case line == "/mode":
		sess := eng.Session()
		sess.SetBotMode(!sess.BotMode())
		return false
	case line == "/history":
		for _, ev := range eng.History(nil) {
			p.printEvent(ev)
		}
		return false
	case line == "/clear":
		eng.ClearHistory(nil)
		return false
	case strings.HasPrefix(line, "/switch "):
		id := strings.TrimSpace(strings.TrimPrefix(line, "/switch "))
		switchChannel(eng, id)
		return false
	case strings.HasPrefix(line, "/dm "):
		rest := strings.TrimSpace(strings.TrimPrefix(line, "/dm "))
		userID, text, ok := strings.Cut(rest, " ")
		if !ok {
			fmt.Println("usage: /dm USER_ID TEXT")
			return false
		}
		dm := eng.CreateDM(model.NewUser(userID))
		res := eng.Send(engine.SendRequest{
			Content: model.PlainText(text),
			Target:  model.ChannelTarget{Channel: dm},
		})
		if res.Alerted {
			p.alert(dm)
		}
		return false
	}

	// Plain text is injected as a message from the session owner so the
	// demo bot callbacks get a chance to answer.
	alerted, err := eng.Receive(ctx, model.MessageEvent{
		User:    eng.Session().User(),
		Channel: eng.Session().Channel(),
		Message: model.PlainText(line),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "callback error: %v\n", err)
	}
	if alerted {
		p.alert(eng.Session().Channel())
	}
	return false
}

func switchChannel(eng *engine.Engine, id string) {
	for _, ch := range eng.ListChannels(true) {
		if ch.ID == id {
			eng.Session().SetChannel(ch)
			fmt.Println(color.HiBlackString("now in " + ch.Avatar + " " + ch.Name))
			return
		}
	}
	fmt.Printf("unknown channel %q (see /channels)\n", id)
}

func runReplay(ctx context.Context, path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	scn, err := scenario.Load(path)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	logs := logbuf.New(cfg.Retention.Log, nil)
	logger := setupLogger(cfg, logs)

	eng := engine.New(cfg, logger)
	registerDemoBot(eng, logger.With("component", "demo-bot"))

	p := newPrinter(os.Stdout)
	eng.WatchChat(p.onChange)

	for _, id := range scn.Users {
		eng.AddUser(id.User())
	}
	for _, id := range scn.Bots {
		eng.AddBot(id.Bot())
	}
	for _, id := range scn.Channels {
		eng.AddChannel(id.Channel())
	}

	for _, msg := range scn.Messages {
		event := model.MessageEvent{
			User:    model.NewUser(msg.From),
			Channel: model.Channel{ID: msg.Channel},
			Message: msg.Content(),
		}
		for _, id := range scn.Users {
			if id.ID == msg.From {
				event.User = id.User()
			}
		}
		for _, id := range scn.Channels {
			if id.ID == msg.Channel {
				event.Channel = id.Channel()
			}
		}
		alerted, err := eng.Receive(ctx, event)
		if err != nil {
			logger.Warn("replay callback failed", "error", err)
		}
		if alerted {
			p.alert(event.Channel)
		}
	}

	fmt.Println()
	printChannels(os.Stdout, eng)
	fmt.Println()
	printLogs(os.Stdout, logs)
	return nil
}

// setupLogger builds the slog logger: colorized (or JSON) output on
// stderr, with every record mirrored into the in-memory log buffer for
// the /logs command.
func setupLogger(cfg *config.Config, logs *logbuf.Buffer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if cfg.Logging.Format == "json" {
		opts := &slog.HandlerOptions{Level: level}
		return slog.New(teeHandler{
			slog.NewJSONHandler(os.Stderr, opts),
			logbuf.NewHandler(logs, level),
		})
	}

	return slog.New(&consoleHandler{
		out:   os.Stderr,
		ring:  logs,
		level: level,
	})
}

// teeHandler fans a record out to every wrapped handler.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			if e := h.Handle(ctx, r.Clone()); e != nil {
				err = e
			}
		}
	}
	return err
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

// consoleHandler renders one plain log line per record, writes it
// colorized to out, and mirrors the uncolored line into the captured
// log ring so /logs shows the same history.
type consoleHandler struct {
	mu    sync.Mutex
	out   io.Writer
	ring  *logbuf.Buffer
	level slog.Level
	attrs []slog.Attr
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var attrs strings.Builder
	for _, a := range h.attrs {
		fmt.Fprintf(&attrs, " %s=%s", a.Key, a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&attrs, " %s=%s", a.Key, a.Value.String())
		return true
	})

	ts := r.Time.Format("15:04:05")
	tag, paint := levelStyle(r.Level)

	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintf(h.out, "%s %s %s%s\n",
		color.HiBlackString(ts), paint(tag), r.Message,
		color.HiBlackString(attrs.String()))
	if h.ring != nil {
		h.ring.Append(ts + " " + tag + " " + r.Message + attrs.String())
	}
	return nil
}

// levelStyle maps a level to its three-letter tag and paint function.
func levelStyle(level slog.Level) (string, func(string, ...interface{}) string) {
	switch {
	case level < slog.LevelInfo:
		return "DBG", color.MagentaString
	case level < slog.LevelWarn:
		return "INF", color.CyanString
	case level < slog.LevelError:
		return "WRN", color.YellowString
	default:
		return "ERR", color.New(color.FgRed, color.Bold).Sprintf
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &consoleHandler{
		out:   h.out,
		ring:  h.ring,
		level: h.level,
		attrs: merged,
	}
}

// Groups are flattened; attr keys keep their bare names.
func (h *consoleHandler) WithGroup(string) slog.Handler {
	return h
}
