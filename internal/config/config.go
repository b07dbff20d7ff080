// ABOUTME: Configuration loading and parsing for coven-console
// ABOUTME: Supports YAML files with environment variable expansion and defaults

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the complete coven-console configuration.
type Config struct {
	Retention RetentionConfig `yaml:"retention"`
	Session   SessionConfig   `yaml:"session"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// RetentionConfig holds the history caps for chat and captured logs.
type RetentionConfig struct {
	Chat int `yaml:"chat"`
	Log  int `yaml:"log"`
}

// IdentityConfig describes one preset identity (user, bot, or channel).
type IdentityConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Avatar      string `yaml:"avatar"`
}

// SessionConfig holds the initial session identities and mode.
type SessionConfig struct {
	User    IdentityConfig `yaml:"user"`
	Bot     IdentityConfig `yaml:"bot"`
	Channel IdentityConfig `yaml:"channel"`
	BotMode bool           `yaml:"bot_mode"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present: the
// "console" owner, the "robot" bot, and a "general" channel.
func Default() *Config {
	return &Config{
		Retention: RetentionConfig{Chat: 500, Log: 500},
		Session: SessionConfig{
			User:    IdentityConfig{ID: "console", Name: "User", Avatar: "👤"},
			Bot:     IdentityConfig{ID: "robot", Name: "Bot", Avatar: "🤖"},
			Channel: IdentityConfig{ID: "general", Name: "General", Description: "default chat channel", Avatar: "💬"},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded.
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and
// valid. Returns an error describing the first failure encountered.
func (c *Config) Validate() error {
	if c.Session.User.ID == "" {
		return fmt.Errorf("session.user.id is required")
	}
	if c.Session.Bot.ID == "" {
		return fmt.Errorf("session.bot.id is required")
	}
	if c.Session.Channel.ID == "" {
		return fmt.Errorf("session.channel.id is required")
	}
	if c.Retention.Chat < 0 {
		return fmt.Errorf("retention.chat must not be negative")
	}
	if c.Retention.Log < 0 {
		return fmt.Errorf("retention.log must not be negative")
	}
	return nil
}
