// Package config holds runtime configuration. Values come from built-in
// defaults, then an optional YAML file, then PARLEY_* environment
// variables, each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/parley/internal/dialogue"
	"github.com/abhisek/parley/internal/levels"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the full application configuration.
type Config struct {
	// Environment selects the log format: text in development, JSON in
	// production.
	Environment string

	LogLevel slog.Level

	// LogFile receives logs. The TUI owns the terminal, so an empty value
	// discards them.
	LogFile string

	// ContentPath is a catalog file to load instead of the built-in one.
	ContentPath string

	// SpeechCommand is the text-to-speech program. Empty probes the
	// known programs; "none" disables speech.
	SpeechCommand string

	Dialogue dialogue.Timings
	Levels   levels.Timings
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Environment: EnvDevelopment,
		LogLevel:    slog.LevelInfo,
		Dialogue:    dialogue.DefaultTimings(),
		Levels:      levels.DefaultTimings(),
	}
}

// fileConfig is the YAML shape. Durations are Go duration strings.
type fileConfig struct {
	Environment   string `yaml:"environment"`
	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	Content       string `yaml:"content"`
	SpeechCommand string `yaml:"speech_command"`
	Timings       struct {
		Thinking      string `yaml:"thinking"`
		Reply         string `yaml:"reply"`
		Feedback      string `yaml:"feedback"`
		RetryReveal   string `yaml:"retry_reveal"`
		LevelFeedback string `yaml:"level_feedback"`
		YesNo         string `yaml:"yes_no"`
		MatchComplete string `yaml:"match_complete"`
		Mismatch      string `yaml:"mismatch"`
		WordSuccess   string `yaml:"word_success"`
		WordReset     string `yaml:"word_reset"`
	} `yaml:"timings"`
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.applyYAML(data); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyYAML(data []byte) error {
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}

	setString(&c.Environment, f.Environment)
	if f.LogLevel != "" {
		c.LogLevel = ParseLogLevel(f.LogLevel)
	}
	setString(&c.LogFile, f.LogFile)
	setString(&c.ContentPath, f.Content)
	setString(&c.SpeechCommand, f.SpeechCommand)

	var d durationParser
	t := f.Timings
	d.set(&c.Dialogue.Thinking, "timings.thinking", t.Thinking)
	d.set(&c.Dialogue.Reply, "timings.reply", t.Reply)
	d.set(&c.Dialogue.Feedback, "timings.feedback", t.Feedback)
	d.set(&c.Dialogue.RetryReveal, "timings.retry_reveal", t.RetryReveal)
	d.set(&c.Levels.Choice, "timings.level_feedback", t.LevelFeedback)
	d.set(&c.Levels.YesNo, "timings.yes_no", t.YesNo)
	d.set(&c.Levels.MatchComplete, "timings.match_complete", t.MatchComplete)
	d.set(&c.Levels.Mismatch, "timings.mismatch", t.Mismatch)
	d.set(&c.Levels.WordSuccess, "timings.word_success", t.WordSuccess)
	d.set(&c.Levels.WordReset, "timings.word_reset", t.WordReset)
	return d.err()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString(&c.Environment, getenv("PARLEY_ENV"))
	if lvl := getenv("PARLEY_LOG_LEVEL"); lvl != "" {
		c.LogLevel = ParseLogLevel(lvl)
	}
	setString(&c.LogFile, getenv("PARLEY_LOG_FILE"))
	setString(&c.ContentPath, getenv("PARLEY_CONTENT"))
	setString(&c.SpeechCommand, getenv("PARLEY_SPEECH_COMMAND"))

	var d durationParser
	env := func(dst *time.Duration, key string) { d.set(dst, key, getenv(key)) }
	env(&c.Dialogue.Thinking, "PARLEY_THINKING_DELAY")
	env(&c.Dialogue.Reply, "PARLEY_REPLY_DELAY")
	env(&c.Dialogue.Feedback, "PARLEY_FEEDBACK_DELAY")
	env(&c.Dialogue.RetryReveal, "PARLEY_RETRY_REVEAL_DELAY")
	env(&c.Levels.Choice, "PARLEY_LEVEL_FEEDBACK_DELAY")
	return d.err()
}

// Validate reports configuration values that cannot work.
func (c Config) Validate() error {
	var errs []error
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("unknown environment %q (want %s or %s)", c.Environment, EnvDevelopment, EnvProduction))
	}

	durations := map[string]time.Duration{
		"thinking delay":       c.Dialogue.Thinking,
		"reply delay":          c.Dialogue.Reply,
		"feedback delay":       c.Dialogue.Feedback,
		"retry reveal delay":   c.Dialogue.RetryReveal,
		"level feedback delay": c.Levels.Choice,
		"yes/no delay":         c.Levels.YesNo,
		"match complete delay": c.Levels.MatchComplete,
		"mismatch delay":       c.Levels.Mismatch,
		"word success delay":   c.Levels.WordSuccess,
		"word reset delay":     c.Levels.WordReset,
	}
	for name, d := range durations {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", name, d))
		}
	}
	return errors.Join(errs...)
}

// durationParser overrides duration fields from raw strings, collecting
// every malformed value.
type durationParser struct {
	errs []error
}

// set leaves dst alone when raw is empty or malformed.
func (d *durationParser) set(dst *time.Duration, name, raw string) {
	if raw == "" {
		return
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		d.errs = append(d.errs, fmt.Errorf("%s: %w", name, err))
		return
	}
	*dst = v
}

func (d *durationParser) err() error {
	return errors.Join(d.errs...)
}
