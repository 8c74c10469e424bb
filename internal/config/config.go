// Package config holds the runtime settings shared by the commands.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/jaminalder/cube-tic-tac-toe/internal/ai"
)

var (
	ErrInvalidDepth     = errors.New("config: depth out of range")
	ErrInvalidDelay     = errors.New("config: ai delay must not be negative")
	ErrInvalidTimeout   = errors.New("config: ai timeout must be positive")
	ErrInvalidLogLevel  = errors.New("config: unknown log level")
	ErrInvalidLogFormat = errors.New("config: unknown log format")
)

// Config represents the command-line parameters for the application.
type Config struct {
	Addr      string
	Depth     int
	AIDelay   time.Duration
	AITimeout time.Duration
	LogLevel  string
	LogFormat string
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Addr:      ":8080",
		Depth:     ai.DefaultDepth,
		AIDelay:   0,
		AITimeout: ai.DefaultBudget,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address for serve")
	fs.IntVarP(&c.Depth, "depth", "d", c.Depth, fmt.Sprintf("AI search depth (1-%d)", ai.MaxDepth))
	fs.DurationVar(&c.AIDelay, "ai-delay", c.AIDelay, "pause before the computer moves")
	fs.DurationVar(&c.AITimeout, "ai-timeout", c.AITimeout, "longest the computer may search for one move")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug|info|warn|error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "text|json")
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Depth < 1 || c.Depth > ai.MaxDepth {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, c.Depth)
	}
	if c.AIDelay < 0 {
		return ErrInvalidDelay
	}
	if c.AITimeout <= 0 {
		return ErrInvalidTimeout
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
}

// Logger builds the process logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, _ := c.Level()
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Engine returns an AI engine searching to the configured depth within the
// configured timeout.
func (c *Config) Engine() *ai.Engine {
	e := ai.New(c.Depth)
	e.Budget = c.AITimeout
	return e
}
