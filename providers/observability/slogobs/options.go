package slogobs

import (
	"io"
	"log/slog"
	"os"
)

// Option configures an Observer at construction time.
type Option func(*config)

// config collects the Observer settings before the handler is built.
type config struct {
	format Format
	level  slog.Level
	output io.Writer
	colors bool

	// logger, when set, is used directly and the handler settings above are
	// ignored.
	logger *slog.Logger
}

// WithFormat sets the log output format (compact, pretty, or json).
func WithFormat(format Format) Option {
	return func(c *config) {
		c.format = format
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithOutput sets the writer log lines go to. Default is stdout.
func WithOutput(output io.Writer) Option {
	return func(c *config) {
		c.output = output
	}
}

// WithColors forces ANSI colors on or off for the compact and pretty formats.
// Without this option, colors follow terminal detection on the output.
func WithColors(enabled bool) Option {
	return func(c *config) {
		c.colors = enabled
	}
}

// WithLogger routes everything through an existing slog.Logger instead of the
// package's own handler. It takes precedence over the other options.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// applyOptions resolves the configuration: environment-derived defaults
// (CHATMEMORY_LOG_FORMAT, CHATMEMORY_LOG_LEVEL) overridden by explicit
// options.
func applyOptions(opts ...Option) *config {
	cfg := &config{
		format: GetFormatFromEnv(),
		level:  GetLogLevelFromEnv(),
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
