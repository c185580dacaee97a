package slogobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Handler is a slog.Handler with three output formats: a compact single line
// for development, a multi-line pretty format for debugging memory operations
// by eye, and plain JSON for log aggregation.
type Handler struct {
	format Format
	level  slog.Level
	output io.Writer
	colors bool
	mu     sync.Mutex
	attrs  []slog.Attr
	groups []string
}

// HandlerOptions configures a Handler. Zero values select the compact format,
// INFO level, stdout, and terminal-detected colors.
type HandlerOptions struct {
	Format Format
	Level  slog.Level
	// Output is where log lines are written (defaults to os.Stdout).
	Output io.Writer
	// Colors enables ANSI colors for the compact and pretty formats. When
	// false, colors are still turned on automatically if Output is a terminal.
	Colors bool
}

// NewHandler creates a Handler with the given options.
func NewHandler(opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	format := opts.Format
	if format == "" {
		format = FormatCompact
	}

	colors := opts.Colors
	if !colors && format != FormatJSON {
		if f, ok := output.(*os.File); ok {
			colors = isTerminal(f)
		}
	}

	return &Handler{
		format: format,
		level:  opts.Level,
		output: output,
		colors: colors,
		attrs:  []slog.Attr{},
		groups: []string{},
	}
}

// Enabled reports whether records at the given level are written.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes one record in the configured format.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.format {
	case FormatPretty:
		return h.handlePretty(r)
	case FormatJSON:
		return h.handleJSON(r)
	default:
		return h.handleCompact(r)
	}
}

// WithAttrs returns a Handler that prepends attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append([]slog.Attr{}, h.attrs...)
	merged = append(merged, attrs...)

	clone := h.clone()
	clone.attrs = merged
	return clone
}

// WithGroup returns a Handler that prefixes attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := append([]string{}, h.groups...)
	groups = append(groups, name)

	clone := h.clone()
	clone.groups = groups
	return clone
}

// clone copies the handler's configuration without its mutex.
func (h *Handler) clone() *Handler {
	return &Handler{
		format: h.format,
		level:  h.level,
		output: h.output,
		colors: h.colors,
		attrs:  h.attrs,
		groups: h.groups,
	}
}

// handleCompact writes one line per record:
//
//	2025-11-03 10:40:35  INFO memory save completed → {"memory.variant":"window"}
//
// Attributes are JSON-encoded after the arrow; records without attributes get
// no arrow at all.
func (h *Handler) handleCompact(r slog.Record) error {
	buf := make([]byte, 0, 256)

	buf = append(buf, r.Time.Format("2006-01-02 15:04:05")...)
	buf = append(buf, ' ')

	// Right-aligned 5-char level keeps messages in one column.
	level := levelString(r.Level)
	if h.colors {
		buf = append(buf, colorForLevel(r.Level)...)
		buf = append(buf, fmt.Sprintf("%5s", level)...)
		buf = append(buf, colorReset...)
	} else {
		buf = append(buf, fmt.Sprintf("%5s", level)...)
	}
	buf = append(buf, ' ')

	buf = append(buf, r.Message...)

	attrs := h.collectAttrs(r)
	if len(attrs) > 0 {
		buf = append(buf, " → "...)
		encoded, err := json.Marshal(attrs)
		if err != nil {
			buf = append(buf, " [json-error]"...)
		} else {
			buf = append(buf, encoded...)
		}
	}

	buf = append(buf, '\n')
	_, err := h.output.Write(buf)
	return err
}

// handlePretty writes the message on its own line and each attribute on an
// indented tree branch below it:
//
//	2025-11-03 10:40:35 🟢 INFO   memory load completed
//	                   ├─ memory.variant: window
//	                   └─ memory.loaded_messages: 4
func (h *Handler) handlePretty(r slog.Record) error {
	buf := make([]byte, 0, 256)

	buf = append(buf, r.Time.Format("2006-01-02 15:04:05")...)
	buf = append(buf, ' ')
	buf = append(buf, emojiForLevel(r.Level)...)
	buf = append(buf, ' ')

	level := levelString(r.Level)
	if h.colors {
		buf = append(buf, colorForLevel(r.Level)...)
		buf = append(buf, level...)
		buf = append(buf, colorReset...)
	} else {
		buf = append(buf, level...)
	}

	// Pad to a 7-char level column so messages align.
	for i := len(level); i < 7; i++ {
		buf = append(buf, ' ')
	}

	buf = append(buf, r.Message...)
	buf = append(buf, '\n')

	attrs := h.collectAttrs(r)
	if len(attrs) > 0 {
		written := 0
		for key, value := range attrs {
			written++
			if written == len(attrs) {
				buf = append(buf, "                   └─ "...)
			} else {
				buf = append(buf, "                   ├─ "...)
			}
			buf = append(buf, key...)
			buf = append(buf, ": "...)
			buf = append(buf, fmt.Sprintf("%v", value)...)
			buf = append(buf, '\n')
		}
	}

	_, err := h.output.Write(buf)
	return err
}

// handleJSON writes the record as one JSON object per line with time, level,
// and msg fields; attributes are merged at the top level.
func (h *Handler) handleJSON(r slog.Record) error {
	data := make(map[string]any)

	data["time"] = r.Time.Format("2006-01-02T15:04:05")
	data["level"] = levelString(r.Level)
	data["msg"] = r.Message

	for key, value := range h.collectAttrs(r) {
		data[key] = value
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}

	encoded = append(encoded, '\n')
	_, err = h.output.Write(encoded)
	return err
}

// collectAttrs merges the handler's stored attributes with the record's,
// applying group prefixes to the keys.
func (h *Handler) collectAttrs(r slog.Record) map[string]any {
	attrs := make(map[string]any)

	for _, attr := range h.attrs {
		h.addAttr(attrs, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		h.addAttr(attrs, attr)
		return true
	})

	return attrs
}

// addAttr stores one attribute under its (possibly group-prefixed) key.
func (h *Handler) addAttr(attrs map[string]any, attr slog.Attr) {
	key := attr.Key
	for _, group := range h.groups {
		key = group + "." + key
	}
	attrs[key] = attr.Value.Any()
}

// levelString names the level band, including the sub-DEBUG TRACE band used
// by [Observer.Trace].
func levelString(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "TRACE"
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// colorForLevel maps a level band to its ANSI color.
func colorForLevel(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return colorGray // TRACE
	case level < slog.LevelInfo:
		return colorBlue // DEBUG
	case level < slog.LevelWarn:
		return colorGreen // INFO
	case level < slog.LevelError:
		return colorYellow // WARN
	default:
		return colorRed // ERROR
	}
}

// emojiForLevel maps a level band to the icon shown by the pretty format.
func emojiForLevel(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "🔍" // TRACE
	case level < slog.LevelInfo:
		return "🔵" // DEBUG
	case level < slog.LevelWarn:
		return "🟢" // INFO
	case level < slog.LevelError:
		return "🟡" // WARN
	default:
		return "🔴" // ERROR
	}
}

// isTerminal reports whether f is connected to a terminal device.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
