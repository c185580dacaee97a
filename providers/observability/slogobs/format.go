package slogobs

import (
	"os"
	"strings"
)

// Format selects how the handler renders log records.
type Format string

const (
	// FormatCompact renders one line per record with attributes as JSON,
	// for example: 2025-11-03 10:40:35 DEBUG Message → {"key":"value"}
	// It is the default.
	FormatCompact Format = "compact"

	// FormatPretty renders a header line followed by one tree-indented line
	// per attribute. Meant for interactive debugging.
	FormatPretty Format = "pretty"

	// FormatJSON renders standard slog JSON records for log aggregation.
	FormatJSON Format = "json"
)

// ParseFormat maps a string to a Format, ignoring case and surrounding
// whitespace. Unknown values fall back to FormatCompact.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv reads the log format from CHATMEMORY_LOG_FORMAT, falling
// back to LOG_FORMAT and then to FormatCompact.
func GetFormatFromEnv() Format {
	for _, key := range []string{"CHATMEMORY_LOG_FORMAT", "LOG_FORMAT"} {
		if value := os.Getenv(key); value != "" {
			return ParseFormat(value)
		}
	}
	return FormatCompact
}

func (f Format) String() string {
	return string(f)
}
