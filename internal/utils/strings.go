package utils

import (
	"encoding/json"
	"fmt"
)

// DefaultMaxStringLength bounds strings included in log output.
const DefaultMaxStringLength = 500

// ToString returns the compact JSON representation of value. Marshalling
// failures produce a JSON-formatted error string instead of panicking, so the
// result is always safe to store or log. This is the serialization used for
// opaque outputs persisted as assistant text.
func ToString(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "{\"error\": \"failed to marshal to JSON: " + err.Error() + "\"}"
	}
	return string(encoded)
}

// TruncateString shortens s to at most maxLen characters, appending a suffix
// that records the original length so readers know data was omitted. A zero
// or negative maxLen falls back to [DefaultMaxStringLength].
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}
