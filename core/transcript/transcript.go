package transcript

import (
	"strings"

	"github.com/leofalp/chatmemory/chat"
)

// Speaker labels used by [Flatten]. They match the labels LangChain-style
// hosts expect when a prompt receives the history as a single string.
const (
	LabelHuman  = "Human"
	LabelAI     = "AI"
	LabelSystem = "System"
	LabelTool   = "Tool"
)

// Label returns the speaker label for a role. Unrecognized roles fall back to
// their raw value so no message is dropped from a rendered transcript.
func Label(role chat.MessageRole) string {
	switch role {
	case chat.RoleUser:
		return LabelHuman
	case chat.RoleAssistant:
		return LabelAI
	case chat.RoleSystem:
		return LabelSystem
	case chat.RoleTool:
		return LabelTool
	default:
		return string(role)
	}
}

// Flatten renders messages as a plain-text transcript, one "Label: content"
// line per message, preserving order. Structured fields (tool calls, extras)
// are not rendered; flattening is inherently lossy and callers that need
// them back should keep the structured form instead.
func Flatten(messages []chat.Message) string {
	if len(messages) == 0 {
		return ""
	}

	lines := make([]string, 0, len(messages))
	for _, message := range messages {
		lines = append(lines, Label(message.Role)+": "+message.Content)
	}
	return strings.Join(lines, "\n")
}

// Stats aggregates counts over a message sequence. A turn is one human input
// plus whatever output messages follow it, so Turns counts user messages.
type Stats struct {
	TotalMessages int                      `json:"total_messages"`
	Turns         int                      `json:"turns"`
	ToolCalls     int                      `json:"tool_calls,omitempty"`
	ContentChars  int                      `json:"content_chars"`
	ByRole        map[chat.MessageRole]int `json:"by_role,omitempty"`
}

// Collect walks messages once and returns their aggregate statistics.
func Collect(messages []chat.Message) Stats {
	var stats Stats
	for _, message := range messages {
		stats.TotalMessages++
		stats.ContentChars += len(message.Content)
		stats.ToolCalls += len(message.ToolCalls)

		if message.Role == chat.RoleUser {
			stats.Turns++
		}

		if stats.ByRole == nil {
			stats.ByRole = make(map[chat.MessageRole]int)
		}
		stats.ByRole[message.Role]++
	}
	return stats
}
