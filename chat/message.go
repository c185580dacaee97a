package chat

import (
	"encoding/json"
	"strings"
)

// MessageRole represents the role of a message; compatible with string.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user (human) input
	RoleAssistant MessageRole = "assistant" // Model output
	RoleTool      MessageRole = "tool"      // Tool/function result
)

// ParseRole maps a role string to its canonical MessageRole. Besides the
// canonical spellings it accepts the aliases used by LangChain-style hosts in
// persisted transcripts: "human" for user, "ai" and "bot" for assistant, and
// "function" for tool. Matching is case-insensitive and ignores surrounding
// whitespace. ok is false for anything unrecognized.
func ParseRole(s string) (MessageRole, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "system":
		return RoleSystem, true
	case "user", "human":
		return RoleUser, true
	case "assistant", "ai", "bot":
		return RoleAssistant, true
	case "tool", "function":
		return RoleTool, true
	default:
		return "", false
	}
}

// NormalizeRole is ParseRole for store reads: unrecognized roles pass through
// unchanged rather than being rejected, so a store never drops a row it did
// not write itself.
func NormalizeRole(s string) MessageRole {
	if role, ok := ParseRole(s); ok {
		return role
	}
	return MessageRole(s)
}

// Message represents a single entry in a conversation log.
type Message struct {
	// Core fields (always present)
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	// Tool calling fields
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // For role=assistant requesting tools
	ToolCallID string     `json:"tool_call_id,omitempty"` // For role=tool, links to the tool call being responded to
	Name       string     `json:"name,omitempty"`         // For role=tool, name of the tool that generated this response

	// Extra holds host-supplied structured metadata that is not part of the
	// core model (additional kwargs in LangChain terms). It is persisted
	// verbatim so downstream agent steps can read it back.
	Extra map[string]any `json:"extra,omitempty"`
}

// ToolCall represents a function/tool call request attached to an assistant
// message.
type ToolCall struct {
	ID       string           `json:"id,omitempty"` // Unique identifier for this tool call
	Type     string           `json:"type"`         // "function"
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction names the function being called and carries its arguments
// as the raw JSON string produced by the model. The string is stored and
// returned verbatim; re-encoding it would break agent steps that compare or
// replay the original arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string, kept byte-for-byte
}

// UnmarshalJSON accepts both the nested provider format
// ({"id","type","function":{"name","arguments"}}) and the flat form
// ({"id","name","arguments"}) some hosts emit, decoding either into the
// canonical nested shape.
func (tc *ToolCall) UnmarshalJSON(data []byte) error {
	type plain ToolCall
	if err := json.Unmarshal(data, (*plain)(tc)); err != nil {
		return err
	}
	if tc.Function.Name != "" {
		if tc.Type == "" {
			tc.Type = "function"
		}
		return nil
	}

	var flat struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	}
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	if flat.Name == "" {
		// Neither form: keep whatever the plain decode produced.
		return nil
	}
	tc.ID = flat.ID
	tc.Type = "function"
	tc.Function = ToolCallFunction{Name: flat.Name, Arguments: flat.Arguments}
	return nil
}

// Decode attempts to interpret an arbitrary host-supplied value as a Message.
// It recognizes:
//   - Message and *Message values (returned as-is),
//   - maps with a "role" field (the canonical wire shape),
//   - maps with a "type"/"data" envelope (the serialized LangChain shape,
//     where data carries content and additional_kwargs.tool_calls).
//
// ok is false when the value does not carry a recognized role, in which case
// callers should fall back to their lossy text path.
func Decode(v any) (Message, bool) {
	switch m := v.(type) {
	case Message:
		return m, true
	case *Message:
		if m == nil {
			return Message{}, false
		}
		return *m, true
	case map[string]any:
		return decodeMap(m)
	default:
		return Message{}, false
	}
}

// decodeMap handles the two map shapes accepted by Decode.
func decodeMap(m map[string]any) (Message, bool) {
	if rawRole, present := m["role"]; present {
		roleStr, isString := rawRole.(string)
		if !isString {
			return Message{}, false
		}
		role, ok := ParseRole(roleStr)
		if !ok {
			return Message{}, false
		}

		encoded, err := json.Marshal(m)
		if err != nil {
			return Message{}, false
		}
		var msg Message
		if err := json.Unmarshal(encoded, &msg); err != nil {
			return Message{}, false
		}
		msg.Role = role
		return msg, true
	}

	return decodeEnvelope(m)
}

// decodeEnvelope handles the serialized LangChain message shape:
// {"type":"ai","data":{"content":...,"additional_kwargs":{"tool_calls":[...]}}}.
func decodeEnvelope(m map[string]any) (Message, bool) {
	typeStr, isString := m["type"].(string)
	if !isString {
		return Message{}, false
	}
	role, ok := ParseRole(typeStr)
	if !ok {
		return Message{}, false
	}

	msg := Message{Role: role}

	data, hasData := m["data"].(map[string]any)
	if !hasData {
		return msg, true
	}

	if content, isStr := data["content"].(string); isStr {
		msg.Content = content
	}
	if id, isStr := data["tool_call_id"].(string); isStr {
		msg.ToolCallID = id
	}
	if name, isStr := data["name"].(string); isStr {
		msg.Name = name
	}

	kwargs, hasKwargs := data["additional_kwargs"].(map[string]any)
	if !hasKwargs {
		return msg, true
	}
	if rawCalls, hasCalls := kwargs["tool_calls"]; hasCalls {
		encoded, err := json.Marshal(rawCalls)
		if err == nil {
			var calls []ToolCall
			if err := json.Unmarshal(encoded, &calls); err == nil && len(calls) > 0 {
				msg.ToolCalls = calls
			}
		}
	}
	return msg, true
}
