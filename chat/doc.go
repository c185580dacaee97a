// Package chat defines the message model shared by every history store and
// memory adapter in this module: role-tagged [Message] values whose structured
// tool-call payloads survive persistence and reload unchanged.
//
// The model is deliberately small. A [Message] carries a [MessageRole], plain
// text content, optional [ToolCall] metadata (for assistant messages that
// request tool invocations), and the correlation fields a tool-result message
// needs (ToolCallID, Name). [ToolCall.Function] keeps its arguments as the raw
// JSON string received from the model, which is what makes byte-for-byte
// round-tripping possible: the string is never re-encoded on the way to or
// from storage.
//
// [ParseRole] normalizes the role spellings found in transcripts written by
// LangChain-style hosts ("human", "ai") to the canonical role set, and
// [Decode] interprets untyped host-supplied values (maps decoded from item
// JSON) as messages.
package chat
