// Package memory implements the conversation-memory objects an LLM
// orchestration loop consumes: load a session's history into prompt
// variables, save one conversational turn, clear the session. The [Memory]
// interface has three implementations selected by node version via [Select]:
// [Buffer] (full history), [Window] (only the most recent turns), and
// [ToolAware] (full history, selected by hosts whose agents emit tool
// calls). All variants persist turns through the same output classification
// ([Classify]), so structured tool-call messages survive storage in any of
// them.
//
// A memory borrows its [history.Store] at construction and never closes it.
// Store failures are returned to the caller unchanged: the adapter layer
// performs no retries and no error translation, and a failed save may leave
// a turn partially persisted (the input message without its output).
package memory
