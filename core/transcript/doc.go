// Package transcript renders and summarizes conversation logs.
// [Flatten] produces the single-string "Human:/AI:" rendering used when a
// memory publishes history as plain text rather than structured messages,
// and [Collect] aggregates counts (messages, turns, tool calls) for logging
// and diagnostics.
package transcript
