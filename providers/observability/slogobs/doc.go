// Package slogobs implements observability.Provider on top of the standard
// library's log/slog: spans and metrics become structured log events, so a
// host gets visibility into memory and store operations without running any
// telemetry infrastructure.
//
// [New] is the entry point. Output format and level come from the
// CHATMEMORY_LOG_FORMAT and CHATMEMORY_LOG_LEVEL environment variables by
// default and can be overridden with [WithFormat], [WithLevel], [WithOutput],
// [WithColors], or replaced wholesale with [WithLogger].
package slogobs
