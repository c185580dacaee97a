// Package history defines the Store interface for per-session message logs.
// Implementations are responsible for persisting, retrieving, and deleting
// [chat.Message] values scoped to a single session. The interface is
// intentionally minimal: it covers the operations memory variants need for
// turn-based conversations.
// Every method returns an error so that database-backed implementations can
// surface failures to the caller instead of silently swallowing them.
// Bundled implementations live in the sibling packages
// [github.com/leofalp/chatmemory/providers/history/inmemory],
// [github.com/leofalp/chatmemory/providers/history/pghistory], and
// [github.com/leofalp/chatmemory/providers/history/redishistory].
package history
