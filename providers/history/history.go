package history

import (
	"context"

	"github.com/leofalp/chatmemory/chat"
)

// Store is a session-scoped message log. An instance is bound to exactly one
// session at construction time; all methods operate on that session only.
//
// Stores are handles, not owners: closing the underlying connection pool or
// client is the caller's responsibility.
type Store interface {
	// Messages returns every message in the session in insertion order.
	// It returns an empty slice, not nil, when the session has no messages.
	Messages(ctx context.Context) ([]chat.Message, error)

	// LastMessages returns the most recent n messages in insertion order.
	// When the session holds fewer than n messages it returns all of them.
	// n <= 0 yields an empty slice.
	LastMessages(ctx context.Context, n int) ([]chat.Message, error)

	// AddMessage appends a single message to the session log.
	AddMessage(ctx context.Context, message chat.Message) error

	// AddMessages appends messages in slice order. Implementations are not
	// required to be atomic: a failure may leave a prefix persisted.
	AddMessages(ctx context.Context, messages []chat.Message) error

	// Clear deletes every message in the session. Other sessions sharing
	// the same backing table or keyspace are untouched.
	Clear(ctx context.Context) error
}
