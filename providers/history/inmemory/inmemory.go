package inmemory

import (
	"context"
	"sync"

	"github.com/leofalp/chatmemory/chat"
	"github.com/leofalp/chatmemory/providers/history"
	"github.com/leofalp/chatmemory/providers/observability"
)

// ArrayStore is a simple, concurrency-safe in-memory session log.
// It uses RWMutex to guard access and is efficient for read-heavy workloads.
type ArrayStore struct {
	mu       sync.RWMutex
	messages []chat.Message
}

// New returns a new, empty [ArrayStore] ready for immediate use.
// The internal message slice is pre-allocated to avoid extra allocations on the first appends.
func New() *ArrayStore {
	return &ArrayStore{
		messages: []chat.Message{},
	}
}

// Ensure ArrayStore implements history.Store at compile time.
var _ history.Store = (*ArrayStore)(nil)

// AddMessage stores a copy of message at the end of the session log.
// When an observability span is present in ctx, an event is recorded with the
// message role and content length, and the running total message count is set
// as a span attribute so callers can track log growth through tracing.
// The returned error is always nil.
func (s *ArrayStore) AddMessage(ctx context.Context, message chat.Message) error {
	span := observability.SpanFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventHistoryAppend,
			observability.String(observability.AttrHistoryMessageRole, string(message.Role)),
			observability.Int(observability.AttrHistoryMessageLength, len(message.Content)),
		)
	}

	s.mu.Lock()
	s.messages = append(s.messages, message)
	totalMessages := len(s.messages)
	s.mu.Unlock()

	if span != nil {
		span.SetAttributes(
			observability.Int(observability.AttrHistoryTotalMessages, totalMessages),
		)
	}

	return nil
}

// AddMessages appends messages in slice order. The whole batch is appended
// under a single lock acquisition, so concurrent readers never observe a
// partially applied batch.
// The returned error is always nil.
func (s *ArrayStore) AddMessages(ctx context.Context, messages []chat.Message) error {
	if len(messages) == 0 {
		return nil
	}

	span := observability.SpanFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventHistoryAppend,
			observability.Int(observability.AttrHistoryBatchSize, len(messages)),
		)
	}

	s.mu.Lock()
	s.messages = append(s.messages, messages...)
	totalMessages := len(s.messages)
	s.mu.Unlock()

	if span != nil {
		span.SetAttributes(
			observability.Int(observability.AttrHistoryTotalMessages, totalMessages),
		)
	}

	return nil
}

// Messages returns a copy of all messages to avoid external mutation of internal state.
// The context parameter is accepted for interface compliance but is not used
// by the in-memory implementation. The returned error is always nil.
func (s *ArrayStore) Messages(_ context.Context) ([]chat.Message, error) {
	s.mu.RLock()
	if len(s.messages) == 0 {
		s.mu.RUnlock()
		return []chat.Message{}, nil
	}
	out := make([]chat.Message, len(s.messages))
	copy(out, s.messages)
	s.mu.RUnlock()
	return out, nil
}

// LastMessages returns up to the last n messages as a new, independent slice.
// If n exceeds the total number of stored messages, all messages are returned.
// Returns an empty, non-nil slice when n is zero or negative, or when the log is empty.
// The context parameter is accepted for interface compliance but is not used
// by the in-memory implementation. The returned error is always nil.
func (s *ArrayStore) LastMessages(_ context.Context, n int) ([]chat.Message, error) {
	if n <= 0 {
		return []chat.Message{}, nil
	}
	s.mu.RLock()
	if len(s.messages) == 0 {
		s.mu.RUnlock()
		return []chat.Message{}, nil
	}
	if n > len(s.messages) {
		n = len(s.messages)
	}
	start := len(s.messages) - n
	out := make([]chat.Message, n)
	copy(out, s.messages[start:])
	s.mu.RUnlock()
	return out, nil
}

// Clear removes all messages while retaining the underlying slice capacity,
// so subsequent appends do not immediately trigger a reallocation.
// When an observability span is present in ctx, a clear event is recorded before
// the log is reset.
// The returned error is always nil.
func (s *ArrayStore) Clear(ctx context.Context) error {
	span := observability.SpanFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventHistoryClear)
	}

	s.mu.Lock()
	s.messages = s.messages[:0]
	s.mu.Unlock()

	return nil
}
