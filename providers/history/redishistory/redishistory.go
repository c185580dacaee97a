package redishistory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leofalp/chatmemory/chat"
	"github.com/leofalp/chatmemory/providers/history"
)

// defaultKeyPrefix is prepended to the session ID to form the Redis key
// holding the session's message list.
const defaultKeyPrefix = "chat_history:"

// RedisHistory implements [history.Store] with Redis persistence.
// Each instance is scoped to a single session; all messages live in one list
// under a prefixed key. Thread safety is handled by the underlying go-redis
// client.
type RedisHistory struct {
	client    redis.UniversalClient
	sessionID string
	keyPrefix string
	ttl       time.Duration
}

// Compile-time check: RedisHistory must implement history.Store.
var _ history.Store = (*RedisHistory)(nil)

// Option configures optional RedisHistory behavior.
type Option func(*RedisHistory)

// WithKeyPrefix overrides the default key prefix ("chat_history:").
func WithKeyPrefix(prefix string) Option {
	return func(h *RedisHistory) {
		h.keyPrefix = prefix
	}
}

// WithTTL sets an expiry on the session key, refreshed on every write.
// Sessions idle longer than ttl disappear from Redis. A zero or negative
// ttl (the default) keeps sessions forever.
func WithTTL(ttl time.Duration) Option {
	return func(h *RedisHistory) {
		h.ttl = ttl
	}
}

// New creates a Redis-backed session log for the given session.
// The client parameter may be any go-redis client (standalone, sentinel,
// cluster). The store borrows client; closing it remains the caller's
// responsibility.
func New(client redis.UniversalClient, sessionID string, opts ...Option) *RedisHistory {
	redisHistory := &RedisHistory{
		client:    client,
		sessionID: sessionID,
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(redisHistory)
	}
	return redisHistory
}

// SessionID returns the session this store is bound to.
func (h *RedisHistory) SessionID() string {
	return h.sessionID
}

// Key returns the Redis key holding this session's message list.
func (h *RedisHistory) Key() string {
	return h.keyPrefix + h.sessionID
}

// AddMessage appends a single message to the session list and refreshes the
// TTL when one is configured.
func (h *RedisHistory) AddMessage(ctx context.Context, message chat.Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("redishistory: add message: %w", err)
	}

	if err := h.client.RPush(ctx, h.Key(), payload).Err(); err != nil {
		return fmt.Errorf("redishistory: add message: %w", err)
	}
	return h.refreshTTL(ctx)
}

// AddMessages appends messages in slice order. The whole batch goes out as a
// single RPUSH, so it is applied atomically and concurrent readers never
// observe a partial batch.
func (h *RedisHistory) AddMessages(ctx context.Context, messages []chat.Message) error {
	if len(messages) == 0 {
		return nil
	}

	payloads := make([]any, 0, len(messages))
	for _, message := range messages {
		payload, err := json.Marshal(message)
		if err != nil {
			return fmt.Errorf("redishistory: add messages: %w", err)
		}
		payloads = append(payloads, payload)
	}

	if err := h.client.RPush(ctx, h.Key(), payloads...).Err(); err != nil {
		return fmt.Errorf("redishistory: add messages: %w", err)
	}
	return h.refreshTTL(ctx)
}

// Messages returns every message in the session in insertion order.
// Returns an empty non-nil slice when the session has no messages.
func (h *RedisHistory) Messages(ctx context.Context) ([]chat.Message, error) {
	raw, err := h.client.LRange(ctx, h.Key(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redishistory: messages: %w", err)
	}
	return decodeStoredMessages(raw)
}

// LastMessages returns the most recent n messages in insertion order, read
// directly from the tail of the list. Returns an empty slice when n is zero
// or negative.
func (h *RedisHistory) LastMessages(ctx context.Context, n int) ([]chat.Message, error) {
	if n <= 0 {
		return []chat.Message{}, nil
	}

	raw, err := h.client.LRange(ctx, h.Key(), int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redishistory: last messages: %w", err)
	}
	return decodeStoredMessages(raw)
}

// Count returns the number of messages stored for this session.
func (h *RedisHistory) Count(ctx context.Context) (int, error) {
	length, err := h.client.LLen(ctx, h.Key()).Result()
	if err != nil {
		return 0, fmt.Errorf("redishistory: count: %w", err)
	}
	return int(length), nil
}

// Clear deletes the session's list. Other sessions sharing the keyspace are
// untouched.
func (h *RedisHistory) Clear(ctx context.Context) error {
	if err := h.client.Del(ctx, h.Key()).Err(); err != nil {
		return fmt.Errorf("redishistory: clear: %w", err)
	}
	return nil
}

// refreshTTL re-arms the key expiry after a write when a TTL is configured.
func (h *RedisHistory) refreshTTL(ctx context.Context) error {
	if h.ttl <= 0 {
		return nil
	}
	if err := h.client.Expire(ctx, h.Key(), h.ttl).Err(); err != nil {
		return fmt.Errorf("redishistory: refresh ttl: %w", err)
	}
	return nil
}

// decodeStoredMessages converts raw list elements into chat messages.
// Returns an empty non-nil slice for an empty list.
func decodeStoredMessages(raw []string) ([]chat.Message, error) {
	messages := make([]chat.Message, 0, len(raw))
	for _, element := range raw {
		message, err := decodeStoredMessage(element)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// decodeStoredMessage parses a single stored element. The canonical shape is
// the chat.Message wire form; the serialized envelope shape written by other
// tools is accepted as a fallback.
func decodeStoredMessage(raw string) (chat.Message, error) {
	var message chat.Message
	if err := json.Unmarshal([]byte(raw), &message); err == nil {
		if _, ok := chat.ParseRole(string(message.Role)); ok {
			message.Role = chat.NormalizeRole(string(message.Role))
			return message, nil
		}
	}

	var value map[string]any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return chat.Message{}, fmt.Errorf("redishistory: decode message: %w", err)
	}
	if decoded, ok := chat.Decode(value); ok {
		return decoded, nil
	}
	return chat.Message{}, fmt.Errorf("redishistory: decode message: unrecognized payload")
}
