package pghistory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/leofalp/chatmemory/chat"
	"github.com/leofalp/chatmemory/providers/history"
)

// defaultTableName is the PostgreSQL table used when no custom name is
// provided. It matches the table the n8n Postgres Chat Memory node writes to,
// so existing workflow databases work out of the box.
const defaultTableName = "n8n_chat_histories"

// Querier abstracts the pgx query methods needed by PgHistory.
// Both *pgxpool.Pool and pgx.Tx satisfy this interface, allowing
// callers to inject either a connection pool or a single transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxQuerier extends Querier with transaction support. *pgxpool.Pool satisfies
// this interface but pgx.Tx does not. Methods that benefit from atomicity
// (e.g., AddMessages) attempt a type assertion to TxQuerier and fall back to
// a non-atomic path when only Querier is available.
type TxQuerier interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgHistory implements [history.Store] with PostgreSQL persistence.
// Each instance is scoped to a single session (conversation or thread).
// Thread safety is handled by the underlying pgx connection pool; the only
// application-level lock guards one-time schema provisioning.
type PgHistory struct {
	db        Querier
	sessionID string
	table     string // raw table name, used to derive index names
	quoted    string // identifier injected into SQL statements

	schemaMu    sync.Mutex
	schemaReady bool
}

// Compile-time check: PgHistory must implement history.Store.
var _ history.Store = (*PgHistory)(nil)

// Option configures optional PgHistory behavior.
type Option func(*PgHistory)

// WithTableName overrides the default table name ("n8n_chat_histories").
// The name is sanitized via pgx.Identifier to prevent SQL injection,
// since it is interpolated into queries via fmt.Sprintf.
func WithTableName(name string) Option {
	return func(h *PgHistory) {
		h.table = name
		h.quoted = pgx.Identifier{name}.Sanitize()
	}
}

// WithExistingSchema marks the backing table as already provisioned, skipping
// the lazy CREATE TABLE IF NOT EXISTS on first use. Use this when schema
// changes are managed by migration tooling and the store should never issue
// DDL.
func WithExistingSchema() Option {
	return func(h *PgHistory) {
		h.schemaReady = true
	}
}

// New creates a PostgreSQL-backed session log for the given session.
// The db parameter must be a pgx-compatible query executor (typically
// *pgxpool.Pool). The sessionID scopes all reads and writes to a single
// conversation thread. The store borrows db; closing it remains the
// caller's responsibility.
func New(db Querier, sessionID string, opts ...Option) *PgHistory {
	pgHistory := &PgHistory{
		db:        db,
		sessionID: sessionID,
		table:     defaultTableName,
		quoted:    defaultTableName,
	}
	for _, opt := range opts {
		opt(pgHistory)
	}
	return pgHistory
}

// SessionID returns the session this store is bound to.
func (h *PgHistory) SessionID() string {
	return h.sessionID
}

// AddMessage persists a message to PostgreSQL. JSONB fields (tool_calls,
// extra) are serialized with encoding/json; empty values map to SQL NULL.
func (h *PgHistory) AddMessage(ctx context.Context, message chat.Message) error {
	if err := h.ensureSchema(ctx); err != nil {
		return err
	}

	if err := h.insertMessage(ctx, h.db, message); err != nil {
		return fmt.Errorf("pghistory: add message: %w", err)
	}
	return nil
}

// AddMessages appends messages in slice order. When the underlying db
// implements TxQuerier (e.g., *pgxpool.Pool), the batch is written atomically
// inside a single transaction. Otherwise a non-atomic fallback issues one
// INSERT per message, and a failure may leave a prefix of the batch persisted.
func (h *PgHistory) AddMessages(ctx context.Context, messages []chat.Message) error {
	if len(messages) == 0 {
		return nil
	}

	if err := h.ensureSchema(ctx); err != nil {
		return err
	}

	if txDB, ok := h.db.(TxQuerier); ok {
		return h.addMessagesAtomic(ctx, txDB, messages)
	}
	return h.addMessagesFallback(ctx, messages)
}

// addMessagesAtomic writes the whole batch inside a single transaction so
// concurrent readers never observe a partially applied batch.
func (h *PgHistory) addMessagesAtomic(ctx context.Context, txDB TxQuerier, messages []chat.Message) error {
	tx, err := txDB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pghistory: add messages begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	for _, message := range messages {
		if err := h.insertMessage(ctx, tx, message); err != nil {
			return fmt.Errorf("pghistory: add messages: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pghistory: add messages commit tx: %w", err)
	}
	return nil
}

// addMessagesFallback inserts sequentially when the db does not support
// transactions (i.e., only implements Querier).
func (h *PgHistory) addMessagesFallback(ctx context.Context, messages []chat.Message) error {
	for _, message := range messages {
		if err := h.insertMessage(ctx, h.db, message); err != nil {
			return fmt.Errorf("pghistory: add messages: %w", err)
		}
	}
	return nil
}

// insertMessage issues the INSERT for a single message against the given
// executor (pool or transaction).
func (h *PgHistory) insertMessage(ctx context.Context, db Querier, message chat.Message) error {
	toolCallsJSON, _ := marshalNullableJSON(message.ToolCalls)
	extraJSON, _ := marshalNullableJSON(message.Extra)

	query := fmt.Sprintf(`INSERT INTO %s
		(session_id, role, content, tool_calls, tool_call_id, name, extra)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, h.quoted)

	_, err := db.Exec(ctx, query,
		h.sessionID,
		string(message.Role),
		message.Content,
		toolCallsJSON,
		message.ToolCallID,
		message.Name,
		extraJSON,
	)
	return err
}

// Messages returns all messages for this session in chronological order
// (ordered by the monotonic seq column).
func (h *PgHistory) Messages(ctx context.Context) ([]chat.Message, error) {
	if err := h.ensureSchema(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT role, content, tool_calls, tool_call_id, name, extra
		FROM %s WHERE session_id = $1 ORDER BY seq ASC`, h.quoted)

	rows, err := h.db.Query(ctx, query, h.sessionID)
	if err != nil {
		return nil, fmt.Errorf("pghistory: messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// LastMessages returns the last n messages in chronological order using an
// efficient SQL pattern: fetch the n most recent rows (ORDER BY seq DESC
// LIMIT n), then reverse them so the caller receives oldest-first order.
// Returns an empty slice when n is zero or negative.
func (h *PgHistory) LastMessages(ctx context.Context, n int) ([]chat.Message, error) {
	if n <= 0 {
		return []chat.Message{}, nil
	}

	if err := h.ensureSchema(ctx); err != nil {
		return nil, err
	}

	// Subquery fetches newest-first, outer query re-orders oldest-first.
	query := fmt.Sprintf(`SELECT role, content, tool_calls, tool_call_id, name, extra
		FROM (
			SELECT seq, role, content, tool_calls, tool_call_id, name, extra
			FROM %s WHERE session_id = $1 ORDER BY seq DESC LIMIT $2
		) sub ORDER BY sub.seq ASC`, h.quoted)

	rows, err := h.db.Query(ctx, query, h.sessionID, n)
	if err != nil {
		return nil, fmt.Errorf("pghistory: last messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// Count returns the number of messages stored for this session.
func (h *PgHistory) Count(ctx context.Context) (int, error) {
	if err := h.ensureSchema(ctx); err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE session_id = $1`, h.quoted)

	var count int
	if err := h.db.QueryRow(ctx, query, h.sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pghistory: count: %w", err)
	}
	return count, nil
}

// Clear deletes all messages for this session. Rows belonging to other
// sessions in the same table are untouched.
func (h *PgHistory) Clear(ctx context.Context) error {
	if err := h.ensureSchema(ctx); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE session_id = $1`, h.quoted)
	if _, err := h.db.Exec(ctx, query, h.sessionID); err != nil {
		return fmt.Errorf("pghistory: clear: %w", err)
	}
	return nil
}

// scanMessages iterates over pgx.Rows and returns a slice of chat.Message.
// Returns an empty non-nil slice when no rows are present.
func scanMessages(rows pgx.Rows) ([]chat.Message, error) {
	var messages []chat.Message

	for rows.Next() {
		var role, content string
		var toolCallsJSON, extraJSON []byte
		var toolCallID, name *string

		if err := rows.Scan(&role, &content, &toolCallsJSON, &toolCallID, &name, &extraJSON); err != nil {
			return nil, fmt.Errorf("pghistory: scan row: %w", err)
		}

		messages = append(messages, buildMessage(role, content, toolCallsJSON, toolCallID, name, extraJSON))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pghistory: iterate rows: %w", err)
	}

	if messages == nil {
		return []chat.Message{}, nil
	}
	return messages, nil
}

// buildMessage assembles a chat.Message from the raw column values scanned
// from a PostgreSQL row. Nullable TEXT columns are represented as *string;
// nil means SQL NULL. Role aliases written by other tools sharing the table
// (e.g., "human", "ai") are normalized to canonical roles.
func buildMessage(role, content string, toolCallsJSON []byte, toolCallID, name *string, extraJSON []byte) chat.Message {
	msg := chat.Message{
		Role:       chat.NormalizeRole(role),
		Content:    content,
		ToolCallID: derefString(toolCallID),
		Name:       derefString(name),
	}

	if len(toolCallsJSON) > 0 {
		_ = json.Unmarshal(toolCallsJSON, &msg.ToolCalls)
	}
	if len(extraJSON) > 0 {
		_ = json.Unmarshal(extraJSON, &msg.Extra)
	}

	return msg
}

// marshalNullableJSON marshals value to JSON, returning nil when the
// underlying collection is empty or nil. This maps Go zero-values to SQL NULL
// instead of storing empty JSON arrays ("[]") or objects ("{}") in JSONB
// columns.
func marshalNullableJSON(value any) ([]byte, error) {
	switch v := value.(type) {
	case []chat.ToolCall:
		if len(v) == 0 {
			return nil, nil
		}
	case map[string]any:
		if len(v) == 0 {
			return nil, nil
		}
	}
	return json.Marshal(value)
}

// derefString safely dereferences a *string, returning "" for nil.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
