package pghistory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// createTableSQL is the DDL statement that creates the session log table.
// All chat.Message fields are persisted to guarantee round-trip fidelity:
// messages read back from PostgreSQL are identical to the originals.
//
// The seq column (BIGSERIAL) provides monotonic ordering within a session,
// avoiding timestamp collisions from rapid-fire messages within the same
// microsecond.
const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    seq          BIGSERIAL NOT NULL,
    session_id   TEXT NOT NULL,
    role         TEXT NOT NULL,
    content      TEXT NOT NULL DEFAULT '',
    tool_calls   JSONB,
    tool_call_id TEXT,
    name         TEXT,
    extra        JSONB,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// createSessionSeqIndexSQL creates the primary lookup index: all messages
// for a session ordered by insertion sequence. Every read path filters on
// session_id and orders by seq, so this is the only index needed.
const createSessionSeqIndexSQL = `CREATE INDEX IF NOT EXISTS %s
    ON %s (session_id, seq)`

// EnsureSchema creates the session log table and its index if they do not
// already exist, and marks the store as provisioned so subsequent operations
// skip the check. Calling it eagerly at startup is optional: every operation
// provisions lazily on first use.
func (h *PgHistory) EnsureSchema(ctx context.Context) error {
	return h.ensureSchema(ctx)
}

// ensureSchema runs the DDL exactly once per store instance. The mutex keeps
// concurrent first operations from racing the CREATE statements; a failed
// attempt leaves the store unprovisioned so the next operation retries.
func (h *PgHistory) ensureSchema(ctx context.Context) error {
	h.schemaMu.Lock()
	defer h.schemaMu.Unlock()

	if h.schemaReady {
		return nil
	}
	if err := h.createSchema(ctx); err != nil {
		return err
	}
	h.schemaReady = true
	return nil
}

// createSchema issues the CREATE TABLE and CREATE INDEX statements.
func (h *PgHistory) createSchema(ctx context.Context) error {
	tableSQL := fmt.Sprintf(createTableSQL, h.quoted)
	if _, err := h.db.Exec(ctx, tableSQL); err != nil {
		return fmt.Errorf("pghistory: create table: %w", err)
	}

	// The index name is derived from the raw table name and sanitized as its
	// own identifier, so quoted custom table names stay valid SQL.
	indexName := pgx.Identifier{"idx_" + h.table + "_session_seq"}.Sanitize()
	indexSQL := fmt.Sprintf(createSessionSeqIndexSQL, indexName, h.quoted)
	if _, err := h.db.Exec(ctx, indexSQL); err != nil {
		return fmt.Errorf("pghistory: create session_seq index: %w", err)
	}

	return nil
}
