package node

import (
	"fmt"

	"github.com/leofalp/chatmemory/core/memory"
	"github.com/leofalp/chatmemory/providers/history"
	"github.com/leofalp/chatmemory/providers/history/pghistory"
)

// Invocation is everything the host supplies for one execution of the node:
// the raw parameter map, the node's configuration version, and the current
// workflow item as JSON (consulted only when the session id comes from an
// expression).
type Invocation struct {
	Parameters map[string]any
	Version    float64
	Item       []byte
}

// Build resolves an invocation into a session-bound [memory.Memory] backed by
// PostgreSQL. The db handle is typically a *pgxpool.Pool from [ResolvePool];
// it stays owned by the caller. Variant selection follows the version and
// tool-call policy in [memory.Select].
func Build(db pghistory.Querier, inv Invocation, opts ...memory.Option) (memory.Memory, error) {
	params, err := ResolveParameters(inv.Parameters, inv.Version)
	if err != nil {
		return nil, err
	}

	sessionID, err := ResolveSessionID(params, inv.Item)
	if err != nil {
		return nil, err
	}

	store := pghistory.New(db, sessionID, pghistory.WithTableName(params.TableName))
	return buildMemory(store, params, opts...)
}

// BuildWithStore is Build with the message log supplied directly, for hosts
// that manage their own storage backend. Table name and session id parameters
// are ignored; everything else applies as in Build.
func BuildWithStore(store history.Store, inv Invocation, opts ...memory.Option) (memory.Memory, error) {
	params, err := ResolveParameters(inv.Parameters, inv.Version)
	if err != nil {
		return nil, err
	}
	return buildMemory(store, params, opts...)
}

func buildMemory(store history.Store, params Parameters, opts ...memory.Option) (memory.Memory, error) {
	mem, err := memory.Select(store, params.Version, params.SupportToolCalls, params.ContextWindowLength, opts...)
	if err != nil {
		return nil, fmt.Errorf("node: build memory: %w", err)
	}
	return mem, nil
}
