// Package pghistory provides a PostgreSQL-backed implementation of the
// [history.Store] interface for persisting chat sessions across process
// restarts. Each [PgHistory] instance is scoped to a single session
// (conversation or thread), and uses pgx/v5 for efficient, pool-safe queries.
//
// The backing table is provisioned lazily: the first operation on a store
// runs CREATE TABLE IF NOT EXISTS before touching any rows, so a fresh
// database works without manual setup. Deployments that manage schemas with
// dedicated migration tooling (goose, migrate, etc.) can skip provisioning
// with [WithExistingSchema], or run it eagerly once via [PgHistory.EnsureSchema].
//
// The main entry point is [New], which returns a ready-to-use [PgHistory]
// bound to a specific session. The store borrows the connection pool it is
// given and never closes it.
package pghistory
