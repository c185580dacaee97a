// Package node is the workflow-host entry point of the module: it turns the
// untyped parameter map a host hands to a "Postgres Chat Memory" node into a
// ready-to-use [memory.Memory].
//
// The package covers the plumbing between host and library. [Properties]
// describes the node's parameters as data the host can render.
// [ResolveParameters] coerces and validates the raw parameter map (values
// frequently arrive as strings from expression engines). [Credentials] and
// [ResolvePool] open the pgx connection pool from stored credentials.
// [ResolveSessionID] derives the conversation id from a fixed value, an
// expression path evaluated against the current item's JSON, or a generated
// UUID. [Build] composes all of the above with the variant selection policy
// in [memory.Select].
//
// A node invocation is per-item and short-lived; the pool it borrows is owned
// by the host and outlives every memory built here.
package node
