// Package inmemory provides a concurrency-safe, slice-backed implementation
// of the [history.Store] interface for keeping a session's chat messages in
// process memory.
// It is designed for single-process use cases where persistence across
// restarts is not required, and for tests that need a store without a
// database.
// The main entry point is [New], which returns a ready-to-use [ArrayStore]
// instance.
package inmemory
