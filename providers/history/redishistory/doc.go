// Package redishistory provides a Redis-backed implementation of the
// [history.Store] interface. Each session's messages live in a single Redis
// list, appended with RPUSH so insertion order is preserved, which makes
// last-N reads a constant-time LRANGE from the tail.
//
// Messages are stored as JSON. Reads also accept the serialized envelope
// shape ({"type","data"}) written by other chat-memory tools sharing the
// keyspace, so pointing this store at an existing deployment works without
// migration.
//
// The main entry point is [New], which returns a ready-to-use [RedisHistory]
// bound to a specific session. The store borrows the client it is given and
// never closes it. An optional TTL ([WithTTL]) keeps abandoned sessions from
// accumulating forever.
package redishistory
