// Package middleware provides opt-in decorators for [memory.Memory]:
// [NewLoggingMiddleware] emits structured slog entries around every memory
// operation, and [NewTimeoutMiddleware] enforces a per-operation deadline.
//
// Decorators compose via [memory.Chain]. There is deliberately no retry
// middleware: memory operations pass store failures through to the host
// unchanged, and retrying a non-atomic SaveContext could duplicate the input
// message of a turn.
package middleware
