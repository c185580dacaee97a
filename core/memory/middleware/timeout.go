package middleware

import (
	"context"
	"time"

	"github.com/leofalp/chatmemory/core/memory"
)

// NewTimeoutMiddleware creates a memory.Middleware that enforces a
// per-operation deadline on every memory call.
//
// Each operation wraps the incoming context with context.WithTimeout and
// defers cancel(), so the context is canceled once the operation returns or
// the deadline expires. Database-backed stores observe the deadline through
// their driver (pgx and go-redis both honor context cancellation).
//
// If the caller supplies a context that already has a shorter deadline, that
// shorter deadline wins as per normal context semantics.
func NewTimeoutMiddleware(timeout time.Duration) memory.Middleware {
	return func(next memory.Memory) memory.Memory {
		return &timeoutMemory{next: next, timeout: timeout}
	}
}

type timeoutMemory struct {
	next    memory.Memory
	timeout time.Duration
}

var _ memory.Memory = (*timeoutMemory)(nil)

func (m *timeoutMemory) Variant() string {
	return m.next.Variant()
}

func (m *timeoutMemory) MemoryKeys() []string {
	return m.next.MemoryKeys()
}

func (m *timeoutMemory) LoadMemoryVariables(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	return m.next.LoadMemoryVariables(ctx, inputs)
}

func (m *timeoutMemory) SaveContext(ctx context.Context, inputs, outputs map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	return m.next.SaveContext(ctx, inputs, outputs)
}

func (m *timeoutMemory) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	return m.next.Clear(ctx)
}
