package memory

import (
	"context"

	"github.com/leofalp/chatmemory/providers/history"
)

// Buffer is the unwindowed memory variant: every load returns the session's
// full history. It is what node versions before 1.1 select.
type Buffer struct {
	base
}

var _ Memory = (*Buffer)(nil)

// NewBuffer creates an unwindowed memory over the given store.
func NewBuffer(store history.Store, opts ...Option) (*Buffer, error) {
	b, err := newBase(store, opts...)
	if err != nil {
		return nil, err
	}
	return &Buffer{base: b}, nil
}

// Variant returns the buffer label.
func (m *Buffer) Variant() string {
	return VariantBuffer
}

// LoadMemoryVariables returns the full session history under the memory key.
func (m *Buffer) LoadMemoryVariables(ctx context.Context, _ map[string]any) (map[string]any, error) {
	messages, err := m.store.Messages(ctx)
	if err != nil {
		return nil, err
	}
	return m.variables(messages), nil
}
