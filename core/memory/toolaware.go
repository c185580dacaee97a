package memory

import (
	"context"

	"github.com/leofalp/chatmemory/providers/history"
)

// ToolAware is the memory variant selected by hosts whose agents emit tool
// calls (node version 1.4 and later with tool support enabled). Loads return
// the full history with no windowing; saves go through the shared output
// classification, so assistant messages carrying tool calls and whole
// assistant-plus-tool-result sequences are persisted without stringification.
type ToolAware struct {
	base
}

var _ Memory = (*ToolAware)(nil)

// NewToolAware creates a tool-aware memory over the given store.
func NewToolAware(store history.Store, opts ...Option) (*ToolAware, error) {
	b, err := newBase(store, opts...)
	if err != nil {
		return nil, err
	}
	return &ToolAware{base: b}, nil
}

// Variant returns the tool-aware label.
func (m *ToolAware) Variant() string {
	return VariantToolAware
}

// LoadMemoryVariables returns the full session history under the memory key.
// No pagination, filtering, or windowing happens at this layer.
func (m *ToolAware) LoadMemoryVariables(ctx context.Context, _ map[string]any) (map[string]any, error) {
	messages, err := m.store.Messages(ctx)
	if err != nil {
		return nil, err
	}
	return m.variables(messages), nil
}
