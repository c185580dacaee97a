package memory

import (
	"context"

	"github.com/leofalp/chatmemory/providers/history"
)

// DefaultWindowTurns is the window size used when a non-positive turn count
// is requested.
const DefaultWindowTurns = 5

// Window is the bounded memory variant: every load returns only the most
// recent turns, where one turn is a user message plus the model output that
// follows it. Saves are unaffected; older messages stay in the store and are
// simply not loaded.
type Window struct {
	base
	turns int
}

var _ Memory = (*Window)(nil)

// NewWindow creates a memory bounded to the last turns conversational turns.
// Non-positive values fall back to [DefaultWindowTurns].
func NewWindow(store history.Store, turns int, opts ...Option) (*Window, error) {
	b, err := newBase(store, opts...)
	if err != nil {
		return nil, err
	}
	if turns <= 0 {
		turns = DefaultWindowTurns
	}
	return &Window{base: b, turns: turns}, nil
}

// Variant returns the window label.
func (m *Window) Variant() string {
	return VariantWindow
}

// Turns returns the configured window size in conversational turns.
func (m *Window) Turns() int {
	return m.turns
}

// LoadMemoryVariables returns the last 2*turns messages under the memory
// key, using the store's bounded read rather than loading the full history.
func (m *Window) LoadMemoryVariables(ctx context.Context, _ map[string]any) (map[string]any, error) {
	messages, err := m.store.LastMessages(ctx, 2*m.turns)
	if err != nil {
		return nil, err
	}
	return m.variables(messages), nil
}
