package memory

import "github.com/leofalp/chatmemory/providers/history"

// Node versions at which memory behavior changed.
const (
	versionWindowed  = 1.1 // windowed buffer replaces the unwindowed one
	versionToolAware = 1.4 // tool-aware variant, gated on host tool support
)

// Select returns the memory variant a node version asks for:
//
//   - versions before 1.1 get the unwindowed [Buffer];
//   - versions from 1.1, when below 1.4 or when tool-call support is
//     disabled, get a [Window] bounded to windowTurns turns;
//   - versions from 1.4 with tool-call support enabled get [ToolAware].
//
// The decision is deterministic and stateless. Options apply to whichever
// variant is selected.
func Select(store history.Store, version float64, supportToolCalls bool, windowTurns int, opts ...Option) (Memory, error) {
	switch {
	case version < versionWindowed:
		return NewBuffer(store, opts...)
	case version < versionToolAware || !supportToolCalls:
		return NewWindow(store, windowTurns, opts...)
	default:
		return NewToolAware(store, opts...)
	}
}
