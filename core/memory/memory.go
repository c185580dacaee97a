package memory

import (
	"context"
	"errors"
	"log/slog"
	"reflect"

	"github.com/leofalp/chatmemory/chat"
	"github.com/leofalp/chatmemory/core/transcript"
	"github.com/leofalp/chatmemory/internal/utils"
	"github.com/leofalp/chatmemory/providers/history"
	"github.com/leofalp/chatmemory/providers/observability"
)

// ErrNilStore is returned by the variant constructors when no message-log
// store is supplied. The error is raised before any store operation is
// attempted.
var ErrNilStore = errors.New("memory: message-log handle required")

// Default keys under which a memory publishes and reads conversation data.
const (
	defaultMemoryKey = "chat_history"
	defaultInputKey  = "input"
	defaultOutputKey = "output"
)

// Variant labels, used in logs and metric attributes.
const (
	VariantBuffer    = "buffer"
	VariantWindow    = "window"
	VariantToolAware = "tool_aware"
)

// Memory is the contract an LLM orchestration loop consumes. A Memory is
// created per workflow item and discarded after the turn; it holds no state
// beyond its configuration and re-reads the store on every load.
type Memory interface {
	// Variant returns a stable label identifying the implementation.
	Variant() string

	// MemoryKeys lists the variable names LoadMemoryVariables populates.
	MemoryKeys() []string

	// LoadMemoryVariables reads the session history and returns it under the
	// configured memory key, as []chat.Message or, when the memory was built
	// with WithReturnMessages(false), as a flattened transcript string.
	LoadMemoryVariables(ctx context.Context, inputs map[string]any) (map[string]any, error)

	// SaveContext persists one conversational turn: the input under the
	// input key as a user message, then the output under the output key
	// according to its classified shape. The two appends are not atomic.
	SaveContext(ctx context.Context, inputs, outputs map[string]any) error

	// Clear removes all messages for the session. Irreversible.
	Clear(ctx context.Context) error
}

// config carries the settings shared by all memory variants.
type config struct {
	memoryKey      string
	inputKey       string
	outputKey      string
	returnMessages bool
}

// Option customizes a memory variant at construction time.
type Option func(*config)

// WithMemoryKey overrides the variable name the history is published under.
// Empty values are ignored.
func WithMemoryKey(key string) Option {
	return func(cfg *config) {
		if key != "" {
			cfg.memoryKey = key
		}
	}
}

// WithInputKey overrides the key the user turn is read from in SaveContext.
// Empty values are ignored.
func WithInputKey(key string) Option {
	return func(cfg *config) {
		if key != "" {
			cfg.inputKey = key
		}
	}
}

// WithOutputKey overrides the key the model turn is read from in SaveContext.
// Empty values are ignored.
func WithOutputKey(key string) Option {
	return func(cfg *config) {
		if key != "" {
			cfg.outputKey = key
		}
	}
}

// WithReturnMessages controls the shape LoadMemoryVariables publishes: true
// (the default) returns structured []chat.Message, false returns a single
// flattened transcript string.
func WithReturnMessages(returnMessages bool) Option {
	return func(cfg *config) {
		cfg.returnMessages = returnMessages
	}
}

// base implements the operations shared by every variant. Variants embed it
// and add their own load strategy.
type base struct {
	store history.Store
	config
}

// newBase validates the store handle and applies options over the defaults.
func newBase(store history.Store, opts ...Option) (base, error) {
	if store == nil {
		return base{}, ErrNilStore
	}

	cfg := config{
		memoryKey:      defaultMemoryKey,
		inputKey:       defaultInputKey,
		outputKey:      defaultOutputKey,
		returnMessages: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return base{store: store, config: cfg}, nil
}

// MemoryKeys returns the single key the history is published under.
func (m *base) MemoryKeys() []string {
	return []string{m.memoryKey}
}

// SaveContext persists up to two entries, in this fixed order: the input
// value as a user message, then the output value according to its
// classification. A missing or falsy value skips its append. A failure on
// the input append returns before the output is touched, so the turn may be
// left partially persisted.
func (m *base) SaveContext(ctx context.Context, inputs, outputs map[string]any) error {
	if input, ok := inputs[m.inputKey]; ok && truthy(input) {
		userMessage := chat.Message{Role: chat.RoleUser, Content: contentString(input)}
		if err := m.store.AddMessage(ctx, userMessage); err != nil {
			return err
		}
	}

	output, ok := outputs[m.outputKey]
	if !ok || !truthy(output) {
		return nil
	}

	classified := Classify(output)
	switch classified.Kind {
	case OutputText:
		return m.store.AddMessage(ctx, chat.Message{Role: chat.RoleAssistant, Content: classified.Text})
	case OutputStructuredMessage:
		// Verbatim append: stringifying here would destroy tool-call
		// metadata a downstream agent step still needs.
		return m.store.AddMessage(ctx, classified.Message)
	case OutputMessageSequence:
		return m.store.AddMessages(ctx, classified.Sequence)
	default:
		serialized := utils.ToString(classified.Value)
		slog.Debug("memory: unrecognized output shape stored as text",
			"output_key", m.outputKey, "content_length", len(serialized))
		if span := observability.SpanFromContext(ctx); span != nil {
			span.AddEvent(observability.EventOpaqueOutput,
				observability.Int(observability.AttrHistoryMessageLength, len(serialized)))
		}
		return m.store.AddMessage(ctx, chat.Message{Role: chat.RoleAssistant, Content: serialized})
	}
}

// Clear delegates to the store's clear operation for the session.
func (m *base) Clear(ctx context.Context) error {
	return m.store.Clear(ctx)
}

// variables wraps loaded messages in the single-entry variable map the host
// expects, flattening to a transcript string when configured to.
func (m *base) variables(messages []chat.Message) map[string]any {
	if m.returnMessages {
		return map[string]any{m.memoryKey: messages}
	}
	return map[string]any{m.memoryKey: transcript.Flatten(messages)}
}

// contentString renders an input value as message content. Strings pass
// through; anything else is serialized to JSON.
func contentString(value any) string {
	if text, ok := value.(string); ok {
		return text
	}
	return utils.ToString(value)
}

// truthy reports whether a host-supplied value counts as present. The host's
// scripting runtime skips null, empty strings, false, zero, and empty
// containers when deciding whether a turn carries an input or output; this
// mirrors that check.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case uint:
		return v != 0
	case uint64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	case map[string]any:
		return len(v) > 0
	case []any:
		return len(v) > 0
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}
