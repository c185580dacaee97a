package observability

import "context"

// contextKey is a private key type so span storage cannot collide with other
// context values.
type contextKey struct{}

var spanContextKey = contextKey{}

// SpanFromContext returns the span carried by ctx, or nil when none is
// present. Stores use this to attach events (history appends, schema
// creation) to the memory operation span that triggered them.
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanContextKey).(Span)
	return span
}

// ContextWithSpan returns a context carrying span. The observability
// middleware calls this before delegating so the span is visible downstream.
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanContextKey, span)
}
