package observability

import (
	"context"
	"testing"
)

// stubSpan is the minimal Span implementation needed to round-trip through a
// context.
type stubSpan struct {
	events []string
}

func (s *stubSpan) End()                                 {}
func (s *stubSpan) SetAttributes(...Attribute)           {}
func (s *stubSpan) SetStatus(StatusCode, string)         {}
func (s *stubSpan) RecordError(error)                    {}
func (s *stubSpan) AddEvent(name string, _ ...Attribute) { s.events = append(s.events, name) }

func TestSpanContextRoundTrip(t *testing.T) {
	span := &stubSpan{}
	ctx := ContextWithSpan(context.Background(), span)

	got := SpanFromContext(ctx)
	if got != span {
		t.Fatalf("SpanFromContext returned %v, want the stored span", got)
	}

	got.AddEvent(EventHistoryAppend)
	if len(span.events) != 1 || span.events[0] != EventHistoryAppend {
		t.Errorf("events = %v, want [%s]", span.events, EventHistoryAppend)
	}
}

func TestSpanFromContextWithoutSpan(t *testing.T) {
	if span := SpanFromContext(context.Background()); span != nil {
		t.Errorf("SpanFromContext on empty context = %v, want nil", span)
	}
}

func TestSpanFromNilContext(t *testing.T) {
	//nolint:staticcheck // exercising the nil-context guard on purpose
	if span := SpanFromContext(nil); span != nil {
		t.Errorf("SpanFromContext(nil) = %v, want nil", span)
	}
}

func TestContextWithSpanFromNilContext(t *testing.T) {
	span := &stubSpan{}
	//nolint:staticcheck // exercising the nil-context guard on purpose
	ctx := ContextWithSpan(nil, span)
	if got := SpanFromContext(ctx); got != span {
		t.Errorf("SpanFromContext = %v, want the stored span", got)
	}
}
