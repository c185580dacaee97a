package observability

import (
	"context"
	"time"
)

// Provider is the single observability dependency injected into memory
// variants and history stores. It composes tracing, metrics, and logging so
// call sites carry one handle instead of three.
type Provider interface {
	Tracer
	Metrics
	Logger
}

// Tracer starts spans around memory and store operations.
type Tracer interface {
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span is one unit of work, typically a memory operation or a store
// round-trip. Implementations must tolerate calls from multiple goroutines.
type Span interface {
	// End completes the span and flushes whatever the backend records.
	End()
	// SetAttributes attaches metadata to the span.
	SetAttributes(attrs ...Attribute)
	// SetStatus records the terminal outcome.
	SetStatus(code StatusCode, description string)
	// RecordError attaches err to the span.
	RecordError(err error)
	// AddEvent marks a named point in time within the span.
	AddEvent(name string, attrs ...Attribute)
}

// StatusCode is the terminal outcome of a span.
type StatusCode int

const (
	StatusUnset StatusCode = iota
	StatusOK
	StatusError
)

// Metrics creates or retrieves named instruments. Names should come from the
// metric constants in semconv.go so backends aggregate consistently.
type Metrics interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// Counter is a monotonically increasing value.
type Counter interface {
	Add(ctx context.Context, value int64, attrs ...Attribute)
}

// Histogram records a distribution of observations.
type Histogram interface {
	Record(ctx context.Context, value float64, attrs ...Attribute)
}

// Logger emits levelled, attribute-carrying log events.
type Logger interface {
	Trace(ctx context.Context, msg string, attrs ...Attribute)
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}

// Attribute is a key-value pair attached to spans, metrics, and log events.
// Keys should come from the attribute constants in semconv.go.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute { return Attribute{Key: key, Value: value} }

func Int(key string, value int) Attribute { return Attribute{Key: key, Value: value} }

func Int64(key string, value int64) Attribute { return Attribute{Key: key, Value: value} }

func Float64(key string, value float64) Attribute { return Attribute{Key: key, Value: value} }

func Bool(key string, value bool) Attribute { return Attribute{Key: key, Value: value} }

func Duration(key string, value time.Duration) Attribute { return Attribute{Key: key, Value: value} }

// Error builds an "error" attribute from err. A nil err yields an empty
// value so callers can pass the result unconditionally.
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: "error", Value: ""}
	}
	return Attribute{Key: "error", Value: err.Error()}
}
