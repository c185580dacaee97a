package memory

import (
	"context"
	"time"

	"github.com/leofalp/chatmemory/chat"
	"github.com/leofalp/chatmemory/internal/utils"
	"github.com/leofalp/chatmemory/providers/observability"
)

// NewObservabilityMiddleware creates a Middleware that wraps every memory
// operation with a tracing span, structured metrics, and log events.
//
// Each operation records a span from entry to completion. The span is
// injected into the context before the wrapped memory runs, so stores can
// attach events to it via [observability.SpanFromContext]. Errors are
// recorded on the span and returned to the caller unchanged.
//
// When composing with other middlewares via [Chain], put this one first so
// it observes the final outcome of the whole chain.
func NewObservabilityMiddleware(observer observability.Provider) Middleware {
	return func(next Memory) Memory {
		return &observedMemory{next: next, observer: observer}
	}
}

// memoryOp names one Memory operation for span, metric, and log purposes.
type memoryOp struct {
	spanName string
	counter  string
	label    string
}

var (
	opLoad  = memoryOp{spanName: observability.SpanMemoryLoad, counter: observability.MetricMemoryLoadCount, label: "load"}
	opSave  = memoryOp{spanName: observability.SpanMemorySave, counter: observability.MetricMemorySaveCount, label: "save"}
	opClear = memoryOp{spanName: observability.SpanMemoryClear, counter: observability.MetricMemoryClearCount, label: "clear"}
)

type observedMemory struct {
	next     Memory
	observer observability.Provider
}

var _ Memory = (*observedMemory)(nil)

func (m *observedMemory) Variant() string {
	return m.next.Variant()
}

func (m *observedMemory) MemoryKeys() []string {
	return m.next.MemoryKeys()
}

func (m *observedMemory) LoadMemoryVariables(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	ctx, span := m.begin(ctx, opLoad)

	timer := utils.NewTimer()
	variables, err := m.next.LoadMemoryVariables(ctx, inputs)
	timer.Stop()

	if err != nil {
		m.fail(ctx, span, opLoad, err, timer.GetDuration())
		return nil, err
	}

	var attrs []observability.Attribute
	if keys := m.next.MemoryKeys(); len(keys) > 0 {
		if messages, ok := variables[keys[0]].([]chat.Message); ok {
			attrs = append(attrs, observability.Int(observability.AttrMemoryLoadedMessages, len(messages)))
		}
	}
	m.finish(ctx, span, opLoad, timer.GetDuration(), attrs...)

	return variables, nil
}

func (m *observedMemory) SaveContext(ctx context.Context, inputs, outputs map[string]any) error {
	ctx, span := m.begin(ctx, opSave)

	timer := utils.NewTimer()
	err := m.next.SaveContext(ctx, inputs, outputs)
	timer.Stop()

	if err != nil {
		m.fail(ctx, span, opSave, err, timer.GetDuration())
		return err
	}

	m.finish(ctx, span, opSave, timer.GetDuration())
	return nil
}

func (m *observedMemory) Clear(ctx context.Context) error {
	ctx, span := m.begin(ctx, opClear)

	timer := utils.NewTimer()
	err := m.next.Clear(ctx)
	timer.Stop()

	if err != nil {
		m.fail(ctx, span, opClear, err, timer.GetDuration())
		return err
	}

	m.finish(ctx, span, opClear, timer.GetDuration())
	return nil
}

// begin starts the operation span, enriches the context with it so stores
// can attach child events, and emits the operation-start debug log.
func (m *observedMemory) begin(ctx context.Context, op memoryOp) (context.Context, observability.Span) {
	ctx, span := m.observer.StartSpan(ctx, op.spanName,
		observability.String(observability.AttrMemoryVariant, m.next.Variant()),
	)
	ctx = observability.ContextWithSpan(ctx, span)

	m.observer.Debug(ctx, "memory "+op.label,
		observability.String(observability.AttrMemoryVariant, m.next.Variant()),
	)

	return ctx, span
}

// fail records the error on the span, emits the error log, counts the failed
// operation, and ends the span. The error itself is not modified.
func (m *observedMemory) fail(ctx context.Context, span observability.Span, op memoryOp, err error, elapsed time.Duration) {
	span.RecordError(err)
	span.SetStatus(observability.StatusError, "memory "+op.label+" failed")
	span.End()

	m.observer.Error(ctx, "memory "+op.label+" failed",
		observability.Error(err),
		observability.Duration(observability.AttrDuration, elapsed),
		observability.String(observability.AttrMemoryVariant, m.next.Variant()),
	)

	m.observer.Counter(op.counter).Add(ctx, 1,
		observability.String(observability.AttrStatus, "error"),
		observability.String(observability.AttrMemoryVariant, m.next.Variant()),
	)
}

// finish records success metrics, the completion log, any extra attributes
// on the span, and ends the span.
func (m *observedMemory) finish(ctx context.Context, span observability.Span, op memoryOp, elapsed time.Duration, attrs ...observability.Attribute) {
	m.observer.Histogram(observability.MetricMemoryOperationDuration).Record(ctx, elapsed.Seconds(),
		observability.String(observability.AttrOperation, op.label),
		observability.String(observability.AttrMemoryVariant, m.next.Variant()),
	)

	m.observer.Counter(op.counter).Add(ctx, 1,
		observability.String(observability.AttrStatus, "success"),
		observability.String(observability.AttrMemoryVariant, m.next.Variant()),
	)

	logAttrs := []observability.Attribute{
		observability.String(observability.AttrMemoryVariant, m.next.Variant()),
		observability.Duration(observability.AttrDuration, elapsed),
	}
	logAttrs = append(logAttrs, attrs...)
	m.observer.Info(ctx, "memory "+op.label+" completed", logAttrs...)

	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	span.SetStatus(observability.StatusOK, "success")
	span.End()
}
