package promobs

import (
	"context"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leofalp/chatmemory/providers/observability"
	"github.com/leofalp/chatmemory/providers/observability/slogobs"
)

// Observer implements observability.Provider with Prometheus-backed metrics.
// Tracing and logging delegate to an inner provider (slogobs by default), so
// an Observer is a drop-in replacement for slogobs.New() that additionally
// exposes counters and histograms on a Prometheus registry.
type Observer struct {
	inner      observability.Provider
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*promCounter
	histograms map[string]*promHistogram
}

// Option configures an Observer.
type Option func(*Observer)

// WithRegisterer registers metrics on the given registerer instead of
// prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *Observer) {
		o.registerer = reg
	}
}

// WithInner replaces the tracing and logging backend. Metrics always go to
// Prometheus; only spans and log events are routed to inner.
func WithInner(inner observability.Provider) Option {
	return func(o *Observer) {
		o.inner = inner
	}
}

// New creates a Prometheus-backed observer. Without options it registers on
// the default registerer and logs through slogobs.New().
func New(opts ...Option) *Observer {
	observer := &Observer{
		registerer: prometheus.DefaultRegisterer,
		counters:   make(map[string]*promCounter),
		histograms: make(map[string]*promHistogram),
	}
	for _, opt := range opts {
		opt(observer)
	}
	if observer.inner == nil {
		observer.inner = slogobs.New()
	}
	return observer
}

var _ observability.Provider = (*Observer)(nil)

// --- TRACING ---

func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	return o.inner.StartSpan(ctx, name, attrs...)
}

// --- METRICS ---

// Counter creates or retrieves a Prometheus counter for the given semconv
// metric name. Dots in the name become underscores to satisfy the Prometheus
// naming rules. Call-site attributes are not turned into labels; Prometheus
// requires label keys to be fixed at registration and the semconv attribute
// set is open-ended.
func (o *Observer) Counter(name string) observability.Counter {
	o.mu.Lock()
	defer o.mu.Unlock()

	if counter, ok := o.counters[name]; ok {
		return counter
	}

	counter := &promCounter{
		counter: promauto.With(o.registerer).NewCounter(prometheus.CounterOpts{
			Name: MetricName(name),
			Help: "Counter " + name,
		}),
	}
	o.counters[name] = counter
	return counter
}

// Histogram creates or retrieves a Prometheus histogram for the given semconv
// metric name, with the default buckets.
func (o *Observer) Histogram(name string) observability.Histogram {
	o.mu.Lock()
	defer o.mu.Unlock()

	if histogram, ok := o.histograms[name]; ok {
		return histogram
	}

	histogram := &promHistogram{
		histogram: promauto.With(o.registerer).NewHistogram(prometheus.HistogramOpts{
			Name:    MetricName(name),
			Help:    "Histogram " + name,
			Buckets: prometheus.DefBuckets,
		}),
	}
	o.histograms[name] = histogram
	return histogram
}

type promCounter struct {
	counter prometheus.Counter
}

func (c *promCounter) Add(_ context.Context, value int64, _ ...observability.Attribute) {
	if value <= 0 {
		return
	}
	c.counter.Add(float64(value))
}

type promHistogram struct {
	histogram prometheus.Histogram
}

func (h *promHistogram) Record(_ context.Context, value float64, _ ...observability.Attribute) {
	h.histogram.Observe(value)
}

// MetricName converts a semconv metric name to a valid Prometheus metric
// name: "chatmemory.memory.load.count" becomes "chatmemory_memory_load_count".
func MetricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

// --- LOGGING ---

func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.inner.Trace(ctx, msg, attrs...)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.inner.Debug(ctx, msg, attrs...)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.inner.Info(ctx, msg, attrs...)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.inner.Warn(ctx, msg, attrs...)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.inner.Error(ctx, msg, attrs...)
}
