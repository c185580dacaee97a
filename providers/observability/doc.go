// Package observability defines the core interfaces and semantic conventions
// used for distributed tracing, metrics collection, and structured logging
// throughout the chatmemory library.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. Memory variants and
// history stores receive a [Provider] at construction time; an active [Span]
// travels through a [context.Context] via [ContextWithSpan] and is retrieved
// with [SpanFromContext], so store implementations can attach events to the
// span of the memory operation that invoked them.
//
// The semconv.go file contains all standard attribute-key, span-name, event
// and metric constants that should be used when recording observations,
// ensuring consistency across backends and components.
//
// Two backends ship with the library:
// [github.com/leofalp/chatmemory/providers/observability/slogobs] routes
// everything through log/slog, and
// [github.com/leofalp/chatmemory/providers/observability/promobs] exports
// the metrics side to Prometheus.
package observability
