// Package promobs provides a Prometheus-backed implementation of
// observability.Provider. Counters and histograms named with the semconv
// metric constants are registered as Prometheus collectors; tracing and
// logging are delegated to an inner provider, slogobs by default.
//
// Expose the metrics the usual way, with promhttp on the host's metrics
// endpoint; the package itself never starts a server.
package promobs
