// Package utils provides shared low-level helpers used throughout the
// chatmemory internals: JSON-to-string serialization for log output and
// lossy text fallbacks, string truncation, and a simple elapsed-time timer.
//
// Key entry points: [ToString] for compact JSON rendering of arbitrary
// values, [TruncateString] for bounding content included in logs, and
// [Timer] for measuring operation latency.
package utils
