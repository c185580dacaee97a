// Package parse converts the stringly-typed parameter values a workflow host
// hands to a node into concrete Go types. Host expression engines routinely
// deliver numbers and booleans as strings ("5", "true"), emit loosely quoted
// or trailing-comma JSON for object parameters, and sometimes wrap primitive
// values in schema-style {"type", "value"} envelopes. The package applies a
// layered recovery strategy (direct conversion, then automatic JSON repair,
// then envelope unwrapping) before falling back to a clear error.
//
// The main entry point is the generic [ParseStringAs] function, which handles
// both primitive types (string, bool, int, float) and complex types (structs,
// maps, slices) in a single, uniform API.
package parse
