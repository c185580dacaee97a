package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/leofalp/chatmemory/chat"
	"github.com/leofalp/chatmemory/core/memory"
	"github.com/leofalp/chatmemory/internal/utils"
)

// LogLevel controls how much detail the logging middleware emits per operation.
type LogLevel int

const (
	// LogLevelMinimal logs only the operation, variant, and duration.
	// Use this when you want lightweight audit trails without noise.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard logs everything in Minimal plus message counts (loaded
	// on reads, saved keys present on writes). This is the recommended default
	// for most applications.
	LogLevelStandard

	// LogLevelVerbose logs everything in Standard plus the input and output
	// values passed to SaveContext, each truncated to 500 characters.
	//
	// WARNING: DO NOT use LogLevelVerbose in production. It will log raw
	// conversation text, which may contain sensitive user data, secrets, or
	// PII. It is intended solely for local debugging and development.
	LogLevelVerbose
)

// truncateLen is the maximum content length included in verbose log output.
const truncateLen = 500

// NewLoggingMiddleware creates a memory.Middleware that emits structured slog
// log entries before and after every memory operation. Failed operations are
// logged at error level with the underlying store error; the error itself is
// returned to the caller unchanged.
//
// The logger parameter must not be nil. Use slog.Default() if you have not
// configured a custom logger.
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) memory.Middleware {
	return func(next memory.Memory) memory.Memory {
		return &loggedMemory{next: next, logger: logger, level: level}
	}
}

type loggedMemory struct {
	next   memory.Memory
	logger *slog.Logger
	level  LogLevel
}

var _ memory.Memory = (*loggedMemory)(nil)

func (m *loggedMemory) Variant() string {
	return m.next.Variant()
}

func (m *loggedMemory) MemoryKeys() []string {
	return m.next.MemoryKeys()
}

func (m *loggedMemory) LoadMemoryVariables(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	m.logger.InfoContext(ctx, "memory load", m.baseAttrs()...)

	start := time.Now()
	variables, err := m.next.LoadMemoryVariables(ctx, inputs)
	elapsed := time.Since(start)

	if err != nil {
		m.logFailure(ctx, "memory load failed", err, elapsed)
		return nil, err
	}

	attrs := append(m.baseAttrs(), slog.Duration("duration", elapsed))
	if m.level >= LogLevelStandard {
		if keys := m.next.MemoryKeys(); len(keys) > 0 {
			if messages, ok := variables[keys[0]].([]chat.Message); ok {
				attrs = append(attrs, slog.Int("loaded_messages", len(messages)))
			}
		}
	}
	m.logger.InfoContext(ctx, "memory load completed", attrs...)

	return variables, nil
}

func (m *loggedMemory) SaveContext(ctx context.Context, inputs, outputs map[string]any) error {
	attrs := m.baseAttrs()
	if m.level >= LogLevelVerbose {
		attrs = append(attrs,
			slog.String("inputs", utils.TruncateString(utils.ToString(inputs), truncateLen)),
			slog.String("outputs", utils.TruncateString(utils.ToString(outputs), truncateLen)),
		)
	}
	m.logger.InfoContext(ctx, "memory save", attrs...)

	start := time.Now()
	err := m.next.SaveContext(ctx, inputs, outputs)
	elapsed := time.Since(start)

	if err != nil {
		m.logFailure(ctx, "memory save failed", err, elapsed)
		return err
	}

	m.logger.InfoContext(ctx, "memory save completed",
		append(m.baseAttrs(), slog.Duration("duration", elapsed))...,
	)
	return nil
}

func (m *loggedMemory) Clear(ctx context.Context) error {
	m.logger.InfoContext(ctx, "memory clear", m.baseAttrs()...)

	start := time.Now()
	err := m.next.Clear(ctx)
	elapsed := time.Since(start)

	if err != nil {
		m.logFailure(ctx, "memory clear failed", err, elapsed)
		return err
	}

	m.logger.InfoContext(ctx, "memory clear completed",
		append(m.baseAttrs(), slog.Duration("duration", elapsed))...,
	)
	return nil
}

func (m *loggedMemory) baseAttrs() []any {
	return []any{slog.String("variant", m.next.Variant())}
}

func (m *loggedMemory) logFailure(ctx context.Context, msg string, err error, elapsed time.Duration) {
	m.logger.ErrorContext(ctx, msg,
		slog.String("variant", m.next.Variant()),
		slog.Duration("duration", elapsed),
		slog.String("error", err.Error()),
	)
}
