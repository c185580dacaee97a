package node

import (
	"errors"
	"fmt"

	"github.com/leofalp/chatmemory/core/parse"
)

// Parameter keys as they appear in the host's raw parameter map.
const (
	ParamTableName           = "tableName"
	ParamSessionIDSource     = "sessionIdSource"
	ParamSessionKey          = "sessionKey"
	ParamContextWindowLength = "contextWindowLength"
	ParamSupportToolCalls    = "supportToolCalls"
)

// Parameter defaults.
const (
	// DefaultTableName matches the table the n8n Postgres Chat Memory node
	// writes to, so existing workflow databases keep working.
	DefaultTableName = "n8n_chat_histories"

	// DefaultSessionPath is the item path the session id is read from when
	// the source is SessionSourceExpression.
	DefaultSessionPath = "json.sessionId"

	// DefaultContextWindowLength is the window size in turns when the host
	// does not supply one.
	DefaultContextWindowLength = 5

	// DefaultVersion is assumed when the host does not report a node
	// version. It is the newest behavior: tool-call support is available.
	DefaultVersion = 1.5
)

// ErrInvalidWindowLength is returned when the host supplies a context window
// length that is zero or negative.
var ErrInvalidWindowLength = errors.New("node: contextWindowLength must be positive")

// Parameters is the typed form of the node's configuration for one
// invocation.
type Parameters struct {
	TableName           string
	SessionIDSource     SessionSource
	SessionKey          string
	ContextWindowLength int
	SupportToolCalls    bool

	// Version is the node's configuration version; it selects the memory
	// variant together with SupportToolCalls (see memory.Select).
	Version float64
}

// DefaultParameters returns a Parameters with every default applied.
func DefaultParameters() Parameters {
	return Parameters{
		TableName:           DefaultTableName,
		SessionIDSource:     SessionSourceExpression,
		SessionKey:          DefaultSessionPath,
		ContextWindowLength: DefaultContextWindowLength,
		Version:             DefaultVersion,
	}
}

// ResolveParameters converts the host's raw parameter map into Parameters,
// applying defaults for absent keys and validating the rest. Values may
// arrive as their natural type or as strings produced by an expression
// engine; strings are coerced with the parse package.
func ResolveParameters(raw map[string]any, version float64) (Parameters, error) {
	params := DefaultParameters()
	if version > 0 {
		params.Version = version
	}

	if value, ok := raw[ParamTableName]; ok {
		table, err := coerce[string](ParamTableName, value)
		if err != nil {
			return Parameters{}, err
		}
		if table != "" {
			params.TableName = table
		}
	}

	if value, ok := raw[ParamSessionIDSource]; ok {
		sourceStr, err := coerce[string](ParamSessionIDSource, value)
		if err != nil {
			return Parameters{}, err
		}
		source, err := ParseSessionSource(sourceStr)
		if err != nil {
			return Parameters{}, err
		}
		params.SessionIDSource = source
	}

	if value, ok := raw[ParamSessionKey]; ok {
		key, err := coerce[string](ParamSessionKey, value)
		if err != nil {
			return Parameters{}, err
		}
		if key != "" {
			params.SessionKey = key
		}
	}

	if value, ok := raw[ParamContextWindowLength]; ok {
		length, err := coerce[int](ParamContextWindowLength, value)
		if err != nil {
			return Parameters{}, err
		}
		if length <= 0 {
			return Parameters{}, ErrInvalidWindowLength
		}
		params.ContextWindowLength = length
	}

	if value, ok := raw[ParamSupportToolCalls]; ok {
		enabled, err := coerce[bool](ParamSupportToolCalls, value)
		if err != nil {
			return Parameters{}, err
		}
		params.SupportToolCalls = enabled
	}

	return params, nil
}

// coerce converts a raw parameter value to T. Native values of the right
// type pass through; strings go through parse.ParseStringAs; JSON numbers
// (float64) are accepted for int targets when they are whole.
func coerce[T any](key string, value any) (T, error) {
	var zero T

	if typed, ok := value.(T); ok {
		return typed, nil
	}

	// JSON-decoded parameter maps deliver numbers as float64.
	if number, ok := value.(float64); ok {
		if _, wantInt := any(zero).(int); wantInt {
			if number != float64(int(number)) {
				return zero, fmt.Errorf("node: parameter %s: %v is not a whole number", key, number)
			}
			return any(int(number)).(T), nil
		}
	}

	if text, ok := value.(string); ok {
		parsed, err := parse.ParseStringAs[T](text)
		if err != nil {
			return zero, fmt.Errorf("node: parameter %s: %w", key, err)
		}
		return parsed, nil
	}

	return zero, fmt.Errorf("node: parameter %s: unsupported value type %T", key, value)
}
