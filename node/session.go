package node

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// SessionSource identifies where a node invocation's session id comes from.
type SessionSource string

const (
	// SessionSourceFixed uses the session key parameter verbatim.
	SessionSourceFixed SessionSource = "fromKey"

	// SessionSourceExpression evaluates the session key as a path into the
	// current item's JSON (gjson syntax, e.g. "json.sessionId").
	SessionSourceExpression SessionSource = "fromItem"

	// SessionSourceGenerated creates a fresh UUID per invocation. Useful for
	// one-shot workflows that should never share history.
	SessionSourceGenerated SessionSource = "generated"
)

// ErrSessionIDEmpty is returned when session id resolution produces an empty
// value: a blank fixed key, or an expression path missing from the item.
var ErrSessionIDEmpty = errors.New("node: session id resolved to an empty value")

// ParseSessionSource maps a raw source string to its SessionSource.
func ParseSessionSource(s string) (SessionSource, error) {
	switch SessionSource(strings.TrimSpace(s)) {
	case SessionSourceFixed:
		return SessionSourceFixed, nil
	case SessionSourceExpression:
		return SessionSourceExpression, nil
	case SessionSourceGenerated:
		return SessionSourceGenerated, nil
	default:
		return "", fmt.Errorf("node: unknown session id source %q", s)
	}
}

// NewSessionID returns a freshly generated session id.
func NewSessionID() string {
	return uuid.NewString()
}

// ResolveSessionID derives the session id for one invocation. item is the
// current workflow item's JSON document; it is only consulted for
// SessionSourceExpression.
func ResolveSessionID(params Parameters, item []byte) (string, error) {
	switch params.SessionIDSource {
	case SessionSourceFixed:
		sessionID := strings.TrimSpace(params.SessionKey)
		if sessionID == "" {
			return "", ErrSessionIDEmpty
		}
		return sessionID, nil

	case SessionSourceExpression:
		result := gjson.GetBytes(item, params.SessionKey)
		sessionID := strings.TrimSpace(result.String())
		if sessionID == "" {
			return "", fmt.Errorf("%w (path %q)", ErrSessionIDEmpty, params.SessionKey)
		}
		return sessionID, nil

	case SessionSourceGenerated:
		return NewSessionID(), nil

	default:
		return "", fmt.Errorf("node: unknown session id source %q", params.SessionIDSource)
	}
}
