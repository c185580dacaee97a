package memory

import "github.com/leofalp/chatmemory/chat"

// OutputKind identifies the shape of an output value handed to SaveContext.
type OutputKind int

const (
	// OutputText is a plain string.
	OutputText OutputKind = iota

	// OutputStructuredMessage is a single value that decodes to a chat
	// message, possibly carrying tool-call metadata.
	OutputStructuredMessage

	// OutputMessageSequence is a non-empty ordered sequence in which every
	// element decodes to a chat message.
	OutputMessageSequence

	// OutputOpaque is anything else. Opaque values are persisted as
	// serialized text rather than rejected.
	OutputOpaque
)

// String returns the label used for the kind in logs and span attributes.
func (k OutputKind) String() string {
	switch k {
	case OutputText:
		return "text"
	case OutputStructuredMessage:
		return "message"
	case OutputMessageSequence:
		return "sequence"
	case OutputOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Output is the classification result for one output value. Kind indicates
// which of the remaining fields is meaningful.
type Output struct {
	Kind     OutputKind
	Text     string         // OutputText
	Message  chat.Message   // OutputStructuredMessage
	Sequence []chat.Message // OutputMessageSequence
	Value    any            // OutputOpaque: the original value
}

// Classify sorts a host-supplied output value into one of the four kinds.
// Strings are text; single values that decode to a chat message (see
// [chat.Decode]) are structured messages; non-empty sequences whose every
// element decodes are message sequences, order preserved; everything else is
// opaque. An empty sequence carries no recognizable message and classifies
// as opaque.
func Classify(value any) Output {
	if text, ok := value.(string); ok {
		return Output{Kind: OutputText, Text: text}
	}

	if message, ok := chat.Decode(value); ok {
		return Output{Kind: OutputStructuredMessage, Message: message}
	}

	if sequence, ok := decodeSequence(value); ok {
		return Output{Kind: OutputMessageSequence, Sequence: sequence}
	}

	return Output{Kind: OutputOpaque, Value: value}
}

// decodeSequence decodes the slice shapes whose elements can all be read as
// chat messages.
func decodeSequence(value any) ([]chat.Message, bool) {
	var elements []any

	switch seq := value.(type) {
	case []chat.Message:
		if len(seq) == 0 {
			return nil, false
		}
		out := make([]chat.Message, len(seq))
		copy(out, seq)
		return out, true
	case []*chat.Message:
		elements = make([]any, len(seq))
		for i, message := range seq {
			elements[i] = message
		}
	case []map[string]any:
		elements = make([]any, len(seq))
		for i, element := range seq {
			elements[i] = element
		}
	case []any:
		elements = seq
	default:
		return nil, false
	}

	if len(elements) == 0 {
		return nil, false
	}

	out := make([]chat.Message, 0, len(elements))
	for _, element := range elements {
		message, ok := chat.Decode(element)
		if !ok {
			return nil, false
		}
		out = append(out, message)
	}
	return out, true
}
