package parse

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/kaptinlin/jsonrepair"
)

// ParseStringAs converts a string into a value of type T. Primitive kinds
// (string, bool, ints, uints, floats) go through strconv; every other kind is
// JSON-unmarshaled, with a jsonrepair pass when the input is not valid JSON.
//
// Two quirks of host expression engines are handled transparently: a
// primitive delivered as {"type":"integer","value":5} is unwrapped before
// conversion, and an object whose fields are all wrapped that way is
// flattened before the final unmarshal attempt.
//
//	turns, err := ParseStringAs[int]("5")
//	toolCalls, err := ParseStringAs[bool]("true")
//	opts, err := ParseStringAs[map[string]any](`{table: 'histories'}`)
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch reflect.TypeFor[T]().Kind() {
	case reflect.String:
		// A JSON-looking payload may be a wrapped primitive.
		if len(content) > 0 && content[0] == '{' {
			if unwrapped, err := unwrapPrimitive(content); err == nil {
				target.SetString(unwrapped)
				return result, nil
			}
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool:
		val, err := parsePrimitive(content, strconv.ParseBool)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as bool: %w", err)
		}
		target.SetBool(val)
		return result, nil

	case reflect.Float32, reflect.Float64:
		val, err := parsePrimitive(content, func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		})
		if err != nil {
			return result, fmt.Errorf("failed to parse content as float: %w", err)
		}
		target.SetFloat(val)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := parsePrimitive(content, func(s string) (int64, error) {
			return strconv.ParseInt(s, 10, 64)
		})
		if err != nil {
			return result, fmt.Errorf("failed to parse content as int: %w", err)
		}
		target.SetInt(val)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := parsePrimitive(content, func(s string) (uint64, error) {
			return strconv.ParseUint(s, 10, 64)
		})
		if err != nil {
			return result, fmt.Errorf("failed to parse content as uint: %w", err)
		}
		target.SetUint(val)
		return result, nil

	default:
		if err := unmarshalLenient(content, &result); err != nil {
			return result, err
		}
		return result, nil
	}
}

// parsePrimitive runs parse on content, retrying once with the unwrapped
// value when content turns out to be a {"type","value"} envelope. On failure
// the original parse error is returned, not the unwrap error.
func parsePrimitive[V any](content string, parse func(string) (V, error)) (V, error) {
	val, err := parse(content)
	if err == nil {
		return val, nil
	}
	if unwrapped, unwrapErr := unwrapPrimitive(content); unwrapErr == nil {
		if retried, retryErr := parse(unwrapped); retryErr == nil {
			return retried, nil
		}
	}
	return val, err
}

// unmarshalLenient unmarshals content into out, repairing the JSON when the
// first attempt fails and flattening wrapped values as a last resort.
func unmarshalLenient(content string, out any) error {
	err := json.Unmarshal([]byte(content), out)
	if err == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", out, err, repairErr)
	}

	err = json.Unmarshal([]byte(repaired), out)
	if err == nil {
		return nil
	}

	if flattened, flattenErr := flattenWrappedValues(repaired); flattenErr == nil {
		if json.Unmarshal([]byte(flattened), out) == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (original content: %s, repaired: %s)", out, err, content, repaired)
}

// unwrapPrimitive extracts the value from a {"type": ..., "value": ...}
// envelope and returns its string form. It fails when content is not valid
// JSON or does not match the two-field envelope shape.
func unwrapPrimitive(content string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}

	if _, hasType := data["type"]; !hasType {
		return "", fmt.Errorf("not a schema-wrapped value")
	}
	value, hasValue := data["value"]
	if !hasValue || len(data) != 2 {
		return "", fmt.Errorf("not a schema-wrapped value")
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprintf("%v", v), nil
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(bytes), nil
	}
}

// flattenWrappedValues rewrites a JSON document whose values are wrapped in
// {"type","value"} envelopes into the plain document.
//
//	{"name": {"type": "string", "value": "John"}}  becomes  {"name": "John"}
func flattenWrappedValues(jsonStr string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", err
	}

	flattened, err := json.Marshal(flattenValue(data))
	if err != nil {
		return "", err
	}
	return string(flattened), nil
}

// flattenValue walks the decoded document and replaces every two-field
// {"type","value"} map with its value, recursing into maps and arrays.
func flattenValue(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if _, hasType := v["type"]; hasType {
			if value, hasValue := v["value"]; hasValue && len(v) == 2 {
				return flattenValue(value)
			}
		}
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = flattenValue(val)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = flattenValue(val)
		}
		return result

	default:
		return data
	}
}
