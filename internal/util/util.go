// Package util contains small shared helpers.
package util

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Stringify coerces an arbitrary JSON-decoded value to its string form.
// Callers may hand us numbers, booleans, or nulls in a payload that only
// carries strings on the wire; those are stringified, never rejected.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		// JSON numbers decode as float64; format without a trailing ".0"
		// so 42 round-trips as "42".
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}

		return string(encoded)
	}
}

// StringifyMap coerces every value of a loosely typed payload map to a string.
// A nil input yields an empty, non-nil map.
func StringifyMap(data map[string]any) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = Stringify(v)
	}

	return out
}
