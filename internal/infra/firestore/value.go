// Package firestore reads per-user device-token collections over the
// Firestore REST API.
package firestore

import (
	"encoding/json"
	"strconv"
	"time"
)

// Value is the subset of Firestore's REST value encoding this service
// understands. A timestamp-like value arrives in one of two shapes: a
// structured RFC 3339 string (timestampValue) or a decimal string carrying
// milliseconds since epoch (integerValue is a string on the wire). Map values
// nest further fields. Anything else decodes to the zero Value.
type Value struct {
	TimestampValue string
	IntegerValue   string
	MapValue       *MapValue
}

// MapValue is a nested Firestore map.
type MapValue struct {
	Fields map[string]Value `json:"fields,omitempty"`
}

// UnmarshalJSON decodes a value leniently. A field of an unexpected JSON type
// (an integerValue arriving as a number, a timestampValue as an object) decays
// to the zero field instead of failing the surrounding document decode, so one
// odd entry can never take down the whole lookup.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw struct {
		TimestampValue json.RawMessage `json:"timestampValue"`
		IntegerValue   json.RawMessage `json:"integerValue"`
		MapValue       *MapValue       `json:"mapValue"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*v = Value{}

		return nil
	}

	v.TimestampValue = jsonString(raw.TimestampValue)
	v.IntegerValue = jsonString(raw.IntegerValue)
	v.MapValue = raw.MapValue

	return nil
}

// jsonString returns the decoded string, or "" when the raw value is absent
// or not a JSON string.
func jsonString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}

	return s
}

// Millis converts a timestamp-like value to milliseconds since epoch. The
// conversion is total: an absent, foreign-typed, or unparseable value yields
// 0 ("very old"), never an error.
func (v Value) Millis() int64 {
	if v.TimestampValue != "" {
		t, err := time.Parse(time.RFC3339Nano, v.TimestampValue)
		if err != nil {
			return 0
		}

		return t.UnixMilli()
	}

	if v.IntegerValue != "" {
		n, err := strconv.ParseInt(v.IntegerValue, 10, 64)
		if err != nil {
			return 0
		}

		return n
	}

	return 0
}

// mapFields returns the nested fields of a map value, or nil for any other shape.
func (v Value) mapFields() map[string]Value {
	if v.MapValue == nil {
		return nil
	}

	return v.MapValue.Fields
}
