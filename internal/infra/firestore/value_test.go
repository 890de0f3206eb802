package firestore

import (
	"encoding/json"
	"testing"
)

func TestValue_Millis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    Value
		expected int64
	}{
		{
			name:     "structured timestamp",
			value:    Value{TimestampValue: "2026-01-08T12:34:56.000Z"},
			expected: 1767875696000,
		},
		{
			name:     "structured timestamp with nanos",
			value:    Value{TimestampValue: "2026-01-08T12:34:56.123456789Z"},
			expected: 1767875696123,
		},
		{
			name:     "unparseable timestamp",
			value:    Value{TimestampValue: "not-a-date"},
			expected: 0,
		},
		{
			name:     "raw integer millis",
			value:    Value{IntegerValue: "1700000000000"},
			expected: 1700000000000,
		},
		{
			name:     "unparseable integer",
			value:    Value{IntegerValue: "12abc"},
			expected: 0,
		},
		{
			name:     "absent value",
			value:    Value{},
			expected: 0,
		},
		{
			name:     "foreign-typed value",
			value:    Value{MapValue: &MapValue{Fields: map[string]Value{"x": {}}}},
			expected: 0,
		},
		{
			// A present but malformed timestamp wins over the integer variant:
			// the structured field is checked first and converts totally to 0.
			name:     "malformed timestamp shadows integer",
			value:    Value{TimestampValue: "garbage", IntegerValue: "1700000000000"},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.value.Millis(); got != tt.expected {
				t.Fatalf("Millis() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestValue_UnmarshalJSON_ForeignTypesDecayToZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected int64
	}{
		{
			name:     "integer arriving as a JSON number",
			raw:      `{"integerValue":123}`,
			expected: 0,
		},
		{
			name:     "timestamp arriving as an object",
			raw:      `{"timestampValue":{"seconds":1700000000}}`,
			expected: 0,
		},
		{
			name:     "integer arriving as a boolean",
			raw:      `{"integerValue":true}`,
			expected: 0,
		},
		{
			name:     "value that is not an object at all",
			raw:      `"just a string"`,
			expected: 0,
		},
		{
			name:     "well-formed integer still decodes",
			raw:      `{"integerValue":"1700000000000"}`,
			expected: 1700000000000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var v Value
			if err := json.Unmarshal([]byte(tt.raw), &v); err != nil {
				t.Fatalf("Unmarshal(%s) = %v, want nil", tt.raw, err)
			}
			if got := v.Millis(); got != tt.expected {
				t.Fatalf("Millis() = %d, want %d", got, tt.expected)
			}
		})
	}
}
