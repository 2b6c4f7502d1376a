package generator

import (
	"testing"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJulia_ConvertToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"string", `"mads"`, "String"},
		{"integer", `3`, "Int64"},
		{"float", `3.21`, "Float64"},
		{"boolean", `true`, "Bool"},
		{"null", `null`, "Nothing"},
		{"empty array", `[]`, "Array{Any}"},
		{"nested arrays", `[[["mhouge.dk"]]]`, "Array{Array{Array{String}}}"},
		{"nested empty object", `[[[{}]]]`, "Array{Array{Array{Dict{Any,Any}}}}"},
		{"deduplicated", `[1, 2, 3]`, "Array{Int64}"},
		{"union", `["mads", 1, "mhouge.dk", 2, 3]`, "Array{Union{Int64,String}}"},
		{"null only", `[null, null]`, "Array{Any}"},
		{"null stays a union arm", `[1, null]`, "Array{Union{Int64,Nothing}}"},
		{"empty object", `{}`, "Dict{Any,Any}"},
		{"mixed records", `[{"key": 1.23}, {"key": "mads"}, {"key": 1}]`, "Array{Union{SubStruct1,SubStruct2,SubStruct3}}"},
	}

	gen := NewJuliaGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := gen.ConvertToken(tokenOf(t, tt.input), NewTables())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestJulia_Generate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "primitive alias",
			input:    `"mads"`,
			expected: "const GeneratedStruct = String\n",
		},
		{
			name:  "array of records",
			input: `[{"key": "mads"}, {"key": "was"}, {"key": "here"}]`,
			expected: `struct SubStruct1
    key::String
end

const GeneratedStruct = Array{SubStruct1}
`,
		},
		{
			name:  "mixed records",
			input: `[{"key": 1.23}, {"key": "mads"}, {"key": 1}]`,
			expected: `struct SubStruct1
    key::Float64
end

struct SubStruct2
    key::String
end

struct SubStruct3
    key::Int64
end

const GeneratedStruct = Array{Union{SubStruct1,SubStruct2,SubStruct3}}
`,
		},
		{
			name:  "root record",
			input: `{"stringKey": "value", "numberKey": 1, "nullKey": null, "trueKey": true, "falseKey": false}`,
			expected: `struct GeneratedStruct
    falseKey::Bool
    nullKey::Nothing
    numberKey::Int64
    stringKey::String
    trueKey::Bool
end
`,
		},
		{
			name:  "deeply nested",
			input: `{"a": {"b": {"c": {"d": {"key": "value"}}}}}`,
			expected: `struct SubStruct1
    key::String
end

struct SubStruct2
    d::SubStruct1
end

struct SubStruct3
    c::SubStruct2
end

struct SubStruct4
    b::SubStruct3
end

struct GeneratedStruct
    a::SubStruct4
end
`,
		},
	}

	gen := NewJuliaGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := gen.Generate(tokenOf(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestJulia_EmptyKey(t *testing.T) {
	_, err := NewJuliaGenerator().Generate(tokenOf(t, `{"ok": 1, "": 2}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingKey))
}
