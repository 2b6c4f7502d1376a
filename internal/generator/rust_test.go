package generator

import (
	"testing"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRust_ConvertToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"string", `"mads"`, "String"},
		{"integer", `1`, "i64"},
		{"float", `1.2`, "f64"},
		{"boolean", `false`, "bool"},
		{"null", `null`, "Option<Box<dyn std::any::Any>>"},
		{"empty array", `[]`, "Vec<Box<dyn std::any::Any>>"},
		{"empty object", `{}`, "std::collections::HashMap<String, Box<dyn std::any::Any>>"},
		{"nested arrays", `[[[1]]]`, "Vec<Vec<Vec<i64>>>"},
		{"deduplicated", `["a", "b"]`, "Vec<String>"},
		{"null only", `[null]`, "Vec<Option<Box<dyn std::any::Any>>>"},
		{"optional element", `[1, null]`, "Vec<Option<i64>>"},
		{"variant", `["a", 1]`, "Vec<SubEnum1>"},
		{"optional variant", `["a", 1, null]`, "Vec<Option<SubEnum1>>"},
		{"array of records", `[{"key": "a"}, {"key": "b"}]`, "Vec<SubStruct1>"},
	}

	gen := NewRustGenerator(DefaultRustOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := gen.ConvertToken(tokenOf(t, tt.input), NewTables())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRust_Generate(t *testing.T) {
	tests := []struct {
		name     string
		opts     RustOptions
		input    string
		expected string
	}{
		{
			name:     "primitive alias",
			opts:     DefaultRustOptions(),
			input:    `"mads"`,
			expected: "type GeneratedStruct = String;\n",
		},
		{
			name:     "null alias",
			opts:     DefaultRustOptions(),
			input:    `null`,
			expected: "type GeneratedStruct = Option<Box<dyn std::any::Any>>;\n",
		},
		{
			name:  "reserved words are escaped",
			opts:  DefaultRustOptions(),
			input: `{"type": "a", "name": 1}`,
			expected: `struct GeneratedStruct {
    name: i64,
    r#type: String,
}
`,
		},
		{
			name:  "variant enum",
			opts:  DefaultRustOptions(),
			input: `["a", 1]`,
			expected: `enum SubEnum1 {
    Key1(String),
    Key2(i64),
}

type GeneratedStruct = Vec<SubEnum1>;
`,
		},
		{
			name:  "structs and enums interleave in discovery order",
			opts:  DefaultRustOptions(),
			input: `{"a": [{"k": 1}, "s"], "b": {"k": 1}}`,
			expected: `struct SubStruct1 {
    k: i64,
}

enum SubEnum1 {
    Key1(String),
    Key2(SubStruct1),
}

struct GeneratedStruct {
    a: Vec<SubEnum1>,
    b: SubStruct1,
}
`,
		},
		{
			name:  "configured numeric widths",
			opts:  RustOptions{InferNumbers: true, IntegerBitSize: 16, Unsigned: true, FloatBitSize: 32},
			input: `{"n": 1, "f": 1.5}`,
			expected: `struct GeneratedStruct {
    f: f32,
    n: u16,
}
`,
		},
		{
			name:     "invalid widths fall back",
			opts:     RustOptions{InferNumbers: true, IntegerBitSize: 7, FloatBitSize: 16},
			input:    `[1, 2.5]`,
			expected: "enum SubEnum1 {\n    Key1(f64),\n    Key2(i32),\n}\n\ntype GeneratedStruct = Vec<SubEnum1>;\n",
		},
		{
			name:  "derives and snake case fields",
			opts:  RustOptions{Derives: []string{"Debug", "Deserialize"}, SnakeCaseFields: true},
			input: `{"userName": "x", "id": 1, "Type": "t"}`,
			expected: `#[derive(Debug, Deserialize)]
struct GeneratedStruct {
    id: i64,
    #[serde(rename = "Type")]
    r#type: String,
    #[serde(rename = "userName")]
    user_name: String,
}
`,
		},
		{
			name:  "snake case collision keeps json keys",
			opts:  RustOptions{SnakeCaseFields: true},
			input: `{"userName": "a", "user_name": 1, "firstName": "f"}`,
			expected: `struct GeneratedStruct {
    #[serde(rename = "firstName")]
    first_name: String,
    userName: String,
    user_name: i64,
}
`,
		},
		{
			name:  "snake case collision with equal types",
			opts:  RustOptions{SnakeCaseFields: true},
			input: `{"user-name": "a", "user_name": "b"}`,
			expected: `struct GeneratedStruct {
    user-name: String,
    user_name: String,
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewRustGenerator(tt.opts).Generate(tokenOf(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRust_SharedTablesAcrossCalls(t *testing.T) {
	gen := NewRustGenerator(DefaultRustOptions())
	tables := NewTables()

	first, err := gen.ConvertToken(tokenOf(t, `{"k": 1}`), tables)
	require.NoError(t, err)
	second, err := gen.ConvertToken(tokenOf(t, `[{"k": 2}]`), tables)
	require.NoError(t, err)

	assert.Equal(t, "SubStruct1", first)
	assert.Equal(t, "Vec<SubStruct1>", second)
	assert.Len(t, tables.Declarations(), 1)
}

func TestRust_EmptyKey(t *testing.T) {
	_, err := NewRustGenerator(DefaultRustOptions()).Generate(tokenOf(t, `{"": 1}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingKey))
}
