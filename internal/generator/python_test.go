package generator

import (
	"testing"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPython_ConvertToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		imports  []string
	}{
		{"string", `"mads"`, "str", []string{}},
		{"integer", `42`, "int", []string{}},
		{"float", `42.42`, "float", []string{}},
		{"null", `null`, "None", []string{}},
		{"empty array", `[]`, "List[Any]", []string{"Any", "List"}},
		{"nested arrays", `[[[1.2]]]`, "List[List[List[float]]]", []string{"List"}},
		{"nested empty object", `[[[{}]]]`, "List[List[List[Dict[Any, Any]]]]", []string{"Any", "Dict", "List"}},
		{"union", `["mads", 1, "mhouge.dk", 2, 3]`, "List[Union[int, str]]", []string{"List", "Union"}},
		{"null only", `[null]`, "List[Any]", []string{"Any", "List"}},
		{"single type with null", `[1, null]`, "List[Optional[int]]", []string{"List", "Optional"}},
		{"union with null", `[1, "mhouge.dk", null]`, "List[Optional[Union[int, str]]]", []string{"List", "Optional", "Union"}},
		{"array of records", `[{"key": "mads"}, {"key": "was"}]`, "List[SubStruct1]", []string{"List", "TypedDict"}},
		{
			"mixed records",
			`[{"key": 1.23}, {"key": "mads"}, {"key": 1}]`,
			"List[Union[SubStruct1, SubStruct2, SubStruct3]]",
			[]string{"List", "TypedDict", "Union"},
		},
	}

	gen := NewPythonGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := NewTables()
			out, err := gen.ConvertToken(tokenOf(t, tt.input), tables)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
			assert.Equal(t, tt.imports, tables.Imports())
		})
	}
}

func TestPython_Generate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "primitive alias",
			input:    `"mhouge.dk"`,
			expected: "from typing import TypeAlias\n\n\nGeneratedStruct: TypeAlias = str\n",
		},
		{
			name:     "mixed array",
			input:    `[1, "mhouge.dk"]`,
			expected: "from typing import List, TypeAlias, Union\n\n\nGeneratedStruct: TypeAlias = List[Union[int, str]]\n",
		},
		{
			name:  "array of records",
			input: `[{"key": "mads"}, {"key": "was"}, {"key": "here"}]`,
			expected: `from typing import List, TypeAlias, TypedDict


class SubStruct1(TypedDict):
    key: str


GeneratedStruct: TypeAlias = List[SubStruct1]
`,
		},
		{
			name:  "root record",
			input: `{"stringKey": "value", "numberKey": 1, "nullKey": null, "trueKey": true, "falseKey": false}`,
			expected: `from typing import TypedDict


class GeneratedStruct(TypedDict):
    falseKey: bool
    nullKey: None
    numberKey: int
    stringKey: str
    trueKey: bool
`,
		},
		{
			name:  "nested records",
			input: `{"a": {"b": {"key": "value"}}}`,
			expected: `from typing import TypedDict


class SubStruct1(TypedDict):
    key: str


class SubStruct2(TypedDict):
    b: SubStruct1


class GeneratedStruct(TypedDict):
    a: SubStruct2
`,
		},
		{
			name:  "shared shape declared once",
			input: `{"x": {"k": 1}, "y": {"k": 2}}`,
			expected: `from typing import TypedDict


class SubStruct1(TypedDict):
    k: int


class GeneratedStruct(TypedDict):
    x: SubStruct1
    y: SubStruct1
`,
		},
		{
			name:     "record with array",
			input:    `{"arr": [1.23]}`,
			expected: "from typing import List, TypedDict\n\n\nclass GeneratedStruct(TypedDict):\n    arr: List[float]\n",
		},
	}

	gen := NewPythonGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := gen.Generate(tokenOf(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestPython_KeyOrderIrrelevant(t *testing.T) {
	gen := NewPythonGenerator()

	a, err := gen.Generate(tokenOf(t, `{"a": "a", "b": "b", "c": "c"}`))
	require.NoError(t, err)
	b, err := gen.Generate(tokenOf(t, `{"c": "c", "b": "b", "a": "a"}`))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPython_EmptyKey(t *testing.T) {
	out, err := NewPythonGenerator().Generate(tokenOf(t, `{"": 1}`))
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, errors.Is(err, errors.ErrMissingKey))
}
