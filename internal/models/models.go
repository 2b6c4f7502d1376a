package models

import (
	"strconv"
	"strings"
)

// JSONValue is a generic type to represent any JSON value.
// This can be a string, number, boolean, null, object, or array.
type JSONValue = interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// IntermediateRepresentation holds a decoded input document before tokenizing.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool
	Source      string // file path, or "stdin"
}

// TokenType is the structural type of a Token.
type TokenType string

const (
	TypeString  TokenType = "string"
	TypeInteger TokenType = "integer"
	TypeFloat   TokenType = "float"
	TypeBoolean TokenType = "boolean"
	TypeNull    TokenType = "null"
	TypeUnknown TokenType = "unknown"
	TypeArray   TokenType = "array"
	TypeMap     TokenType = "map"
)

// IsComposite reports whether tokens of this type carry children.
func (t TokenType) IsComposite() bool {
	return t == TypeArray || t == TypeMap
}

// Token is the structural description of one JSON value.
//
// Keyed is set only on direct children of a map token; Key may legitimately be
// empty for a JSON property named "". Children is nil for primitive types.
// A Token tree is never mutated after the tokenizer returns it.
type Token struct {
	Key      string
	Keyed    bool
	Type     TokenType
	Children []*Token
}

// Fingerprint returns a canonical encoding of the token subtree. Two tokens
// that are structurally equal always share a fingerprint.
func (t *Token) Fingerprint() string {
	var sb strings.Builder
	t.writeFingerprint(&sb)
	return sb.String()
}

func (t *Token) writeFingerprint(sb *strings.Builder) {
	sb.WriteString(string(t.Type))
	if t.Keyed {
		sb.WriteByte('@')
		sb.WriteString(strconv.Quote(t.Key))
	}
	if !t.Type.IsComposite() {
		return
	}
	sb.WriteByte('[')
	for i, child := range t.Children {
		if i > 0 {
			sb.WriteByte(',')
		}
		child.writeFingerprint(sb)
	}
	sb.WriteByte(']')
}
