// Package schema converts JSON Schema documents into Token trees, so a schema
// can be rendered by the same emitters as a sample document.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/models"
	"github.com/mcncl/json2struct/internal/tokenizer"
)

const (
	defsPrefix        = "#/$defs/"
	definitionsPrefix = "#/definitions/"
)

// ParseFile reads and parses a JSON Schema from a file
func ParseFile(path string) (*jsonschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(fmt.Sprintf("schema file '%s' not found", path), errors.ErrFileNotFound)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to read schema file '%s'", path), err)
	}
	return ParseBytes(data)
}

// ParseString parses JSON Schema from a string
func ParseString(s string) (*jsonschema.Schema, error) {
	return ParseBytes([]byte(s))
}

// ParseBytes parses a JSON Schema document. Draft-04 style documents are
// accepted: "definitions" is folded into "$defs", type lists become anyOf
// branches and tuple-form items become prefixItems.
func ParseBytes(data []byte) (*jsonschema.Schema, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.NewParsingError("schema is empty", errors.ErrEmptyInput)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewParsingError("failed to parse JSON Schema", errors.Wrap(errors.ErrInvalidJSON, err.Error()))
	}

	normalized, err := json.Marshal(normalize(raw))
	if err != nil {
		return nil, errors.NewParsingError("failed to normalize JSON Schema", err)
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(normalized, &s); err != nil {
		return nil, errors.NewParsingError("failed to parse JSON Schema", err)
	}
	return &s, nil
}

// normalize rewrites one schema node in place.
func normalize(node interface{}) interface{} {
	obj, ok := node.(map[string]interface{})
	if !ok {
		return node
	}

	if defs, ok := obj["definitions"].(map[string]interface{}); ok {
		merged, _ := obj["$defs"].(map[string]interface{})
		if merged == nil {
			merged = make(map[string]interface{}, len(defs))
		}
		for name, def := range defs {
			if _, exists := merged[name]; !exists {
				merged[name] = def
			}
		}
		obj["$defs"] = merged
		delete(obj, "definitions")
	}

	if tuple, ok := obj["items"].([]interface{}); ok {
		obj["prefixItems"] = tuple
		delete(obj, "items")
	}

	for _, keyword := range []string{"$defs", "properties", "patternProperties", "dependentSchemas"} {
		if m, ok := obj[keyword].(map[string]interface{}); ok {
			for name, sub := range m {
				m[name] = normalize(sub)
			}
		}
	}
	for _, keyword := range []string{"items", "additionalProperties", "not", "if", "then", "else", "contains", "propertyNames"} {
		if sub, ok := obj[keyword]; ok {
			obj[keyword] = normalize(sub)
		}
	}
	for _, keyword := range []string{"allOf", "anyOf", "oneOf", "prefixItems"} {
		if list, ok := obj[keyword].([]interface{}); ok {
			for i, sub := range list {
				list[i] = normalize(sub)
			}
		}
	}

	if types, ok := obj["type"].([]interface{}); ok {
		return splitTypes(obj, types)
	}
	return obj
}

// splitTypes turns {"type": [a, b], ...} into {"anyOf": [{"type": a, ...}, {"type": b, ...}]}.
// Definitions stay on the outer node so $ref lookups keep working.
func splitTypes(obj map[string]interface{}, types []interface{}) interface{} {
	if len(types) == 1 {
		obj["type"] = types[0]
		return obj
	}

	outer := map[string]interface{}{}
	for _, keep := range []string{"$defs", "$schema", "$id", "title", "description"} {
		if v, ok := obj[keep]; ok {
			outer[keep] = v
		}
	}

	branches := make([]interface{}, 0, len(types))
	for _, t := range types {
		branch := make(map[string]interface{}, len(obj))
		for k, v := range obj {
			switch k {
			case "$defs", "$schema", "$id", "anyOf", "oneOf":
				continue
			}
			branch[k] = v
		}
		branch["type"] = t
		branches = append(branches, branch)
	}
	outer["anyOf"] = branches
	return outer
}

// Converter converts one JSON Schema document into a Token tree
type Converter struct {
	schema    *jsonschema.Schema
	resolving map[string]bool
}

// NewConverter creates a new schema converter
func NewConverter(s *jsonschema.Schema) *Converter {
	return &Converter{
		schema:    s,
		resolving: make(map[string]bool),
	}
}

// Convert returns the Token for the document root. A reference cycle yields
// an unknown-type token at the point where the cycle closes.
func (c *Converter) Convert() (*models.Token, error) {
	tok, err := c.convert(c.schema, "", false)
	if err != nil {
		return nil, errors.NewAnalysisError("failed to convert schema", err)
	}
	return tok, nil
}

// ToToken is shorthand for NewConverter(s).Convert().
func ToToken(s *jsonschema.Schema) (*models.Token, error) {
	return NewConverter(s).Convert()
}

func (c *Converter) convert(s *jsonschema.Schema, key string, keyed bool) (*models.Token, error) {
	tok := &models.Token{Key: key, Keyed: keyed, Type: models.TypeUnknown}
	if s == nil {
		return tok, nil
	}

	if s.Ref != "" {
		return c.convertRef(s.Ref, key, keyed)
	}

	if len(s.AllOf) > 0 {
		merged, err := c.mergeAllOf(s)
		if err != nil {
			return nil, err
		}
		return c.convertObject(merged, tok)
	}

	switch schemaType(s) {
	case "object":
		return c.convertObject(s, tok)
	case "array":
		return c.convertArray(s, tok)
	case "string":
		tok.Type = models.TypeString
	case "integer":
		tok.Type = models.TypeInteger
	case "number":
		tok.Type = models.TypeFloat
	case "boolean":
		tok.Type = models.TypeBoolean
	case "null":
		tok.Type = models.TypeNull
	case "":
		branches := append(append([]*jsonschema.Schema{}, s.AnyOf...), s.OneOf...)
		if branch := firstNonNull(branches); branch != nil {
			return c.convert(branch, key, keyed)
		}
		if len(branches) > 0 {
			tok.Type = models.TypeNull
			return tok, nil
		}
		if value, ok := literal(s); ok {
			tok.Type = tokenizer.Tokenize(value).Type
			if tok.Type.IsComposite() {
				tok.Type = models.TypeUnknown
			}
		}
	}
	return tok, nil
}

// schemaType returns the declared type, or the one implied by the keywords
// present when no type is declared.
func schemaType(s *jsonschema.Schema) string {
	if s.Type != "" {
		return s.Type
	}
	switch {
	case s.Properties != nil && s.Properties.Len() > 0, s.AdditionalProperties != nil:
		return "object"
	case s.Items != nil, len(s.PrefixItems) > 0:
		return "array"
	}
	return ""
}

// literal returns the const value, or the first enum value.
func literal(s *jsonschema.Schema) (interface{}, bool) {
	if s.Const != nil {
		return s.Const, true
	}
	if len(s.Enum) > 0 {
		return s.Enum[0], true
	}
	return nil, false
}

func firstNonNull(branches []*jsonschema.Schema) *jsonschema.Schema {
	for _, b := range branches {
		if b != nil && b.Type != "null" {
			return b
		}
	}
	return nil
}

func (c *Converter) convertObject(s *jsonschema.Schema, tok *models.Token) (*models.Token, error) {
	tok.Type = models.TypeMap
	tok.Children = make([]*models.Token, 0)
	if s.Properties == nil {
		return tok, nil
	}

	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		child, err := c.convert(pair.Value, pair.Key, true)
		if err != nil {
			return nil, errors.Wrapf(err, "property %q", pair.Key)
		}
		tok.Children = append(tok.Children, child)
	}
	tokenizer.SortTokens(tok.Children)
	return tok, nil
}

// convertArray collects the element shapes of an array schema. An anyOf or
// oneOf on items contributes one child per branch.
func (c *Converter) convertArray(s *jsonschema.Schema, tok *models.Token) (*models.Token, error) {
	tok.Type = models.TypeArray
	tok.Children = make([]*models.Token, 0)

	elems := append([]*jsonschema.Schema{}, s.PrefixItems...)
	if s.Items != nil {
		if s.Items.Ref == "" && len(s.Items.AnyOf)+len(s.Items.OneOf) > 0 {
			elems = append(elems, s.Items.AnyOf...)
			elems = append(elems, s.Items.OneOf...)
		} else {
			elems = append(elems, s.Items)
		}
	}

	for i, elem := range elems {
		child, err := c.convert(elem, "", false)
		if err != nil {
			return nil, errors.Wrapf(err, "items[%d]", i)
		}
		tok.Children = append(tok.Children, child)
	}
	tok.Children = tokenizer.Unique(tok.Children)
	tokenizer.SortTokens(tok.Children)
	return tok, nil
}

func (c *Converter) convertRef(ref, key string, keyed bool) (*models.Token, error) {
	def, err := c.lookup(ref)
	if err != nil {
		return nil, err
	}
	if c.resolving[ref] {
		return &models.Token{Key: key, Keyed: keyed, Type: models.TypeUnknown}, nil
	}

	c.resolving[ref] = true
	defer delete(c.resolving, ref)
	return c.convert(def, key, keyed)
}

// lookup resolves a local reference against the root definitions.
func (c *Converter) lookup(ref string) (*jsonschema.Schema, error) {
	var name string
	switch {
	case strings.HasPrefix(ref, defsPrefix):
		name = strings.TrimPrefix(ref, defsPrefix)
	case strings.HasPrefix(ref, definitionsPrefix):
		name = strings.TrimPrefix(ref, definitionsPrefix)
	case ref == "#":
		return c.schema, nil
	default:
		return nil, errors.Newf("external $ref not supported: %s", ref)
	}

	def, ok := c.schema.Definitions[name]
	if !ok {
		return nil, errors.Newf("unresolved $ref: %s", ref)
	}
	return def, nil
}

// mergeAllOf folds the properties of every allOf branch, and of s itself,
// into one object schema. Later branches win on conflicting names.
func (c *Converter) mergeAllOf(s *jsonschema.Schema) (*jsonschema.Schema, error) {
	merged := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties()}

	branches := append([]*jsonschema.Schema{}, s.AllOf...)
	branches = append(branches, s)
	for _, branch := range branches {
		resolved := branch
		if branch.Ref != "" {
			def, err := c.lookup(branch.Ref)
			if err != nil {
				return nil, err
			}
			resolved = def
		}
		if resolved.Properties == nil {
			continue
		}
		for pair := resolved.Properties.Oldest(); pair != nil; pair = pair.Next() {
			merged.Properties.Set(pair.Key, pair.Value)
		}
	}
	return merged, nil
}
