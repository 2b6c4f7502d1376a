package generator

import (
	"strings"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/models"
)

// PythonGenerator emits TypedDict classes and records every typing name it
// uses in the import registry.
type PythonGenerator struct{}

// NewPythonGenerator returns a Python emitter.
func NewPythonGenerator() *PythonGenerator {
	return &PythonGenerator{}
}

func (g *PythonGenerator) Language() Language    { return Python }
func (g *PythonGenerator) FileExtension() string { return "py" }
func (g *PythonGenerator) CommentPrefix() string { return "#" }

// Generate renders the typing import line, every synthesized TypedDict, and
// either the root class or a TypeAlias for the root type.
func (g *PythonGenerator) Generate(tok *models.Token) (string, error) {
	tables := NewTables()
	result, err := g.ConvertToken(tok, tables)
	if err != nil {
		return "", err
	}

	var body strings.Builder
	isClass := false
	for _, decl := range tables.Declarations() {
		if decl.Name == result {
			body.WriteString("class " + RootName + "(TypedDict):\n" + decl.Body + "\n")
			isClass = true
			continue
		}
		body.WriteString("class " + decl.Name + "(TypedDict):\n" + decl.Body + "\n\n\n")
	}

	if !isClass {
		tables.Require("TypeAlias")
		body.WriteString(RootName + ": TypeAlias = " + result + "\n")
	}

	var out strings.Builder
	if imports := tables.Imports(); len(imports) > 0 {
		out.WriteString("from typing import " + strings.Join(imports, ", ") + "\n\n\n")
	}
	out.WriteString(body.String())
	return out.String(), nil
}

// ConvertToken renders the Python type of tok.
func (g *PythonGenerator) ConvertToken(tok *models.Token, tables *Tables) (string, error) {
	switch tok.Type {
	case models.TypeString:
		return "str", nil
	case models.TypeInteger:
		return "int", nil
	case models.TypeFloat:
		return "float", nil
	case models.TypeBoolean:
		return "bool", nil
	case models.TypeNull:
		return "None", nil
	case models.TypeArray:
		return g.convertArray(tok, tables)
	case models.TypeMap:
		return g.convertMap(tok, tables)
	default:
		tables.Require("Any")
		return "Any", nil
	}
}

func (g *PythonGenerator) convertArray(tok *models.Token, tables *Tables) (string, error) {
	tables.Require("List")

	set := newSortedSet()
	optional := false
	for _, child := range tok.Children {
		if child.Type == models.TypeNull {
			optional = true
			continue
		}
		typ, err := g.ConvertToken(child, tables)
		if err != nil {
			return "", err
		}
		set.add(typ)
	}

	switch set.len() {
	case 0:
		tables.Require("Any")
		return "List[Any]", nil
	case 1:
		if optional {
			tables.Require("Optional")
			return "List[Optional[" + set.items[0] + "]]", nil
		}
		return "List[" + set.items[0] + "]", nil
	}

	tables.Require("Union")
	union := "Union[" + strings.Join(set.sorted(), ", ") + "]"
	if optional {
		tables.Require("Optional")
		return "List[Optional[" + union + "]]", nil
	}
	return "List[" + union + "]", nil
}

func (g *PythonGenerator) convertMap(tok *models.Token, tables *Tables) (string, error) {
	if len(tok.Children) == 0 {
		tables.Require("Dict", "Any")
		return "Dict[Any, Any]", nil
	}

	members := newSortedSet()
	for _, child := range tok.Children {
		if child.Key == "" {
			return "", errors.NewMissingKey(string(Python))
		}
		typ, err := g.ConvertToken(child, tables)
		if err != nil {
			return "", err
		}
		members.add(child.Key + ": " + typ)
	}

	tables.Require("TypedDict")
	return tables.Struct(memberBody(members)), nil
}
