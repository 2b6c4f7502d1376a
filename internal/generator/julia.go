package generator

import (
	"strings"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/models"
)

// JuliaGenerator emits plain struct blocks. Nothing stays a regular union arm
// since Union{T,Nothing} is how Julia spells an optional value.
type JuliaGenerator struct{}

// NewJuliaGenerator returns a Julia emitter.
func NewJuliaGenerator() *JuliaGenerator {
	return &JuliaGenerator{}
}

func (g *JuliaGenerator) Language() Language    { return Julia }
func (g *JuliaGenerator) FileExtension() string { return "jl" }
func (g *JuliaGenerator) CommentPrefix() string { return "#" }

// Generate renders every synthesized struct followed by the root struct or a
// const alias for the root type.
func (g *JuliaGenerator) Generate(tok *models.Token) (string, error) {
	tables := NewTables()
	result, err := g.ConvertToken(tok, tables)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	isClass := false
	for _, decl := range tables.Declarations() {
		if decl.Name == result {
			out.WriteString("struct " + RootName + "\n" + decl.Body + "\nend\n")
			isClass = true
			continue
		}
		out.WriteString("struct " + decl.Name + "\n" + decl.Body + "\nend\n\n")
	}

	if !isClass {
		out.WriteString("const " + RootName + " = " + result + "\n")
	}
	return out.String(), nil
}

// ConvertToken renders the Julia type of tok.
func (g *JuliaGenerator) ConvertToken(tok *models.Token, tables *Tables) (string, error) {
	switch tok.Type {
	case models.TypeString:
		return "String", nil
	case models.TypeInteger:
		return "Int64", nil
	case models.TypeFloat:
		return "Float64", nil
	case models.TypeBoolean:
		return "Bool", nil
	case models.TypeNull:
		return "Nothing", nil
	case models.TypeArray:
		return g.convertArray(tok, tables)
	case models.TypeMap:
		return g.convertMap(tok, tables)
	default:
		return "Any", nil
	}
}

func (g *JuliaGenerator) convertArray(tok *models.Token, tables *Tables) (string, error) {
	if len(tok.Children) == 0 {
		return "Array{Any}", nil
	}

	set := newSortedSet()
	for _, child := range tok.Children {
		typ, err := g.ConvertToken(child, tables)
		if err != nil {
			return "", err
		}
		set.add(typ)
	}

	if set.len() == 1 {
		// an array of only nulls most likely holds values we never saw
		if set.items[0] == "Nothing" {
			return "Array{Any}", nil
		}
		return "Array{" + set.items[0] + "}", nil
	}
	return "Array{Union{" + strings.Join(set.sorted(), ",") + "}}", nil
}

func (g *JuliaGenerator) convertMap(tok *models.Token, tables *Tables) (string, error) {
	if len(tok.Children) == 0 {
		return "Dict{Any,Any}", nil
	}

	members := newSortedSet()
	for _, child := range tok.Children {
		if child.Key == "" {
			return "", errors.NewMissingKey(string(Julia))
		}
		typ, err := g.ConvertToken(child, tables)
		if err != nil {
			return "", err
		}
		members.add(child.Key + "::" + typ)
	}
	return tables.Struct(memberBody(members)), nil
}
