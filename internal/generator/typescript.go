package generator

import (
	"strconv"
	"strings"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/models"
)

// TypeScriptOptions overrides the placeholder types of the TypeScript target.
type TypeScriptOptions struct {
	NullType   string // rendering of null values
	ArrayType  string // element type of an empty array
	ObjectType string // value type of an empty object
}

// DefaultTypeScriptOptions returns the canonical TypeScript placeholders.
func DefaultTypeScriptOptions() TypeScriptOptions {
	return TypeScriptOptions{NullType: "null", ArrayType: "unknown", ObjectType: "unknown"}
}

// TypeScriptGenerator writes maps as inline anonymous records, so it never
// uses the sub-structure table.
type TypeScriptGenerator struct {
	opts TypeScriptOptions
}

// NewTypeScriptGenerator returns a TypeScript emitter. Empty option fields
// fall back to the defaults.
func NewTypeScriptGenerator(opts TypeScriptOptions) *TypeScriptGenerator {
	def := DefaultTypeScriptOptions()
	if opts.NullType == "" {
		opts.NullType = def.NullType
	}
	if opts.ArrayType == "" {
		opts.ArrayType = def.ArrayType
	}
	if opts.ObjectType == "" {
		opts.ObjectType = def.ObjectType
	}
	return &TypeScriptGenerator{opts: opts}
}

func (g *TypeScriptGenerator) Language() Language    { return TypeScript }
func (g *TypeScriptGenerator) FileExtension() string { return "ts" }
func (g *TypeScriptGenerator) CommentPrefix() string { return "//" }

// Generate renders `type GeneratedStruct = <T>`.
func (g *TypeScriptGenerator) Generate(tok *models.Token) (string, error) {
	typ, err := g.ConvertToken(tok, NewTables())
	if err != nil {
		return "", err
	}
	return "type " + RootName + " = " + typ, nil
}

// ConvertToken renders the TypeScript type of tok. tables is unused.
func (g *TypeScriptGenerator) ConvertToken(tok *models.Token, tables *Tables) (string, error) {
	switch tok.Type {
	case models.TypeString:
		return "string", nil
	case models.TypeInteger, models.TypeFloat:
		return "number", nil
	case models.TypeBoolean:
		return "boolean", nil
	case models.TypeNull:
		return g.opts.NullType, nil
	case models.TypeArray:
		return g.convertArray(tok, tables)
	case models.TypeMap:
		return g.convertMap(tok, tables)
	default:
		return "unknown", nil
	}
}

func (g *TypeScriptGenerator) convertArray(tok *models.Token, tables *Tables) (string, error) {
	if len(tok.Children) == 0 {
		return "Array<" + g.opts.ArrayType + ">", nil
	}

	set := newSortedSet()
	for _, child := range tok.Children {
		typ, err := g.ConvertToken(child, tables)
		if err != nil {
			return "", err
		}
		set.add(typ)
	}
	return "Array<" + strings.Join(set.sorted(), " | ") + ">", nil
}

func (g *TypeScriptGenerator) convertMap(tok *models.Token, tables *Tables) (string, error) {
	if len(tok.Children) == 0 {
		return "Record<string, " + g.opts.ObjectType + ">", nil
	}

	members := newSortedSet()
	for _, child := range tok.Children {
		// empty keys are legal property names
		if !child.Keyed {
			return "", errors.NewMissingKey(string(TypeScript))
		}
		typ, err := g.ConvertToken(child, tables)
		if err != nil {
			return "", err
		}
		members.add(strconv.Quote(child.Key) + ": " + typ)
	}
	return "{ " + strings.Join(members.sorted(), "; ") + " }", nil
}
