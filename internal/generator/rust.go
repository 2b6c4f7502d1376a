package generator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/models"
)

const (
	rustAny      = "Box<dyn std::any::Any>"
	rustOptional = "Option<" + rustAny + ">"
	rustEmptyVec = "Vec<" + rustAny + ">"
	rustEmptyMap = "std::collections::HashMap<String, " + rustAny + ">"
)

var rustReservedWords = map[string]struct{}{
	"abstract": {}, "as": {}, "async": {}, "await": {}, "become": {}, "box": {},
	"break": {}, "const": {}, "continue": {}, "crate": {}, "do": {}, "dyn": {},
	"else": {}, "enum": {}, "extern": {}, "false": {}, "final": {}, "fn": {},
	"for": {}, "if": {}, "impl": {}, "in": {}, "let": {}, "loop": {},
	"macro": {}, "match": {}, "mod": {}, "move": {}, "mut": {}, "override": {},
	"priv": {}, "pub": {}, "ref": {}, "return": {}, "Self": {}, "self": {},
	"static": {}, "struct": {}, "super": {}, "trait": {}, "true": {}, "try": {},
	"type": {}, "typeof": {}, "unsafe": {}, "unsized": {}, "use": {}, "virtual": {},
	"where": {}, "while": {}, "yield": {},
}

// RustOptions configures the Rust target.
type RustOptions struct {
	// InferNumbers switches integers and floats from the fixed i64/f64 to the
	// configured widths below.
	InferNumbers    bool
	IntegerBitSize  int
	Unsigned        bool
	FloatBitSize    int
	Derives         []string
	SnakeCaseFields bool
}

// DefaultRustOptions returns options that render the fixed-width primitives.
func DefaultRustOptions() RustOptions {
	return RustOptions{IntegerBitSize: 32, FloatBitSize: 64}
}

func (o RustOptions) integerBits() int {
	if validIntegerBits(o.IntegerBitSize) {
		return o.IntegerBitSize
	}
	return 32
}

func (o RustOptions) floatBits() int {
	if validFloatBits(o.FloatBitSize) {
		return o.FloatBitSize
	}
	return 64
}

// RustGenerator emits structs plus tagged enums in place of unions, since
// Rust has no anonymous union type.
type RustGenerator struct {
	opts RustOptions
}

// NewRustGenerator returns a Rust emitter.
func NewRustGenerator(opts RustOptions) *RustGenerator {
	return &RustGenerator{opts: opts}
}

func (g *RustGenerator) Language() Language    { return Rust }
func (g *RustGenerator) FileExtension() string { return "rs" }
func (g *RustGenerator) CommentPrefix() string { return "//" }

// Generate renders structs and enums in discovery order followed by the root
// struct or a type alias for the root type.
func (g *RustGenerator) Generate(tok *models.Token) (string, error) {
	tables := NewTables()
	result, err := g.ConvertToken(tok, tables)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	isClass := false
	for _, decl := range tables.Declarations() {
		keyword := "struct"
		if decl.Kind == DeclEnum {
			keyword = "enum"
		}
		out.WriteString(g.deriveLine())
		if decl.Name == result {
			fmt.Fprintf(&out, "%s %s {\n%s\n}\n", keyword, RootName, decl.Body)
			isClass = true
			continue
		}
		fmt.Fprintf(&out, "%s %s {\n%s\n}\n\n", keyword, decl.Name, decl.Body)
	}

	if !isClass {
		out.WriteString("type " + RootName + " = " + result + ";\n")
	}
	return out.String(), nil
}

func (g *RustGenerator) deriveLine() string {
	if len(g.opts.Derives) == 0 {
		return ""
	}
	return "#[derive(" + strings.Join(g.opts.Derives, ", ") + ")]\n"
}

// ConvertToken renders the Rust type of tok.
func (g *RustGenerator) ConvertToken(tok *models.Token, tables *Tables) (string, error) {
	switch tok.Type {
	case models.TypeString:
		return "String", nil
	case models.TypeInteger:
		if g.opts.InferNumbers {
			return integerPrefix(g.opts.Unsigned) + strconv.Itoa(g.opts.integerBits()), nil
		}
		return "i64", nil
	case models.TypeFloat:
		if g.opts.InferNumbers {
			return "f" + strconv.Itoa(g.opts.floatBits()), nil
		}
		return "f64", nil
	case models.TypeBoolean:
		return "bool", nil
	case models.TypeNull:
		return rustOptional, nil
	case models.TypeArray:
		return g.convertArray(tok, tables)
	case models.TypeMap:
		return g.convertMap(tok, tables)
	default:
		return rustAny, nil
	}
}

func (g *RustGenerator) convertArray(tok *models.Token, tables *Tables) (string, error) {
	if len(tok.Children) == 0 {
		return rustEmptyVec, nil
	}

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

	var elem string
	switch set.len() {
	case 0:
		return "Vec<" + rustOptional + ">", nil
	case 1:
		elem = set.items[0]
	default:
		// arms are sorted so equal variant sets share one SubEnum
		elem = tables.Enum(enumBody(set.sorted()))
	}

	if optional {
		return "Vec<Option<" + elem + ">>", nil
	}
	return "Vec<" + elem + ">", nil
}

func enumBody(arms []string) string {
	lines := make([]string, len(arms))
	for i, arm := range arms {
		lines[i] = fmt.Sprintf("%sKey%d(%s),", indent, i+1, arm)
	}
	return strings.Join(lines, "\n")
}

type rustField struct {
	decl string
	attr string
}

func (g *RustGenerator) convertMap(tok *models.Token, tables *Tables) (string, error) {
	if len(tok.Children) == 0 {
		return rustEmptyMap, nil
	}

	// keys whose snake_case forms coincide keep their JSON spelling
	renamed := make(map[string]int, len(tok.Children))
	if g.opts.SnakeCaseFields {
		for _, child := range tok.Children {
			renamed[snakeName(child.Key)]++
		}
	}

	fields := make(map[string]rustField, len(tok.Children))
	for _, child := range tok.Children {
		if child.Key == "" {
			return "", errors.NewMissingKey(string(Rust))
		}
		typ, err := g.ConvertToken(child, tables)
		if err != nil {
			return "", err
		}

		ident, attr := g.fieldIdent(child.Key, renamed[snakeName(child.Key)] > 1)
		decl := ident + ": " + typ + ","
		fields[decl] = rustField{decl: decl, attr: attr}
	}

	decls := make([]string, 0, len(fields))
	for d := range fields {
		decls = append(decls, d)
	}
	sort.Strings(decls)

	lines := make([]string, 0, len(decls))
	for _, d := range decls {
		if f := fields[d]; f.attr != "" {
			lines = append(lines, f.attr)
		}
		lines = append(lines, d)
	}
	return tables.Struct(indent + strings.Join(lines, "\n"+indent)), nil
}

// snakeName is the identifier a key renames to, or the key itself.
func snakeName(key string) string {
	if snake := strcase.ToSnake(key); snake != "" {
		return snake
	}
	return key
}

// fieldIdent returns the Rust identifier for a JSON key and, when the two
// differ, the serde attribute that maps one to the other. A colliding key is
// never renamed.
func (g *RustGenerator) fieldIdent(key string, collides bool) (string, string) {
	ident := key
	attr := ""
	if g.opts.SnakeCaseFields && !collides {
		if snake := snakeName(key); snake != key {
			ident = snake
			attr = "#[serde(rename = " + strconv.Quote(key) + ")]"
		}
	}
	if _, reserved := rustReservedWords[ident]; reserved {
		ident = "r#" + ident
	}
	return ident, attr
}
