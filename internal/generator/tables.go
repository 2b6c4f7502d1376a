package generator

import (
	"fmt"
	"sort"
	"strings"
)

// DeclKind distinguishes synthesized record declarations from variant types.
type DeclKind int

const (
	DeclStruct DeclKind = iota
	DeclEnum
)

// Declaration is one synthesized named type.
type Declaration struct {
	Kind DeclKind
	Name string
	Body string
}

// Tables holds the mutable state of a single conversion: the sub-structure
// table, the variant table and the import registry. A Tables value must not
// be shared between conversions.
type Tables struct {
	decls   []Declaration
	structs map[string]string
	enums   map[string]string
	imports map[string]struct{}
}

// NewTables returns empty tables.
func NewTables() *Tables {
	return &Tables{
		structs: make(map[string]string),
		enums:   make(map[string]string),
		imports: make(map[string]struct{}),
	}
}

// Struct returns the name registered for body, assigning SubStruct<N> on
// first sight.
func (t *Tables) Struct(body string) string {
	if name, ok := t.structs[body]; ok {
		return name
	}
	name := fmt.Sprintf("SubStruct%d", len(t.structs)+1)
	t.structs[body] = name
	t.decls = append(t.decls, Declaration{Kind: DeclStruct, Name: name, Body: body})
	return name
}

// Enum returns the name registered for a variant body, assigning SubEnum<N>
// on first sight.
func (t *Tables) Enum(body string) string {
	if name, ok := t.enums[body]; ok {
		return name
	}
	name := fmt.Sprintf("SubEnum%d", len(t.enums)+1)
	t.enums[body] = name
	t.decls = append(t.decls, Declaration{Kind: DeclEnum, Name: name, Body: body})
	return name
}

// Declarations returns every synthesized declaration in discovery order.
func (t *Tables) Declarations() []Declaration {
	return t.decls
}

// Require records that the output needs the named auxiliary type.
func (t *Tables) Require(names ...string) {
	for _, n := range names {
		t.imports[n] = struct{}{}
	}
}

// Imports returns the required auxiliary type names sorted lexicographically.
func (t *Tables) Imports() []string {
	out := make([]string, 0, len(t.imports))
	for n := range t.imports {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// memberBody sorts members and joins them into an indented record body.
func memberBody(members *sortedSet) string {
	return indent + strings.Join(members.sorted(), "\n"+indent)
}
