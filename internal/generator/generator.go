// Package generator renders Token trees as type declarations for the
// supported target languages.
package generator

import (
	"sort"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/models"
)

// RootName is the name of the top-level declaration in every target.
const RootName = "GeneratedStruct"

const indent = "    "

// Language identifies a target language.
type Language string

const (
	TypeScript Language = "typescript"
	Python     Language = "python"
	Julia      Language = "julia"
	Rust       Language = "rust"
)

// Generator renders a Token tree for one target language.
type Generator interface {
	Language() Language
	// FileExtension is the conventional source extension, without the dot.
	FileExtension() string
	// CommentPrefix starts a line comment in the target language.
	CommentPrefix() string
	// ConvertToken renders the type expression for tok, registering any
	// synthesized declarations in tables.
	ConvertToken(tok *models.Token, tables *Tables) (string, error)
	// Generate renders the complete output for a Token tree using fresh tables.
	Generate(tok *models.Token) (string, error)
}

// Options carries per-language rendering options.
type Options struct {
	TypeScript TypeScriptOptions
	Rust       RustOptions
}

// DefaultOptions returns the options that reproduce the canonical output of
// every target.
func DefaultOptions() Options {
	return Options{
		TypeScript: DefaultTypeScriptOptions(),
		Rust:       DefaultRustOptions(),
	}
}

var registry = map[Language]func(Options) Generator{
	TypeScript: func(o Options) Generator { return NewTypeScriptGenerator(o.TypeScript) },
	Python:     func(Options) Generator { return NewPythonGenerator() },
	Julia:      func(Options) Generator { return NewJuliaGenerator() },
	Rust:       func(o Options) Generator { return NewRustGenerator(o.Rust) },
}

// Languages returns the supported language identifiers in sorted order.
func Languages() []string {
	langs := make([]string, 0, len(registry))
	for l := range registry {
		langs = append(langs, string(l))
	}
	sort.Strings(langs)
	return langs
}

// IsSupported reports whether language has an emitter.
func IsSupported(language string) bool {
	_, ok := registry[Language(language)]
	return ok
}

// New returns the emitter for language.
func New(language string, opts Options) (Generator, error) {
	ctor, ok := registry[Language(language)]
	if !ok {
		return nil, errors.NewUnsupportedLanguage(language, Languages())
	}
	return ctor(opts), nil
}

// ConvertToLanguage renders tok for language with default options.
func ConvertToLanguage(language string, tok *models.Token) (string, error) {
	return ConvertToLanguageWithOptions(language, tok, DefaultOptions())
}

// ConvertToLanguageWithOptions renders tok for language.
func ConvertToLanguageWithOptions(language string, tok *models.Token, opts Options) (string, error) {
	gen, err := New(language, opts)
	if err != nil {
		return "", err
	}
	return gen.Generate(tok)
}

// sortedSet collects rendered type strings once each, in insertion order.
type sortedSet struct {
	items []string
	seen  map[string]struct{}
}

func newSortedSet() *sortedSet {
	return &sortedSet{seen: make(map[string]struct{})}
}

func (s *sortedSet) add(item string) {
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}

func (s *sortedSet) len() int { return len(s.items) }

// sorted returns a lexicographically sorted copy of the items.
func (s *sortedSet) sorted() []string {
	out := append([]string(nil), s.items...)
	sort.Strings(out)
	return out
}
