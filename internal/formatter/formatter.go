// Package formatter tidies generated declarations before they are written out.
package formatter

import (
	"strings"

	"github.com/mcncl/json2struct/internal/errors"
)

// Formatter normalizes whitespace in generated code and prepends an optional
// header comment.
type Formatter struct {
	commentPrefix string
	header        string
}

// NewFormatter creates a Formatter. commentPrefix is the line-comment marker
// of the target language ("//", "#"); header may span several lines.
func NewFormatter(commentPrefix, header string) *Formatter {
	return &Formatter{
		commentPrefix: commentPrefix,
		header:        strings.TrimSpace(header),
	}
}

// Format trims trailing whitespace from every line, collapses the end of the
// text to a single newline and writes the header above it. Empty input stays
// empty.
func (f *Formatter) Format(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}
	if f.header != "" && f.commentPrefix == "" {
		return "", errors.NewFormatError("cannot write a file header without a comment prefix", nil)
	}

	var sb strings.Builder
	if f.header != "" {
		sb.WriteString(f.formatHeader())
		sb.WriteString("\n")
	}

	lines := strings.Split(strings.TrimRight(code, " \t\r\n"), "\n")
	for _, line := range lines {
		sb.WriteString(strings.TrimRight(line, " \t\r"))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (f *Formatter) formatHeader() string {
	var sb strings.Builder
	for _, line := range strings.Split(f.header, "\n") {
		line = strings.TrimRight(line, " \t\r")
		sb.WriteString(f.commentPrefix)
		if line != "" {
			sb.WriteString(" ")
			sb.WriteString(line)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
