package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name:     "with cause",
			appError: NewInputError("failed to read input", stderrors.New("permission denied")),
			expected: "input: failed to read input: permission denied",
		},
		{
			name:     "without cause",
			appError: NewConfigError("invalid language", nil),
			expected: "config: invalid language",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestAppError_IsMatchesCategory(t *testing.T) {
	parsing := NewParsingError("bad document", ErrInvalidJSON)

	assert.True(t, Is(parsing, &AppError{Type: ErrorTypeParsing}))
	assert.False(t, Is(parsing, &AppError{Type: ErrorTypeOutput}))
	assert.True(t, Is(parsing, ErrInvalidJSON), "cause stays reachable through Unwrap")
	assert.False(t, parsing.Is(stderrors.New("plain")))
}

func TestUnsupportedLanguage(t *testing.T) {
	err := NewUnsupportedLanguage("cobol", []string{"julia", "python"})

	require.Error(t, err)
	assert.Equal(t, "cobol is not supported", err.Error())
	assert.True(t, Is(err, ErrUnsupportedLanguage))

	var langErr *UnsupportedLanguageError
	require.True(t, As(err, &langErr))
	assert.Equal(t, "cobol", langErr.Language)

	assert.Equal(t, []string{"supported languages: julia, python"}, GetAllHints(err))
}

func TestMissingKey(t *testing.T) {
	err := NewMissingKey("rust")

	assert.True(t, Is(err, ErrMissingKey))
	assert.Contains(t, err.Error(), "record token missing key")
	assert.Contains(t, err.Error(), "rust")
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("invalid JSON syntax", nil),
			expected: "Parsing error: invalid JSON syntax",
		},
		{
			name:     "analysis error",
			err:      NewAnalysisError("unresolvable reference", nil),
			expected: "Type analysis error: unresolvable reference",
		},
		{
			name:     "generate error",
			err:      NewGenerateError("failed to generate code", nil),
			expected: "Code generation error: failed to generate code",
		},
		{
			name:     "format error",
			err:      NewFormatError("failed to format code", nil),
			expected: "Code formatting error: failed to format code",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write output", nil),
			expected: "Output error: failed to write output",
		},
		{
			name:     "config error",
			err:      NewConfigError("unknown key", nil),
			expected: "Configuration error: unknown key",
		},
		{
			name:     "empty input sentinel",
			err:      ErrEmptyInput,
			expected: "Error: The input is empty. Please provide valid JSON data.",
		},
		{
			name:     "wrapped invalid JSON sentinel",
			err:      Wrap(ErrInvalidJSON, "decoding stdin"),
			expected: "Error: The input contains invalid JSON. Please check your JSON syntax.",
		},
		{
			name:     "unsupported language with hint",
			err:      NewUnsupportedLanguage("go", []string{"rust", "typescript"}),
			expected: "Error: go is not supported\nHint: supported languages: rust, typescript",
		},
		{
			name:     "unknown error",
			err:      stderrors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserFriendlyError(tt.err))
		})
	}
}
