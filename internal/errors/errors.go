// Package errors provides the error kinds used across json2struct.
//
// Creation, wrapping and user hints are backed by github.com/cockroachdb/errors;
// the helpers are re-exported here so callers import a single package.
package errors

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation, wrapping and inspection
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	Is           = crdb.Is
	As           = crdb.As
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Standard application errors
var (
	ErrEmptyInput       = New("input is empty or contains only whitespace")
	ErrInvalidJSON      = New("invalid JSON format")
	ErrMultipleJSON     = New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound     = New("file not found")
	ErrFileEmpty        = New("file is empty")
	ErrInvalidFilePath  = New("invalid file path")
	ErrUnsupportedInput = New("unsupported input document")

	// ErrUnsupportedLanguage is the sentinel behind every UnsupportedLanguageError.
	ErrUnsupportedLanguage = New("unsupported language")
	// ErrMissingKey signals a record member token that has no usable key.
	ErrMissingKey = New("record token missing key")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeParsing  ErrorType = "parsing"
	ErrorTypeAnalysis ErrorType = "analysis"
	ErrorTypeGenerate ErrorType = "generate"
	ErrorTypeFormat   ErrorType = "format"
	ErrorTypeOutput   ErrorType = "output"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same category.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newAppError(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newAppError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to document parsing
func NewParsingError(message string, err error) *AppError {
	return newAppError(ErrorTypeParsing, message, err)
}

// NewAnalysisError creates a new error related to tokenizing or schema analysis
func NewAnalysisError(message string, err error) *AppError {
	return newAppError(ErrorTypeAnalysis, message, err)
}

// NewGenerateError creates a new error related to code generation
func NewGenerateError(message string, err error) *AppError {
	return newAppError(ErrorTypeGenerate, message, err)
}

// NewFormatError creates a new error related to output formatting
func NewFormatError(message string, err error) *AppError {
	return newAppError(ErrorTypeFormat, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newAppError(ErrorTypeOutput, message, err)
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return newAppError(ErrorTypeConfig, message, err)
}

// UnsupportedLanguageError is returned when a language identifier has no emitter.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("%s is not supported", e.Language)
}

// Unwrap lets errors.Is match ErrUnsupportedLanguage.
func (e *UnsupportedLanguageError) Unwrap() error {
	return ErrUnsupportedLanguage
}

// NewUnsupportedLanguage builds an UnsupportedLanguageError carrying a hint
// that lists the accepted identifiers.
func NewUnsupportedLanguage(language string, supported []string) error {
	err := crdb.WithStack(&UnsupportedLanguageError{Language: language})
	if len(supported) == 0 {
		return err
	}
	return WithHintf(err, "supported languages: %s", strings.Join(supported, ", "))
}

// NewMissingKey reports a record member without a usable key while rendering language.
func NewMissingKey(language string) error {
	return Wrapf(ErrMissingKey, "%s", language)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	return withHints(friendlyMessage(err), err)
}

func friendlyMessage(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("Parsing error: %s", appErr.Message)
		case ErrorTypeAnalysis:
			return fmt.Sprintf("Type analysis error: %s", appErr.Message)
		case ErrorTypeGenerate:
			return fmt.Sprintf("Code generation error: %s", appErr.Message)
		case ErrorTypeFormat:
			return fmt.Sprintf("Code formatting error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	var langErr *UnsupportedLanguageError
	if As(err, &langErr) {
		return fmt.Sprintf("Error: %s", langErr.Error())
	}

	switch {
	case Is(err, ErrEmptyInput):
		return "Error: The input is empty. Please provide valid JSON data."
	case Is(err, ErrInvalidJSON):
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	case Is(err, ErrMultipleJSON):
		return "Error: Multiple JSON values found. Please provide a single JSON object or array."
	case Is(err, ErrFileNotFound):
		return "Error: The specified file could not be found. Please check the file path."
	case Is(err, ErrFileEmpty):
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	case Is(err, ErrInvalidFilePath):
		return "Error: Invalid file path. Please provide a valid file path."
	}

	return fmt.Sprintf("Error: %v", err)
}

func withHints(msg string, err error) string {
	hints := FlattenHints(err)
	if hints == "" {
		return msg
	}
	return msg + "\nHint: " + hints
}
