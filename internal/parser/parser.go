package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/models"
)

// Format is the syntax of an input document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the document format from a file extension. Anything
// that is not YAML or TOML is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	var rootValue models.JSONValue
	if err := decoder.Decode(&rootValue); err != nil {
		if errors.Is(err, io.EOF) {
			return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if errors.As(err, &syntaxError) {
			return models.IntermediateRepresentation{}, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return models.IntermediateRepresentation{}, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return models.IntermediateRepresentation{}, errors.NewParsingError("failed to decode JSON", err)
	}

	// Whitespace after the first value is fine; a second value is not.
	if decoder.More() {
		var trailingValue interface{}
		if err := decoder.Decode(&trailingValue); err != nil {
			if !errors.Is(err, io.EOF) {
				return models.IntermediateRepresentation{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
			}
		} else {
			return models.IntermediateRepresentation{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
	}

	return newIR(rootValue), nil
}

// ParseYAML decodes a single YAML document.
func ParseYAML(reader io.Reader) (models.IntermediateRepresentation, error) {
	decoder := yaml.NewDecoder(reader)

	var rootValue interface{}
	if err := decoder.Decode(&rootValue); err != nil {
		if errors.Is(err, io.EOF) {
			return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.IntermediateRepresentation{}, errors.NewParsingError("failed to decode YAML", err)
	}

	var next interface{}
	if err := decoder.Decode(&next); err == nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError("multiple YAML documents found", errors.ErrMultipleJSON)
	} else if !errors.Is(err, io.EOF) {
		return models.IntermediateRepresentation{}, errors.NewParsingError("invalid trailing YAML document", err)
	}

	return newIR(rootValue), nil
}

// ParseTOML decodes a TOML document. TOML roots are always tables.
func ParseTOML(reader io.Reader) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read TOML input", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	var rootValue map[string]interface{}
	if err := toml.Unmarshal(data, &rootValue); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return models.IntermediateRepresentation{}, errors.NewParsingError(
				fmt.Sprintf("TOML syntax error at line %d, column %d", row, col), err)
		}
		return models.IntermediateRepresentation{}, errors.NewParsingError("failed to decode TOML", err)
	}

	return newIR(rootValue), nil
}

// ParseFormat dispatches to the decoder for format.
func ParseFormat(reader io.Reader, format Format) (models.IntermediateRepresentation, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(reader)
	case FormatTOML:
		return ParseTOML(reader)
	case FormatJSON, "":
		return Parse(reader)
	default:
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("unknown input format %q", format), errors.ErrUnsupportedInput)
	}
}

func newIR(rootValue models.JSONValue) models.IntermediateRepresentation {
	root := normalizeJSONValue(rootValue)
	_, isArray := root.(models.JSONArray)
	return models.IntermediateRepresentation{Root: root, RootIsArray: isArray}
}

// normalizeJSONValue converts decoded containers into the model types
func normalizeJSONValue(val models.JSONValue) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeJSONValue(value)
		}
		return obj
	case map[interface{}]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[fmt.Sprint(key)] = normalizeJSONValue(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeJSONValue(value)
		}
		return arr
	default:
		return v
	}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses a JSON, YAML or TOML file, chosen by extension.
func ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		_ = file.Close()
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	ir, err := ParseFormat(file, FormatForPath(filePath))
	if err != nil {
		return ir, err
	}
	ir.Source = filePath
	return ir, nil
}

// ParseStdin reads a JSON document from r, labelling it as stdin.
func ParseStdin(r io.Reader) (models.IntermediateRepresentation, error) {
	ir, err := Parse(r)
	if err != nil {
		return ir, err
	}
	ir.Source = "stdin"
	return ir, nil
}
