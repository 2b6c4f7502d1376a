package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/generator"
	"github.com/mcncl/json2struct/internal/models"
	"github.com/mcncl/json2struct/internal/parser"
	"github.com/mcncl/json2struct/internal/schema"
	"github.com/mcncl/json2struct/internal/tokenizer"
)

func (s *Server) handleConvertJSON(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("json")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	language := req.GetString("language", string(generator.TypeScript))

	tok, err := tokenFor(input, req.GetBool("schema", false))
	if err != nil {
		return mcp.NewToolResultError(errors.UserFriendlyError(err)), nil
	}

	out, err := generator.ConvertToLanguageWithOptions(language, tok, s.opts)
	if err != nil {
		return mcp.NewToolResultError(errors.UserFriendlyError(err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func tokenFor(input string, isSchema bool) (*models.Token, error) {
	if isSchema {
		doc, err := schema.ParseString(input)
		if err != nil {
			return nil, err
		}
		return schema.ToToken(doc)
	}

	ir, err := parser.ParseString(input)
	if err != nil {
		return nil, err
	}
	return tokenizer.Tokenize(ir.Root), nil
}

func (s *Server) handleListLanguages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strings.Join(generator.Languages(), "\n")), nil
}

func (s *Server) handleRustNumberType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value, err := req.RequireFloat("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := s.opts.Rust
	opts.IntegerBitSize = req.GetInt("integer_bit_size", opts.IntegerBitSize)
	opts.FloatBitSize = req.GetInt("float_bit_size", opts.FloatBitSize)
	opts.Unsigned = req.GetBool("unsigned", opts.Unsigned)

	return mcp.NewToolResultText(generator.NumberType(value, opts)), nil
}
