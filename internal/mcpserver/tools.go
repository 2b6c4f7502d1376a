package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mcncl/json2struct/internal/generator"
)

func convertJSONTool() mcp.Tool {
	return mcp.NewTool("convert_json",
		mcp.WithDescription("Generate type declarations describing the structure of a JSON document"),
		mcp.WithString("json",
			mcp.Required(),
			mcp.Description("The JSON document to describe"),
		),
		mcp.WithString("language",
			mcp.Description("Target language (default: typescript)"),
			mcp.Enum(generator.Languages()...),
			mcp.DefaultString(string(generator.TypeScript)),
		),
		mcp.WithBoolean("schema",
			mcp.Description("Treat the document as a JSON Schema instead of a sample value"),
		),
	)
}

func listLanguagesTool() mcp.Tool {
	return mcp.NewTool("list_languages",
		mcp.WithDescription("List the supported target languages, one per line"),
	)
}

func rustNumberTypeTool() mcp.Tool {
	return mcp.NewTool("rust_number_type",
		mcp.WithDescription("Infer the narrowest Rust numeric type (i8..i64, u8..u64, f32, f64) for a value"),
		mcp.WithNumber("value",
			mcp.Required(),
			mcp.Description("The number to classify"),
		),
		mcp.WithNumber("integer_bit_size",
			mcp.Description("Minimum integer width: 8, 16, 32, 64 or 128 (default from configuration)"),
		),
		mcp.WithNumber("float_bit_size",
			mcp.Description("Minimum float width: 32 or 64 (default from configuration)"),
		),
		mcp.WithBoolean("unsigned",
			mcp.Description("Use unsigned integers for non-negative values"),
		),
	)
}
