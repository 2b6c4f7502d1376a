// Package mcpserver exposes the converter as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mcncl/json2struct/internal/generator"
	"github.com/mcncl/json2struct/internal/logger"
)

const serverName = "json2struct"

// Server implements the MCP server for json2struct. Every tool call runs its
// own tokenize and generate pass; nothing is shared between calls.
type Server struct {
	mcpServer *server.MCPServer
	opts      generator.Options
}

// NewServer creates a new MCP server whose conversions use opts.
func NewServer(opts generator.Options, version string) *Server {
	s := &Server{opts: opts}

	s.mcpServer = server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(loggingMiddleware()),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: convertJSONTool(), Handler: s.handleConvertJSON},
		server.ServerTool{Tool: listLanguagesTool(), Handler: s.handleListLanguages},
		server.ServerTool{Tool: rustNumberTypeTool(), Handler: s.handleRustNumberType},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	logger.Logger.Infow("MCP server listening on stdio", logger.FieldLanguage, strings.Join(generator.Languages(), ","))
	return server.ServeStdio(s.mcpServer)
}

// loggingMiddleware records every tool call at debug level.
func loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)

			fields := []interface{}{
				logger.FieldTool, req.Params.Name,
				logger.FieldDurationMS, time.Since(start).Milliseconds(),
			}
			if err != nil {
				fields = append(fields, logger.FieldError, err)
			} else if result != nil && result.IsError {
				fields = append(fields, logger.FieldError, "tool error")
			}
			logger.Logger.Debugw("MCP tool call", fields...)

			return result, err
		}
	}
}
