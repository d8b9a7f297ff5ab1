// Package server exposes the operation registry over the Model Context
// Protocol. Each registered operation becomes one MCP tool; tool calls are
// funneled through the dispatcher and answered with its envelope.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hivebridge/thehive-mcp/internal/dispatch"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

const serverName = "thehive-mcp"

// Version is set at build time via ldflags.
var Version = "dev"

// Server is the MCP-facing side of the dispatcher.
type Server struct {
	mcp    *server.MCPServer
	sse    *server.SSEServer
	logger *zap.Logger
}

// New builds an MCP server with every registry operation registered as a
// tool. The tool input schemas are the registry's derived schemas, byte for
// byte, so clients see exactly what validation will enforce.
func New(reg *registry.Registry, d *dispatch.Dispatcher, logger *zap.Logger) *Server {
	s := server.NewMCPServer(
		serverName,
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, name := range reg.Names() {
		op, err := reg.Lookup(name)
		if err != nil {
			// Names() only reports registered operations.
			continue
		}
		tool := mcp.NewToolWithRawSchema(op.Name, op.Description, op.SchemaJSON())
		s.AddTool(tool, toolHandler(d, op.Name))
	}

	logger.Info("registered tools", zap.Int("count", reg.Len()))
	return &Server{mcp: s, sse: server.NewSSEServer(s), logger: logger}
}

// toolHandler adapts one operation to the MCP tool handler contract. The
// envelope is always serialized as the tool result text; failure envelopes
// additionally flag the result as an error so clients can branch without
// parsing.
func toolHandler(d *dispatch.Dispatcher, operation string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		env := d.Dispatch(ctx, operation, req.GetArguments())
		result := mcp.NewToolResultText(string(env.JSON()))
		result.IsError = !env.OK
		return result, nil
	}
}

// ServeStdio serves the protocol over stdin/stdout and blocks until the
// stream closes. Logging must already be routed to stderr.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving over stdio")
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("server: stdio transport: %w", err)
	}
	return nil
}

// ServeSSE serves the protocol over an HTTP event stream on addr and blocks
// until the listener fails or Shutdown is called.
func (s *Server) ServeSSE(addr string) error {
	s.logger.Info("serving over sse", zap.String("addr", addr))
	if err := s.sse.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: sse transport: %w", err)
	}
	return nil
}

// Shutdown stops the SSE listener and unblocks ServeSSE. It is a no-op for
// the stdio transport, which ends with its stream.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.sse.Shutdown(ctx)
}
