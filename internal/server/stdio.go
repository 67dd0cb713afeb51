// internal/server/stdio.go
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/mark3labs/mcp-go/mcp"
)

// registerStdioTool exposes t on the stdio MCP server. Stdout carries
// protocol messages; all logging must go to stderr.
func (s *GutCheckServer) registerStdioTool(t tool) {
	opts := append([]mcp.ToolOption{mcp.WithDescription(t.description)}, t.options...)
	s.mcp.AddTool(mcp.NewTool(t.name, opts...), s.stdioHandler(t.name))
}

func (s *GutCheckServer) stdioHandler(name string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := &protocol.CallToolRequest{
			Name:      name,
			Arguments: request.GetArguments(),
		}

		payload, err := s.callTool(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
