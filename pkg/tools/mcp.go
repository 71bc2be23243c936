package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/comigor/advisor-go/internal/logger"
)

// NewMCPServer exposes every registered tool as an MCP tool taking a single
// "message" string argument.
func NewMCPServer(m *ToolManager, version string) *server.MCPServer {
	s := server.NewMCPServer("cs-advisor", version, server.WithToolCapabilities(false))
	handler := toolHandler(m)
	for _, t := range m.List() {
		tool := mcp.NewTool(t.Name(),
			mcp.WithDescription(t.Description()),
			mcp.WithString("message",
				mcp.Required(),
				mcp.Description("The user's free-text message"),
			),
		)
		s.AddTool(tool, handler)
		logger.L.Info("Registered MCP tool", "tool", t.Name())
	}
	return s
}

// toolHandler dispatches a call to the registered tool named in the request.
func toolHandler(m *ToolManager) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t, err := m.GetTool(request.Params.Name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		message, err := request.RequireString("message")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := t.Run(ctx, message)
		if err != nil {
			logger.L.Warn("MCP tool failed", "tool", t.Name(), "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
