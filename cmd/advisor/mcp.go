package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/comigor/advisor-go/internal/logger"
	"github.com/comigor/advisor-go/pkg/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the advisor as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		manager := tools.NewToolManager(
			tools.NewAskAdvisorTool(a.advisor),
			tools.ClassifyTool{},
		)
		serveErr := server.ServeStdio(tools.NewMCPServer(manager, version))
		if serveErr != nil {
			logger.L.Error("mcp server stopped", "error", serveErr)
		}
		if err := a.teardown(); err != nil && serveErr == nil {
			return err
		}
		return serveErr
	},
}
