package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	aiknowsysmcp "github.com/aiknowsys/aiknowsys/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run aiknowsys as a Model Context Protocol (MCP) server over stdio.

This exposes the knowledge-base checks as MCP tools that any MCP-capable
agent environment can use.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "aiknowsys": {
        "command": "aiknowsys",
        "args": ["serve"]
      }
    }
  }

Available tools: analyze_essentials, quality_check, list_patterns, list_skills`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			proj, err := loadProject(cmd)
			if err != nil {
				return err
			}
			server := aiknowsysmcp.NewServer(buildVersion(), &aiknowsysmcp.Workspace{
				Root:   proj.root,
				Config: proj.cfg,
			})
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
