// Package mcp provides a Model Context Protocol server for aiknowsys.
// It exposes read-only knowledge-base inspection as MCP tools so an agent
// can check the essentials file without shelling out to the CLI.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aiknowsys/aiknowsys/internal/config"
)

// Workspace is the project the server inspects.
type Workspace struct {
	Root   string
	Config *config.Config
}

// NewServer creates an MCP server with all aiknowsys tools registered.
func NewServer(version string, ws *Workspace) *mcp.Server {
	if ws.Config == nil {
		ws.Config = config.Default()
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "aiknowsys",
		Version: version,
	}, nil)
	registerTools(server, ws)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds all aiknowsys tools to the server.
func registerTools(server *mcp.Server, ws *Workspace) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_essentials",
		Description: "Analyze the essentials file for sections that are too long to keep inline. Returns each oversized section with its line count, estimated savings and the pattern file it would move to.",
		Annotations: readOnlyAnnotations(),
	}, handleAnalyze(ws))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "quality_check",
		Description: "Run the knowledge-base health checks: essentials size, long and duplicate sections, validation matrix, broken pattern links, unclosed code fences, leftover template placeholders and AGENTS.md.",
		Annotations: readOnlyAnnotations(),
	}, handleQuality(ws))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_patterns",
		Description: "List the pattern files extracted from the essentials file, with their titles and sizes.",
		Annotations: readOnlyAnnotations(),
	}, handleListPatterns(ws))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_skills",
		Description: "List the skill and agent definitions available in the project.",
		Annotations: readOnlyAnnotations(),
	}, handleListSkills(ws))
}
