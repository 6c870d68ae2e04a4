package mcp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aiknowsys/aiknowsys/internal/markdown"
	"github.com/aiknowsys/aiknowsys/internal/patterns"
	"github.com/aiknowsys/aiknowsys/internal/quality"
	"github.com/aiknowsys/aiknowsys/internal/skill"
	"github.com/aiknowsys/aiknowsys/internal/verbosity"
)

// --- Analyze tool ---

// AnalyzeInput is the input for the analyze_essentials tool.
type AnalyzeInput struct {
	Path            string `json:"path,omitempty"              jsonschema:"document to analyze, relative to the project root (default: the configured essentials file)"`
	MaxSectionLines int    `json:"max_section_lines,omitempty" jsonschema:"section length above which a section is flagged (default from config)"`
}

// AnalyzeOutput is the output for the analyze_essentials tool.
type AnalyzeOutput struct {
	Path             string                 `json:"path"              jsonschema:"analyzed document"`
	TotalLines       int                    `json:"total_lines"       jsonschema:"document length in lines"`
	Sections         int                    `json:"sections"          jsonschema:"number of sections"`
	MaxSectionLines  int                    `json:"max_section_lines" jsonschema:"threshold used"`
	PotentialSavings int                    `json:"potential_savings" jsonschema:"lines saved by extracting every flagged section"`
	ProjectedSize    int                    `json:"projected_size"    jsonschema:"document length after extraction"`
	Opportunities    []verbosity.Opportunity `json:"opportunities"     jsonschema:"sections worth extracting"`
	Duplicates       []verbosity.Duplicate   `json:"duplicates"        jsonschema:"sections repeating each other"`
}

func handleAnalyze(ws *Workspace) mcp.ToolHandlerFor[AnalyzeInput, AnalyzeOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
		rel := input.Path
		if rel == "" {
			rel = ws.Config.Essentials
		}
		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(ws.Root, filepath.FromSlash(rel))
		}

		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, AnalyzeOutput{}, fmt.Errorf("document not found: %s", rel)
		}
		if err != nil {
			return nil, AnalyzeOutput{}, fmt.Errorf("reading %s: %w", rel, err)
		}

		cfg := ws.Config.Verbosity()
		if input.MaxSectionLines != 0 {
			cfg.MaxSectionLines = input.MaxSectionLines
		}
		if err := cfg.Validate(); err != nil {
			return nil, AnalyzeOutput{}, err
		}
		cfg.Reserved = patterns.Taken(ws.Root, ws.Config.PatternsDir)

		doc := markdown.Parse(string(data))
		plan := verbosity.Analyze(doc, cfg)
		dups := verbosity.FindDuplicates(doc)
		if dups == nil {
			dups = []verbosity.Duplicate{}
		}

		return nil, AnalyzeOutput{
			Path:             filepath.ToSlash(rel),
			TotalLines:       plan.TotalLines,
			Sections:         len(plan.Sections),
			MaxSectionLines:  plan.MaxSectionLines,
			PotentialSavings: plan.PotentialSavings,
			ProjectedSize:    plan.ProjectedSize,
			Opportunities:    plan.Opportunities,
			Duplicates:       dups,
		}, nil
	}
}

// --- Quality tool ---

// QualityInput is the input for the quality_check tool (no parameters needed).
type QualityInput struct{}

// QualityOutput is the output for the quality_check tool.
type QualityOutput struct {
	Essentials string          `json:"essentials" jsonschema:"checked essentials file"`
	Checks     []quality.Check `json:"checks"     jsonschema:"individual check results"`
	Summary    quality.Summary `json:"summary"    jsonschema:"counts by status"`
}

func handleQuality(ws *Workspace) mcp.ToolHandlerFor[QualityInput, QualityOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ QualityInput) (*mcp.CallToolResult, QualityOutput, error) {
		report, err := quality.Run(ws.Root, ws.Config)
		if err != nil {
			return nil, QualityOutput{}, fmt.Errorf("running checks: %w", err)
		}
		return nil, QualityOutput{
			Essentials: report.Essentials,
			Checks:     report.Checks,
			Summary:    report.Summary,
		}, nil
	}
}

// --- List patterns tool ---

// ListPatternsInput is the input for the list_patterns tool (no parameters needed).
type ListPatternsInput struct{}

// ListPatternsOutput is the output for the list_patterns tool.
type ListPatternsOutput struct {
	Dir      string             `json:"dir"      jsonschema:"patterns directory"`
	Patterns []patterns.Pattern `json:"patterns" jsonschema:"pattern files sorted by slug"`
}

func handleListPatterns(ws *Workspace) mcp.ToolHandlerFor[ListPatternsInput, ListPatternsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListPatternsInput) (*mcp.CallToolResult, ListPatternsOutput, error) {
		list, err := patterns.List(ws.Root, ws.Config.PatternsDir)
		if err != nil {
			return nil, ListPatternsOutput{}, err
		}
		return nil, ListPatternsOutput{Dir: filepath.ToSlash(ws.Config.PatternsDir), Patterns: list}, nil
	}
}

// --- List skills tool ---

// ListSkillsInput is the input for the list_skills tool (no parameters needed).
type ListSkillsInput struct{}

// ListSkillsOutput is the output for the list_skills tool.
type ListSkillsOutput struct {
	Definitions []skill.Definition `json:"definitions"       jsonschema:"skills first, then agents"`
	Warning     string             `json:"warning,omitempty" jsonschema:"files that could not be parsed"`
}

func handleListSkills(ws *Workspace) mcp.ToolHandlerFor[ListSkillsInput, ListSkillsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListSkillsInput) (*mcp.CallToolResult, ListSkillsOutput, error) {
		defs, err := skill.List(ws.Root, ws.Config.SkillsDir, ws.Config.AgentsDir)
		out := ListSkillsOutput{Definitions: defs}
		if out.Definitions == nil {
			out.Definitions = []skill.Definition{}
		}
		if err != nil {
			out.Warning = err.Error()
		}
		return nil, out, nil
	}
}
