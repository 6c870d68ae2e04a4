package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aiknowsys/aiknowsys/internal/config"
	"github.com/aiknowsys/aiknowsys/internal/quality"
)

// --- Test helpers ---

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func longSection(name string, lines int) string {
	var b strings.Builder
	b.WriteString("## " + name + "\n")
	for i := 1; i < lines; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

func makeWorkspace(t *testing.T) *Workspace {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "CODEBASE_ESSENTIALS.md",
		"# Essentials\n\n## Validation Matrix\n| go test | always |\n\n"+longSection("Testing Patterns", 170))
	writeFile(t, root, "docs/patterns/api.md", "# API Conventions\nuse JSON\n")
	writeFile(t, root, ".github/skills/tdd/SKILL.md", "---\nname: tdd\ndescription: Test first\n---\nbody\n")
	return &Workspace{Root: root, Config: config.Default()}
}

// --- Analyze handler tests ---

func TestHandleAnalyze_Default(t *testing.T) {
	ws := makeWorkspace(t)
	handler := handleAnalyze(ws)

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, AnalyzeInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Path != "CODEBASE_ESSENTIALS.md" {
		t.Errorf("Path = %q", out.Path)
	}
	if len(out.Opportunities) != 1 {
		t.Fatalf("len(Opportunities) = %d, want 1", len(out.Opportunities))
	}
	if out.Opportunities[0].Slug != "testing-patterns" {
		t.Errorf("Slug = %q, want testing-patterns", out.Opportunities[0].Slug)
	}
	if out.ProjectedSize != out.TotalLines-out.PotentialSavings {
		t.Errorf("ProjectedSize = %d, want %d", out.ProjectedSize, out.TotalLines-out.PotentialSavings)
	}
	if out.Duplicates == nil {
		t.Error("Duplicates should be an empty list, not nil")
	}
}

func TestHandleAnalyze_CustomThreshold(t *testing.T) {
	ws := makeWorkspace(t)
	handler := handleAnalyze(ws)

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, AnalyzeInput{MaxSectionLines: 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Opportunities) != 0 {
		t.Errorf("len(Opportunities) = %d, want 0 above a 200 line threshold", len(out.Opportunities))
	}
	if out.MaxSectionLines != 200 {
		t.Errorf("MaxSectionLines = %d, want 200", out.MaxSectionLines)
	}
}

func TestHandleAnalyze_Errors(t *testing.T) {
	ws := makeWorkspace(t)
	handler := handleAnalyze(ws)

	tests := []struct {
		name  string
		input AnalyzeInput
	}{
		{"missing document", AnalyzeInput{Path: "NOPE.md"}},
		{"threshold too small", AnalyzeInput{MaxSectionLines: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := handler(context.Background(), &mcp.CallToolRequest{}, tt.input); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// --- Quality handler tests ---

func TestHandleQuality(t *testing.T) {
	ws := makeWorkspace(t)
	handler := handleQuality(ws)

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, QualityInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Summary.Failed != 0 {
		t.Errorf("Failed = %d, want 0", out.Summary.Failed)
	}

	statuses := make(map[string]quality.Status)
	for _, c := range out.Checks {
		statuses[c.ID] = c.Status
	}
	if statuses[quality.CheckSectionLength] != quality.Warn {
		t.Errorf("section_length = %q, want warn", statuses[quality.CheckSectionLength])
	}
	if statuses[quality.CheckAgentsFile] != quality.Warn {
		t.Errorf("agents_file = %q, want warn", statuses[quality.CheckAgentsFile])
	}
}

// --- List handler tests ---

func TestHandleListPatterns(t *testing.T) {
	ws := makeWorkspace(t)
	handler := handleListPatterns(ws)

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, ListPatternsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Patterns) != 1 || out.Patterns[0].Title != "API Conventions" {
		t.Errorf("Patterns = %+v", out.Patterns)
	}
}

func TestHandleListSkills(t *testing.T) {
	ws := makeWorkspace(t)
	handler := handleListSkills(ws)

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, ListSkillsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Definitions) != 1 || out.Definitions[0].Name != "tdd" {
		t.Errorf("Definitions = %+v", out.Definitions)
	}
	if out.Warning != "" {
		t.Errorf("Warning = %q, want none", out.Warning)
	}
}

// --- Server registration test ---

func TestNewServer_RegistersTools(t *testing.T) {
	// Should not panic
	server := NewServer("test-version", &Workspace{Root: t.TempDir()})
	if server == nil {
		t.Fatal("NewServer returned nil")
	}
}
