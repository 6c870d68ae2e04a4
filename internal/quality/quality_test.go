package quality

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiknowsys/aiknowsys/internal/config"
	"github.com/aiknowsys/aiknowsys/internal/patterns"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func byID(t *testing.T, r *Report, id string) Check {
	t.Helper()
	for _, c := range r.Checks {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("check %s not in report", id)
	return Check{}
}

const healthy = "# Essentials\n\n## 1. Stack\nGo\n\n## 2. Validation Matrix\n| go test ./... | always |\n\n" +
	"## Testing\n\n> Full content: [docs/patterns/testing.md](docs/patterns/testing.md)\n\n" +
	"See [the guide](https://example.com/guide) and [stack](#1-stack).\n"

func healthyProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "CODEBASE_ESSENTIALS.md", healthy)
	writeFile(t, root, "docs/patterns/testing.md", "## Testing\nbody\n")
	block := patterns.RenderIndex([]patterns.Pattern{{Slug: "testing", Title: "Testing", Path: "docs/patterns/testing.md", Lines: 2}}, "")
	writeFile(t, root, "AGENTS.md", "# Agents\n\n"+block)
	return root
}

func TestRun_Healthy(t *testing.T) {
	report, err := Run(healthyProject(t), nil)
	require.NoError(t, err)

	assert.Len(t, report.Checks, 9)
	for _, c := range report.Checks {
		assert.Equal(t, Pass, c.Status, "%s: %s", c.ID, c.Message)
	}
	assert.Equal(t, Summary{Passed: 9}, report.Summary)
	assert.False(t, report.Failed())
	assert.Empty(t, report.Problems())
	assert.Equal(t, "1 pattern link(s) resolve", byID(t, report, CheckPatternLinks).Message)
}

func TestRun_MissingEssentials(t *testing.T) {
	report, err := Run(t.TempDir(), nil)
	require.NoError(t, err)

	require.Len(t, report.Checks, 2)
	assert.Equal(t, Fail, byID(t, report, CheckEssentialsExists).Status)
	assert.Equal(t, Warn, byID(t, report, CheckAgentsFile).Status)
	assert.True(t, report.Failed())
	assert.Len(t, report.Problems(), 2)
}

func TestRun_BrokenPatternLink(t *testing.T) {
	root := healthyProject(t)
	require.NoError(t, os.Remove(filepath.Join(root, "docs", "patterns", "testing.md")))

	report, err := Run(root, nil)
	require.NoError(t, err)

	c := byID(t, report, CheckPatternLinks)
	assert.Equal(t, Fail, c.Status)
	assert.Contains(t, c.Message, "docs/patterns/testing.md (line 11)")
	assert.True(t, report.Failed())
}

func TestRun_LinksRelativeToEssentialsDir(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Essentials = "kb/ESSENTIALS.md"
	writeFile(t, root, "kb/ESSENTIALS.md", "## A\n[x](../docs/patterns/a.md)\n[y](../docs/patterns/missing.md)\n")
	writeFile(t, root, "docs/patterns/a.md", "a\n")

	report, err := Run(root, cfg)
	require.NoError(t, err)

	c := byID(t, report, CheckPatternLinks)
	assert.Equal(t, Fail, c.Status)
	assert.Contains(t, c.Message, "docs/patterns/missing.md")
	assert.NotContains(t, c.Message, "docs/patterns/a.md")
}

func TestRun_Warnings(t *testing.T) {
	var b strings.Builder
	b.WriteString("# {{PROJECT_NAME}} Essentials\n\n## Long\n")
	for i := range 160 {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	b.WriteString("## Setup\nstep one\nstep two\nstep three\n")
	b.WriteString("## Setup\nstep one\nstep two\nstep three\n")
	b.WriteString("## Code\n```go\nfunc main() {}\n")

	root := t.TempDir()
	writeFile(t, root, "CODEBASE_ESSENTIALS.md", b.String())
	cfg := config.Default()
	cfg.Quality.MaxEssentialsLines = 100

	report, err := Run(root, cfg)
	require.NoError(t, err)

	assert.Equal(t, Warn, byID(t, report, CheckEssentialsSize).Status)
	assert.Contains(t, byID(t, report, CheckSectionLength).Message, "Long (161)")
	assert.Equal(t, Warn, byID(t, report, CheckDuplicateSections).Status)
	assert.Equal(t, Warn, byID(t, report, CheckValidationMatrix).Status)
	assert.Equal(t, Warn, byID(t, report, CheckCodeFences).Status)
	assert.Equal(t, "unresolved: {{PROJECT_NAME}}", byID(t, report, CheckPlaceholders).Message)
	assert.False(t, report.Failed())
}

func TestRun_AgentsWithoutIndex(t *testing.T) {
	root := healthyProject(t)
	writeFile(t, root, "AGENTS.md", "# Agents\n")

	report, err := Run(root, nil)
	require.NoError(t, err)

	c := byID(t, report, CheckAgentsFile)
	assert.Equal(t, Warn, c.Status)
	assert.Contains(t, c.Hint, "aiknowsys sync")
}

func TestLocalTarget(t *testing.T) {
	tests := []struct {
		docDir, target string
		want           string
		ok             bool
	}{
		{".", "docs/patterns/a.md", "docs/patterns/a.md", true},
		{".", "docs/patterns/a.md#usage", "docs/patterns/a.md", true},
		{"kb", "../docs/a.md", "docs/a.md", true},
		{"kb", "/docs/a.md", "docs/a.md", true},
		{".", "#anchor", "", false},
		{".", "https://example.com/a.md", "", false},
		{".", "mailto:team@example.com", "", false},
	}
	for _, tt := range tests {
		got, ok := localTarget(tt.docDir, tt.target)
		assert.Equal(t, tt.ok, ok, tt.target)
		assert.Equal(t, tt.want, got, tt.target)
	}
}
