package verbosity

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiknowsys/aiknowsys/internal/markdown"
)

// sectionOfLines builds a section whose span is exactly n lines, heading
// included, with a fenced code block in the middle.
func sectionOfLines(name string, n int) string {
	var b strings.Builder
	b.WriteString("## " + name + "\n")
	body := n - 1
	for i := range body - 4 {
		if i == 10 {
			b.WriteString("```go\nfunc example() {}\n```\n")
		}
		fmt.Fprintf(&b, "filler line %d\n", i)
	}
	b.WriteString("last\n")
	return b.String()
}

func TestAnalyze_NoOpportunities(t *testing.T) {
	text := "# Project\n\n## Setup\nnpm install\n\n## Usage\nrun it\n"
	plan := Analyze(markdown.Parse(text), DefaultConfig())

	assert.Len(t, plan.Sections, 3)
	assert.Empty(t, plan.Opportunities)
	assert.Equal(t, 0, plan.PotentialSavings)
	assert.Equal(t, plan.TotalLines, plan.ProjectedSize)
	assert.False(t, plan.HasOpportunities())
}

func TestAnalyze_SingleVerboseSection(t *testing.T) {
	var b strings.Builder
	b.WriteString("## Verbose Section\n")
	for i := range 180 {
		fmt.Fprintf(&b, "filler %d\n", i)
	}
	b.WriteString("```js\nconsole.log('x')\n```\n")
	for i := range 20 {
		fmt.Fprintf(&b, "more %d\n", i)
	}

	plan := Analyze(markdown.Parse(b.String()), Config{MaxSectionLines: 150})

	require.Len(t, plan.Opportunities, 1)
	opp := plan.Opportunities[0]
	assert.Greater(t, opp.CurrentLines, 150)
	assert.Greater(t, opp.EstimatedSavings, 50)
	assert.Equal(t, 1, opp.CodeBlocks)
	assert.Contains(t, opp.RecommendedAction, "Extract to docs/patterns/")
	assert.Equal(t, "Extract to docs/patterns/verbose-section.md", opp.RecommendedAction)
	assert.Less(t, plan.ProjectedSize, plan.TotalLines)
	assert.Positive(t, plan.ProjectedSize)
}

func TestAnalyze_TwoVerboseSections(t *testing.T) {
	text := "# Intro\nshort\n" +
		sectionOfLines("Verbose Section 1", 170) +
		"## Short\nok\n" +
		sectionOfLines("Verbose Section 2", 240)

	plan := Analyze(markdown.Parse(text), DefaultConfig())

	require.Len(t, plan.Opportunities, 2)
	first, second := plan.Opportunities[0], plan.Opportunities[1]
	assert.Equal(t, "Verbose Section 1", first.Section)
	assert.Equal(t, "Verbose Section 2", second.Section)
	assert.Equal(t, first.EstimatedSavings+second.EstimatedSavings, plan.PotentialSavings)
	assert.Equal(t, plan.TotalLines-plan.PotentialSavings, plan.ProjectedSize)
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 3, second.Index)
}

func TestAnalyze_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		lines int
		want  int
	}{
		{149, 0},
		{150, 0},
		{151, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d lines", tt.lines), func(t *testing.T) {
			doc := markdown.Parse(sectionOfLines("Edge", tt.lines))
			require.Len(t, doc.Sections, 1)
			require.Equal(t, tt.lines, doc.Sections[0].LineCount())

			plan := Analyze(doc, Config{MaxSectionLines: 150})
			assert.Len(t, plan.Opportunities, tt.want)
		})
	}
}

func TestAnalyze_SavingsFormula(t *testing.T) {
	plan := Analyze(markdown.Parse(sectionOfLines("Big", 200)), DefaultConfig())

	require.Len(t, plan.Opportunities, 1)
	assert.Equal(t, 200-SummaryLines, plan.Opportunities[0].EstimatedSavings)
	assert.Equal(t, 200, plan.TotalLines)
	assert.Equal(t, SummaryLines, plan.ProjectedSize)
}

func TestAnalyze_CollidingSlugs(t *testing.T) {
	text := sectionOfLines("Setup!", 160) + sectionOfLines("setup", 160)
	plan := Analyze(markdown.Parse(text), DefaultConfig())

	require.Len(t, plan.Opportunities, 2)
	assert.Equal(t, "setup", plan.Opportunities[0].Slug)
	assert.Equal(t, "setup-2", plan.Opportunities[1].Slug)
	assert.NotEqual(t, plan.Opportunities[0].RecommendedAction, plan.Opportunities[1].RecommendedAction)
}

func TestAnalyze_CustomPatternsDir(t *testing.T) {
	cfg := Config{MaxSectionLines: 20, PatternsDir: ".aiknowsys/patterns"}
	plan := Analyze(markdown.Parse(sectionOfLines("Hooks", 30)), cfg)

	require.Len(t, plan.Opportunities, 1)
	assert.Equal(t, "Extract to .aiknowsys/patterns/hooks.md", plan.Opportunities[0].RecommendedAction)
}

func TestAnalyze_DefaultsNonPositiveThreshold(t *testing.T) {
	plan := Analyze(markdown.Parse(sectionOfLines("A", 100)), Config{})

	assert.Equal(t, DefaultMaxSectionLines, plan.MaxSectionLines)
	assert.Empty(t, plan.Opportunities)
}

func TestAnalyze_PreambleNeverClassified(t *testing.T) {
	var b strings.Builder
	for i := range 300 {
		fmt.Fprintf(&b, "preamble %d\n", i)
	}
	plan := Analyze(markdown.Parse(b.String()), DefaultConfig())

	assert.Empty(t, plan.Sections)
	assert.Empty(t, plan.Opportunities)
	assert.Equal(t, 300, plan.ProjectedSize)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, Config{MaxSectionLines: SummaryLines + 1}.Validate())

	err := Config{MaxSectionLines: SummaryLines}.Validate()
	require.ErrorIs(t, err, ErrThresholdTooSmall)
}

func TestAnalyze_RaisesThresholdBelowSummary(t *testing.T) {
	doc := markdown.Parse("# A\n1\n2\n3\n4\n")

	for _, limit := range []int{1, 3, SummaryLines} {
		plan := Analyze(doc, Config{MaxSectionLines: limit})
		assert.Equal(t, SummaryLines+1, plan.MaxSectionLines)
		assert.Empty(t, plan.Opportunities, "threshold %d", limit)
		assert.Equal(t, plan.TotalLines, plan.ProjectedSize)
	}

	plan := Analyze(markdown.Parse("# B\n1\n2\n3\n4\n5\n6\n7\n"), Config{MaxSectionLines: 2})
	require.Len(t, plan.Opportunities, 1)
	assert.Positive(t, plan.Opportunities[0].EstimatedSavings)
	assert.Less(t, plan.ProjectedSize, plan.TotalLines)
}

func TestAnalyze_ReservedSlugs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Reserved = func(slug string) bool { return slug == "setup" }

	plan := Analyze(markdown.Parse(sectionOfLines("Setup", 160)), cfg)

	require.Len(t, plan.Opportunities, 1)
	assert.Equal(t, "setup-2", plan.Opportunities[0].Slug)
	assert.Equal(t, "Extract to docs/patterns/setup-2.md", plan.Opportunities[0].RecommendedAction)
}
