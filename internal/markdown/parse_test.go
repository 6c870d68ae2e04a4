package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	inputs := map[string]string{
		"empty":             "",
		"no headings":       "just some text\nand more\n",
		"no trailing eol":   "# Title\nbody",
		"preamble":          "intro line\n\n# One\na\n## Two\nb\n",
		"crlf":              "# One\r\nbody\r\n# Two\r\nmore\r\n",
		"unclosed fence":    "# One\n```\n# not a heading\n",
		"heading only":      "# Lonely",
		"blank lines":       "\n\n\n# A\n\n\n# B\n\n",
		"nested fence":      "# A\n````md\n```go\n# inner\n```\n````\n# B\n",
		"seven hashes":      "####### not a heading\n# real\n",
		"hash without text": "#\n#nospace\n# yes\n",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			doc := Parse(input)
			assert.Equal(t, input, doc.String())
			assert.Equal(t, CountLines(input), doc.TotalLines)

			covered := doc.PreambleLines
			for _, s := range doc.Sections {
				covered += s.LineCount()
			}
			assert.Equal(t, doc.TotalLines, covered, "sections plus preamble must cover every line")
		})
	}
}

func TestParse_FlatSections(t *testing.T) {
	input := "# Top\nintro\n## Child\nchild body\n### Grandchild\ngc\n## Sibling\nend\n"
	doc := Parse(input)

	require.Len(t, doc.Sections, 4)
	want := []struct {
		name       string
		level      int
		start, end int
	}{
		{"Top", 1, 0, 2},
		{"Child", 2, 2, 4},
		{"Grandchild", 3, 4, 6},
		{"Sibling", 2, 6, 8},
	}
	for i, w := range want {
		s := doc.Sections[i]
		assert.Equal(t, w.name, s.Name)
		assert.Equal(t, w.level, s.Level)
		assert.Equal(t, w.start, s.StartLine)
		assert.Equal(t, w.end, s.EndLine)
	}
	assert.Equal(t, "intro\n", doc.Sections[0].Body)
}

func TestParse_IgnoresHeadingsInFences(t *testing.T) {
	input := strings.Join([]string{
		"# Example",
		"```markdown",
		"# Not a section",
		"## Also not",
		"```",
		"~~~",
		"# still code",
		"~~~",
		"# Next",
		"",
	}, "\n")

	doc := Parse(input)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Example", doc.Sections[0].Name)
	assert.Equal(t, 2, doc.Sections[0].CodeBlockCount)
	assert.Equal(t, "Next", doc.Sections[1].Name)
	assert.False(t, doc.UnclosedFence)
}

func TestParse_FenceNeedsMatchingMarker(t *testing.T) {
	input := "# A\n````\n```\n# inside\n````\n# B\n"
	doc := Parse(input)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, 1, doc.Sections[0].CodeBlockCount)
	assert.Equal(t, "B", doc.Sections[1].Name)
}

func TestParse_UnclosedFence(t *testing.T) {
	doc := Parse("# A\n```\ncode\n# swallowed\n")

	require.Len(t, doc.Sections, 1)
	assert.True(t, doc.UnclosedFence)
	assert.Equal(t, 0, doc.Sections[0].CodeBlockCount)
	assert.Equal(t, 4, doc.Sections[0].LineCount())
}

func TestParse_NoHeadings(t *testing.T) {
	doc := Parse("plain\ntext\n")

	assert.Empty(t, doc.Sections)
	assert.Equal(t, "plain\ntext\n", doc.Preamble)
	assert.Equal(t, 2, doc.PreambleLines)
}

func TestParse_NameStripsOrdinal(t *testing.T) {
	doc := Parse("## 2. Validation Matrix\n| a | b |\n## Closing ##\n")

	require.Len(t, doc.Sections, 2)
	s := doc.Sections[0]
	assert.Equal(t, "Validation Matrix", s.Name)
	assert.Equal(t, "2. Validation Matrix", s.Title)
	assert.Equal(t, "## 2. Validation Matrix", s.Heading)
	assert.Equal(t, "Closing", doc.Sections[1].Name)
}

func TestParse_CodeBlockCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Big\n")
	for range 3 {
		b.WriteString("```go\nfmt.Println()\n```\n\n")
	}
	doc := Parse(b.String())

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, 3, doc.Sections[0].CodeBlockCount)
}

func TestSection_EOL(t *testing.T) {
	doc := Parse("# A\r\nx\r\n# B\ny\n# C")
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "\r\n", doc.Sections[0].EOL())
	assert.Equal(t, "\n", doc.Sections[1].EOL())
	assert.Equal(t, "\n", doc.Sections[2].EOL())
}

func TestDocument_Find(t *testing.T) {
	doc := Parse("# Intro\n## 3. Validation Matrix\n")

	assert.Equal(t, 1, doc.Find("validation matrix"))
	assert.Equal(t, 1, doc.Find("4. Validation Matrix"))
	assert.Equal(t, -1, doc.Find("Missing"))
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a\n", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a\n", "\n"}, SplitLines("a\n\n"))
	assert.Equal(t, 2, CountLines("a\n\n"))
	assert.Equal(t, 1, CountLines("a"))
}
