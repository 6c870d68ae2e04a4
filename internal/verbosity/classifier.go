// Package verbosity flags markdown sections that are too long to keep
// inline and estimates what extracting them would save.
package verbosity

import (
	"errors"
	"fmt"
	"path"

	"github.com/aiknowsys/aiknowsys/internal/markdown"
)

const (
	// DefaultMaxSectionLines is the section length above which a section
	// becomes an extraction candidate.
	DefaultMaxSectionLines = 150

	// SummaryLines is the size of the block that replaces an extracted
	// section: heading, blank, summary, link, blank.
	SummaryLines = 5

	// DefaultPatternsDir is where extracted sections are written, relative
	// to the project root.
	DefaultPatternsDir = "docs/patterns"
)

// ErrThresholdTooSmall is returned by Config.Validate when the threshold
// would let a replacement block itself qualify for extraction.
var ErrThresholdTooSmall = errors.New("max section lines must exceed the summary block size")

// Config controls classification.
type Config struct {
	MaxSectionLines int
	// PatternsDir is used in recommended actions. Defaults to
	// DefaultPatternsDir.
	PatternsDir string
	// Reserved, if set, reports slugs already taken on disk, so the
	// recommended file name matches the one extraction will write.
	Reserved func(slug string) bool
}

// DefaultConfig returns the default classification settings.
func DefaultConfig() Config {
	return Config{MaxSectionLines: DefaultMaxSectionLines, PatternsDir: DefaultPatternsDir}
}

// Validate checks that the threshold leaves room for the replacement block.
func (c Config) Validate() error {
	if c.MaxSectionLines <= SummaryLines {
		return fmt.Errorf("%w: got %d, need more than %d", ErrThresholdTooSmall, c.MaxSectionLines, SummaryLines)
	}
	return nil
}

func (c Config) patternsDir() string {
	if c.PatternsDir == "" {
		return DefaultPatternsDir
	}
	return c.PatternsDir
}

// Opportunity is a section long enough to be worth extracting.
type Opportunity struct {
	Section string `json:"section"`
	// Index is the position of the section in Plan.Sections.
	Index             int    `json:"index"`
	Slug              string `json:"slug"`
	CurrentLines      int    `json:"current_lines"`
	CodeBlocks        int    `json:"code_blocks"`
	EstimatedSavings  int    `json:"estimated_savings"`
	RecommendedAction string `json:"recommended_action"`
}

// Plan is the report of one analysis pass over a document. It is built
// fresh on every call and never persisted.
type Plan struct {
	Sections         []markdown.Section `json:"sections"`
	Opportunities    []Opportunity      `json:"opportunities"`
	TotalLines       int                `json:"total_lines"`
	PotentialSavings int                `json:"potential_savings"`
	ProjectedSize    int                `json:"projected_size"`
	MaxSectionLines  int                `json:"max_section_lines"`
}

// Analyze classifies every section of doc. A section becomes an
// opportunity only when its line count is strictly greater than
// cfg.MaxSectionLines. A non-positive threshold falls back to the default;
// a threshold of SummaryLines or less is raised to SummaryLines+1 so every
// opportunity saves at least one line.
func Analyze(doc *markdown.Document, cfg Config) *Plan {
	switch {
	case cfg.MaxSectionLines <= 0:
		cfg.MaxSectionLines = DefaultMaxSectionLines
	case cfg.MaxSectionLines <= SummaryLines:
		cfg.MaxSectionLines = SummaryLines + 1
	}

	plan := &Plan{
		Sections:        doc.Sections,
		Opportunities:   []Opportunity{},
		TotalLines:      doc.TotalLines,
		MaxSectionLines: cfg.MaxSectionLines,
	}

	slugs := markdown.NewSlugSet()
	slugs.Reserved = cfg.Reserved
	for i, s := range doc.Sections {
		lines := s.LineCount()
		if lines <= cfg.MaxSectionLines {
			continue
		}
		slug := slugs.Next(s.Name)
		opp := Opportunity{
			Section:           s.Name,
			Index:             i,
			Slug:              slug,
			CurrentLines:      lines,
			CodeBlocks:        s.CodeBlockCount,
			EstimatedSavings:  savings(lines),
			RecommendedAction: "Extract to " + path.Join(cfg.patternsDir(), slug+".md"),
		}
		plan.Opportunities = append(plan.Opportunities, opp)
		plan.PotentialSavings += opp.EstimatedSavings
	}

	plan.ProjectedSize = plan.TotalLines - plan.PotentialSavings
	return plan
}

// savings is what extracting a section of the given length saves.
func savings(lines int) int {
	if lines <= SummaryLines {
		return 0
	}
	return lines - SummaryLines
}

// HasOpportunities reports whether anything should be extracted.
func (p *Plan) HasOpportunities() bool {
	return len(p.Opportunities) > 0
}

// Indexes returns the section indexes of every opportunity, in document
// order.
func (p *Plan) Indexes() []int {
	idx := make([]int, 0, len(p.Opportunities))
	for _, o := range p.Opportunities {
		idx = append(idx, o.Index)
	}
	return idx
}
