// Package rewrite moves sections out of a markdown document and replaces
// them with short references, without losing a byte of the moved content.
//
// Extract is the pure text transform. Rewriter applies it to disk, tracking
// every file and directory it creates so a failure can be rolled back.
package rewrite

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aiknowsys/aiknowsys/internal/markdown"
	"github.com/aiknowsys/aiknowsys/internal/verbosity"
)

// Options control where extracted sections go.
type Options struct {
	// PatternsDir is the extraction directory, slash-separated and
	// relative to the project root.
	PatternsDir string
	// DocumentDir is the directory of the rewritten document relative to
	// the project root. Links in replacement blocks are relative to it.
	DocumentDir string
	// Reserved reports slugs that must not be used, typically because a
	// file with that name already exists.
	Reserved func(slug string) bool
}

func (o Options) patternsDir() string {
	if o.PatternsDir == "" {
		return verbosity.DefaultPatternsDir
	}
	return path.Clean(filepath.ToSlash(o.PatternsDir))
}

// ExtractedFile is one section moved into its own file.
type ExtractedFile struct {
	Section string `json:"section"`
	Slug    string `json:"slug"`
	// Path is slash-separated and relative to the project root.
	Path    string `json:"path"`
	Content string `json:"-"`
	Lines   int    `json:"lines"`
}

// Result is the outcome of an extraction.
type Result struct {
	Document    string          `json:"-"`
	Files       []ExtractedFile `json:"files"`
	LinesBefore int             `json:"lines_before"`
	LinesAfter  int             `json:"lines_after"`
}

// Extract moves the sections at the given indexes into separate files.
// Each moved section keeps its heading in the document, followed by a
// summary and a link to the new file. Sections not listed, and the
// preamble, are copied unchanged. Indexes may be in any order; duplicates
// are ignored.
func Extract(doc *markdown.Document, indexes []int, opts Options) (*Result, error) {
	selected := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		if err := checkIndex(doc, i); err != nil {
			return nil, err
		}
		selected[i] = true
	}

	slugs := markdown.NewSlugSet()
	slugs.Reserved = opts.Reserved
	dir := opts.patternsDir()

	result := &Result{LinesBefore: doc.TotalLines}
	var b strings.Builder
	b.WriteString(doc.Preamble)

	for i, s := range doc.Sections {
		if !selected[i] {
			b.WriteString(s.Raw)
			continue
		}
		slug := slugs.Next(s.Name)
		file := ExtractedFile{
			Section: s.Name,
			Slug:    slug,
			Path:    path.Join(dir, slug+".md"),
			Content: s.Raw,
			Lines:   s.LineCount(),
		}
		b.WriteString(replacement(s, file.Path, linkTarget(opts.DocumentDir, file.Path)))
		result.Files = append(result.Files, file)
	}

	result.Document = b.String()
	result.LinesAfter = markdown.CountLines(result.Document)
	return result, nil
}

// replacement builds the block that stands in for an extracted section:
// the original heading, a summary line and a link, framed by blank lines.
// It is exactly verbosity.SummaryLines lines long.
func replacement(s markdown.Section, display, target string) string {
	eol := s.EOL()
	summary := fmt.Sprintf("> **Extracted:** %d lines", s.LineCount())
	if s.CodeBlockCount > 0 {
		summary += fmt.Sprintf(" with %d code %s", s.CodeBlockCount, plural(s.CodeBlockCount, "block", "blocks"))
	}
	summary += " moved to a pattern file."
	link := fmt.Sprintf("> Full content: [%s](%s)", display, target)

	return s.Heading + eol + eol + summary + eol + link + eol + eol
}

// linkTarget returns the link from a document in docDir to a file at
// target, both relative to the project root.
func linkTarget(docDir, target string) string {
	docDir = filepath.ToSlash(docDir)
	if docDir == "" || docDir == "." {
		return target
	}
	rel, err := filepath.Rel(filepath.FromSlash(docDir), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
