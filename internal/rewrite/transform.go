package rewrite

import (
	"fmt"
	"strings"

	"github.com/aiknowsys/aiknowsys/internal/markdown"
	"github.com/aiknowsys/aiknowsys/internal/verbosity"
)

// ReplaceWithReference replaces the section at index with its heading and
// a one-line pointer to the section at target. It is used for sections
// that repeat another section's content.
func ReplaceWithReference(doc *markdown.Document, index, target int) (string, error) {
	if err := checkIndex(doc, index); err != nil {
		return "", err
	}
	if err := checkIndex(doc, target); err != nil {
		return "", err
	}
	if index == target {
		return "", fmt.Errorf("section %d cannot reference itself", index)
	}

	ref := doc.Sections[target]
	var b strings.Builder
	b.WriteString(doc.Preamble)
	for i, s := range doc.Sections {
		if i != index {
			b.WriteString(s.Raw)
			continue
		}
		eol := s.EOL()
		b.WriteString(s.Heading + eol + eol)
		fmt.Fprintf(&b, "See [%s](#%s).%s%s", ref.Title, doc.SectionAnchor(target), eol, eol)
	}
	return b.String(), nil
}

// Merge folds every section named like name into its first occurrence.
// Later bodies are appended to the first section in document order and
// their headings are dropped; everything else is copied unchanged. It
// returns the new text and how many sections were folded in.
func Merge(doc *markdown.Document, name string) (string, int) {
	first := doc.Find(name)
	if first < 0 {
		return doc.String(), 0
	}

	want := doc.Sections[first].Name
	var (
		merged  int
		extra   strings.Builder
		indexes = make(map[int]bool)
	)
	for i := first + 1; i < len(doc.Sections); i++ {
		s := doc.Sections[i]
		if !strings.EqualFold(s.Name, want) {
			continue
		}
		indexes[i] = true
		merged++
		body := s.Body
		if body != "" && !strings.HasSuffix(body, "\n") {
			body += s.EOL()
		}
		extra.WriteString(body)
	}
	if merged == 0 {
		return doc.String(), 0
	}

	var b strings.Builder
	b.WriteString(doc.Preamble)
	for i, s := range doc.Sections {
		switch {
		case indexes[i]:
			continue
		case i == first:
			raw := s.Raw
			if !strings.HasSuffix(raw, "\n") {
				raw += s.EOL()
			}
			b.WriteString(raw)
			b.WriteString(extra.String())
		default:
			b.WriteString(s.Raw)
		}
	}
	return b.String(), merged
}

func checkIndex(doc *markdown.Document, i int) error {
	if i < 0 || i >= len(doc.Sections) {
		return fmt.Errorf("section index %d out of range (document has %d sections)", i, len(doc.Sections))
	}
	return nil
}

// Dedupe replaces every section whose body repeats an earlier section's
// body with a reference to that earlier section. Sections that only share
// a name are left for Merge. It returns the new text and the number of
// sections replaced.
func Dedupe(doc *markdown.Document) (string, int) {
	text := doc.String()
	replaced := 0
	for _, d := range verbosity.FindDuplicates(doc) {
		if d.Kind != verbosity.DuplicateContent {
			continue
		}
		for _, i := range d.Indexes[1:] {
			// Replacing a section keeps its heading, so indexes stay valid.
			next, err := ReplaceWithReference(markdown.Parse(text), i, d.Indexes[0])
			if err != nil {
				continue
			}
			text = next
			replaced++
		}
	}
	return text, replaced
}
