package markdown

import "strings"

// Section is a contiguous heading-delimited span of a markdown document.
//
// StartLine and EndLine are 0-based, half-open line offsets into the source.
// Raw holds the exact bytes of the span (heading line plus body), so a
// document can be rebuilt from its preamble and sections without loss.
type Section struct {
	// Name is the heading text with the leading #s and any ordinal
	// prefix ("2. ") removed.
	Name string `json:"name"`
	// Title is the heading text with the leading #s removed; ordinal
	// prefixes are kept.
	Title string `json:"title"`
	// Heading is the original heading line without its line terminator.
	Heading string `json:"heading"`
	Level   int    `json:"level"`

	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`

	// Body is the raw text between the heading line and the next heading.
	Body string `json:"-"`
	// Raw is the full span: heading line, terminator and body.
	Raw string `json:"-"`

	CodeBlockCount int `json:"code_block_count"`
}

// LineCount returns the number of source lines the section spans,
// heading included.
func (s Section) LineCount() int {
	return s.EndLine - s.StartLine
}

// EOL returns the line terminator used by the heading line, defaulting to
// "\n" when the heading is the last line of a file without a terminator.
func (s Section) EOL() string {
	rest := s.Raw[len(s.Heading):]
	if strings.HasPrefix(rest, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// Document is the result of parsing a markdown file into flat sections.
type Document struct {
	// Preamble is the text before the first heading. It is never
	// classified or rewritten.
	Preamble      string    `json:"-"`
	PreambleLines int       `json:"preamble_lines"`
	Sections      []Section `json:"sections"`
	TotalLines    int       `json:"total_lines"`
	// UnclosedFence is true when the file ends inside a fenced code block.
	UnclosedFence bool `json:"unclosed_fence"`
}

// String reassembles the document from its preamble and section spans.
// The result is byte-identical to the parsed input.
func (d *Document) String() string {
	var b strings.Builder
	b.WriteString(d.Preamble)
	for _, s := range d.Sections {
		b.WriteString(s.Raw)
	}
	return b.String()
}

// Find returns the index of the first section whose Name matches name,
// ignoring case. Returns -1 if none matches.
func (d *Document) Find(name string) int {
	want := StripOrdinal(strings.TrimSpace(name))
	for i, s := range d.Sections {
		if strings.EqualFold(s.Name, want) {
			return i
		}
	}
	return -1
}
