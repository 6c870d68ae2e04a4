package markdown

import "strings"

// Parse splits a markdown document into a preamble and a flat list of
// sections. Every heading line starts a new section, whatever its level,
// and the section runs until the line before the next heading. Headings
// inside fenced code blocks are ignored.
//
// Parse never fails: an empty input yields an empty document, and a file
// that ends inside a fence keeps its last section open to EOF with
// UnclosedFence set.
func Parse(text string) *Document {
	lines := SplitLines(text)
	doc := &Document{TotalLines: len(lines)}

	var (
		fence   fenceState
		current *Section
		body    strings.Builder
		pre     strings.Builder
	)

	flush := func(end int) {
		if current == nil {
			return
		}
		current.EndLine = end
		current.Body = body.String()
		current.Raw = current.Raw + current.Body
		doc.Sections = append(doc.Sections, *current)
		body.Reset()
	}

	for i, line := range lines {
		content := trimEOL(line)

		if !fence.open {
			if level, title, ok := parseHeading(content); ok {
				flush(i)
				current = &Section{
					Name:      StripOrdinal(title),
					Title:     title,
					Heading:   content,
					Level:     level,
					StartLine: i,
					Raw:       line,
				}
				continue
			}
		}

		if fence.feed(content) && current != nil {
			current.CodeBlockCount++
		}

		if current == nil {
			pre.WriteString(line)
			doc.PreambleLines++
		} else {
			body.WriteString(line)
		}
	}
	flush(len(lines))

	doc.Preamble = pre.String()
	doc.UnclosedFence = fence.open
	return doc
}

// SplitLines splits text into lines, keeping each line's terminator.
// A trailing terminator does not produce an extra empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// CountLines returns the number of lines SplitLines would produce.
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// trimEOL removes a trailing "\n" or "\r\n".
func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// parseHeading reports whether line is an ATX heading: one to six '#'
// at column 0 followed by a space or tab. It returns the level and the
// heading text with any closing '#' sequence removed.
func parseHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(line) {
		return 0, "", false
	}
	if line[level] != ' ' && line[level] != '\t' {
		return 0, "", false
	}

	title := strings.TrimSpace(line[level:])
	if trimmed := strings.TrimRight(title, "#"); trimmed != title {
		if trimmed == "" || strings.HasSuffix(trimmed, " ") || strings.HasSuffix(trimmed, "\t") {
			title = strings.TrimSpace(trimmed)
		}
	}
	return level, title, true
}

// fenceState tracks whether the scanner is inside a fenced code block.
type fenceState struct {
	open   bool
	marker byte
	length int
}

// feed advances the state with one line and reports whether the line
// closed a fenced block.
func (f *fenceState) feed(line string) bool {
	marker, length := fenceRun(line)
	if length < 3 {
		return false
	}
	if !f.open {
		f.open, f.marker, f.length = true, marker, length
		return false
	}
	if marker == f.marker && length >= f.length && strings.TrimSpace(line[length:]) == "" {
		f.open = false
		return true
	}
	return false
}

// fenceRun returns the fence character at the start of line and how many
// times it repeats. Only '`' and '~' count.
func fenceRun(line string) (byte, int) {
	if line == "" || (line[0] != '`' && line[0] != '~') {
		return 0, 0
	}
	marker := line[0]
	n := 0
	for n < len(line) && line[n] == marker {
		n++
	}
	return marker, n
}
