package markdown

import "regexp"

// Link is an inline markdown link found outside code fences.
type Link struct {
	Text   string
	Target string
	// Line is the 0-based line the link appears on.
	Line int
}

var inlineLink = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)

// Links returns every inline link in text, in document order. Links
// inside fenced code blocks are skipped.
func Links(text string) []Link {
	var (
		links []Link
		fence fenceState
	)
	for i, line := range SplitLines(text) {
		content := trimEOL(line)
		wasOpen := fence.open
		fence.feed(content)
		if wasOpen || fence.open {
			continue
		}
		for _, m := range inlineLink.FindAllStringSubmatch(content, -1) {
			links = append(links, Link{Text: m[1], Target: m[2], Line: i})
		}
	}
	return links
}
