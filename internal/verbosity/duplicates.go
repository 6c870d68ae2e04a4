package verbosity

import (
	"cmp"
	"slices"
	"strings"

	"github.com/aiknowsys/aiknowsys/internal/markdown"
)

// DuplicateKind says what two or more sections have in common.
type DuplicateKind string

const (
	// DuplicateName marks sections sharing the same (ordinal-stripped) name.
	DuplicateName DuplicateKind = "name"
	// DuplicateContent marks sections whose bodies are identical once
	// whitespace is normalized.
	DuplicateContent DuplicateKind = "content"
)

// minDuplicateBodyLines keeps trivial bodies ("TBD", a single link) from
// being reported as duplicated content.
const minDuplicateBodyLines = 3

// Duplicate groups sections that repeat each other. Indexes are positions
// in the parsed document, in document order; the first one is the
// original that later ones duplicate.
type Duplicate struct {
	Kind    DuplicateKind `json:"kind"`
	Name    string        `json:"name"`
	Indexes []int         `json:"indexes"`
}

// FindDuplicates reports repeated section names and repeated section
// bodies. Groups are returned in order of their first member; a name
// group sorts before a content group starting at the same section.
func FindDuplicates(doc *markdown.Document) []Duplicate {
	var (
		result   []Duplicate
		nameKeys []string
		bodyKeys []string
		names    = make(map[string][]int)
		bodies   = make(map[string][]int)
	)

	for i, s := range doc.Sections {
		key := strings.ToLower(s.Name)
		if _, seen := names[key]; !seen {
			nameKeys = append(nameKeys, key)
		}
		names[key] = append(names[key], i)

		body := normalizeBody(s.Body)
		if markdown.CountLines(body) < minDuplicateBodyLines {
			continue
		}
		if _, seen := bodies[body]; !seen {
			bodyKeys = append(bodyKeys, body)
		}
		bodies[body] = append(bodies[body], i)
	}

	for _, key := range nameKeys {
		if idx := names[key]; len(idx) > 1 {
			result = append(result, Duplicate{Kind: DuplicateName, Name: doc.Sections[idx[0]].Name, Indexes: idx})
		}
	}
	for _, key := range bodyKeys {
		if idx := bodies[key]; len(idx) > 1 {
			result = append(result, Duplicate{Kind: DuplicateContent, Name: doc.Sections[idx[0]].Name, Indexes: idx})
		}
	}

	slices.SortStableFunc(result, func(a, b Duplicate) int {
		return cmp.Compare(a.Indexes[0], b.Indexes[0])
	})
	return result
}

// normalizeBody trims every line and drops blank lines so that spacing
// differences do not hide a copy-pasted section.
func normalizeBody(body string) string {
	var b strings.Builder
	for _, line := range markdown.SplitLines(body) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
