package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// fallbackSlug is used when a heading has no ASCII letters or digits.
const fallbackSlug = "section"

var ordinalPrefix = regexp.MustCompile(`^(\d+(\.\d+)*\.|\d+(\.\d+)+)\s+`)

// StripOrdinal removes a leading numbering prefix such as "2. " or
// "3.1 " from a heading title.
func StripOrdinal(title string) string {
	return ordinalPrefix.ReplaceAllString(title, "")
}

// Slugify derives a filesystem-safe name from a heading: lowercase ASCII
// letters and digits, every other run of characters collapsed into a
// single hyphen, no leading or trailing hyphens.
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}

// Anchor returns the GitHub-style fragment for a heading title: lowercase,
// punctuation dropped, spaces turned into hyphens.
func Anchor(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// SlugSet hands out unique slugs. The first request for a slug gets it
// unchanged; later requests get "-2", "-3", ... appended.
type SlugSet struct {
	taken map[string]bool
	// Reserved, if set, reports slugs that are unavailable for reasons
	// outside the set (for example a file that already exists).
	Reserved func(slug string) bool
}

// NewSlugSet returns an empty SlugSet.
func NewSlugSet() *SlugSet {
	return &SlugSet{taken: make(map[string]bool)}
}

// Next returns a unique slug for name and marks it taken.
func (s *SlugSet) Next(name string) string {
	base := Slugify(name)
	slug := base
	for n := 2; s.unavailable(slug); n++ {
		slug = base + "-" + strconv.Itoa(n)
	}
	s.taken[slug] = true
	return slug
}

func (s *SlugSet) unavailable(slug string) bool {
	if s.taken[slug] {
		return true
	}
	return s.Reserved != nil && s.Reserved(slug)
}

// SectionAnchor returns the GitHub fragment that links to the section at
// index. A title repeated earlier in the document gets "-1", "-2", ...
// appended, counting the earlier sections with the same anchor.
func (d *Document) SectionAnchor(index int) string {
	base := Anchor(d.Sections[index].Title)
	seen := 0
	for _, s := range d.Sections[:index] {
		if Anchor(s.Title) == base {
			seen++
		}
	}
	if seen == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(seen)
}
