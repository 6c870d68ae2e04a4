// Package markdown parses loosely structured markdown into a flat list of
// heading-delimited sections.
//
// The model is deliberately flat: any heading, whatever its level, ends the
// previous section. Sections never overlap, and the preamble plus every
// section's Raw span reproduces the input byte for byte:
//
//	doc := markdown.Parse(text)
//	for _, s := range doc.Sections {
//	    fmt.Println(s.Name, s.LineCount())
//	}
//	doc.String() == text // always true
//
// Lines inside ``` or ~~~ fences are never treated as headings, so
// markdown pasted inside code blocks stays part of its section.
//
// The package also provides the slugging rule used for extracted file
// names (Slugify, SlugSet), GitHub-style anchors (Anchor) and link
// scanning (Links).
package markdown
