// Package patterns catalogs the pattern files extracted from the
// essentials document and keeps the pattern index in AGENTS.md current.
package patterns

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aiknowsys/aiknowsys/internal/markdown"
)

// Pattern is one markdown file in the patterns directory.
type Pattern struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	// Path is slash-separated and relative to the project root.
	Path  string `json:"path"`
	Lines int    `json:"lines"`
}

// List returns the pattern files in dir, relative to root, sorted by slug.
// The title is the file's first heading, or the slug when it has none.
// A missing directory yields an empty list.
func List(root, dir string) ([]Pattern, error) {
	dir = path.Clean(filepath.ToSlash(dir))
	entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(dir)))
	if errors.Is(err, fs.ErrNotExist) {
		return []Pattern{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading patterns directory %s: %w", dir, err)
	}

	found := []Pattern{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, ".") {
			continue
		}
		rel := path.Join(dir, name)
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("reading pattern %s: %w", rel, err)
		}

		slug := strings.TrimSuffix(name, ".md")
		p := Pattern{Slug: slug, Title: slug, Path: rel, Lines: markdown.CountLines(string(data))}
		if doc := markdown.Parse(string(data)); len(doc.Sections) > 0 {
			p.Title = doc.Sections[0].Title
		}
		found = append(found, p)
	}

	slices.SortFunc(found, func(a, b Pattern) int { return strings.Compare(a.Slug, b.Slug) })
	return found, nil
}

// Exists reports whether a pattern file with the given slash-separated
// path, relative to root, is present.
func Exists(root, rel string) bool {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

// Taken returns a check reporting whether dir, relative to root, already
// holds an entry named <slug>.md. Extraction skips such slugs.
func Taken(root, dir string) func(slug string) bool {
	abs := filepath.Join(root, filepath.FromSlash(path.Clean(filepath.ToSlash(dir))))
	return func(slug string) bool {
		_, err := os.Lstat(filepath.Join(abs, slug+".md"))
		return err == nil
	}
}
