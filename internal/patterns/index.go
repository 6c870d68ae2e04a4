package patterns

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

const (
	// IndexBegin marks the start of the aiknowsys-managed pattern index.
	IndexBegin = "<!-- BEGIN aiknowsys:patterns -->"
	// IndexEnd marks the end of the aiknowsys-managed pattern index.
	IndexEnd = "<!-- END aiknowsys:patterns -->"
)

// RenderIndex builds the managed block listing patterns. Links are
// relative to fromDir, the slash-separated directory of the file the
// block is written into.
func RenderIndex(list []Pattern, fromDir string) string {
	var b strings.Builder
	b.WriteString(IndexBegin + "\n")
	b.WriteString("## Pattern Library\n\n")
	b.WriteString("Detailed patterns moved out of the essentials file. Read the one that matches your task.\n\n")
	if len(list) == 0 {
		b.WriteString("_No pattern files yet._\n")
	}
	for _, p := range list {
		fmt.Fprintf(&b, "- [%s](%s) (%d lines)\n", p.Title, relativeLink(fromDir, p.Path), p.Lines)
	}
	b.WriteString(IndexEnd + "\n")
	return b.String()
}

func relativeLink(fromDir, target string) string {
	if fromDir == "" || path.Clean(fromDir) == "." {
		return target
	}
	rel, err := filepath.Rel(filepath.FromSlash(fromDir), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}

// HasIndex reports whether content contains the managed block.
func HasIndex(content string) bool {
	return strings.Contains(content, IndexBegin)
}

// InstallIndex returns content with block in place of an existing managed
// block, or appended after a blank line when there is none.
func InstallIndex(content, block string) string {
	if start, end, ok := indexBounds(content); ok {
		return content[:start] + block + content[end:]
	}
	if strings.TrimSpace(content) == "" {
		return block
	}
	return strings.TrimRight(content, "\n") + "\n\n" + block
}

// RemoveIndex returns content without the managed block, collapsing the
// blank lines left around it.
func RemoveIndex(content string) string {
	start, end, ok := indexBounds(content)
	if !ok {
		return content
	}
	result := content[:start] + content[end:]
	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}
	result = strings.TrimRight(result, "\n")
	if result == "" {
		return ""
	}
	return result + "\n"
}

// indexBounds locates the block from the start of its begin marker line
// through the newline ending its end marker line.
func indexBounds(content string) (start, end int, ok bool) {
	start = strings.Index(content, IndexBegin)
	if start < 0 {
		return 0, 0, false
	}
	rel := strings.Index(content[start:], IndexEnd)
	if rel < 0 {
		return 0, 0, false
	}
	end = start + rel + len(IndexEnd)
	if nl := strings.IndexByte(content[end:], '\n'); nl >= 0 && strings.TrimSpace(content[end:end+nl]) == "" {
		end += nl + 1
	}
	return start, end, true
}
