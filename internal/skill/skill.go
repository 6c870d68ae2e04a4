// Package skill reads the skill and agent definitions kept alongside a
// project's knowledge files.
//
// A skill lives at <skills_dir>/<name>/SKILL.md, an agent at
// <agents_dir>/<name>.md. Both are markdown with optional YAML frontmatter
// carrying name and description.
package skill

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SkillFile is the definition file inside each skill directory.
const SkillFile = "SKILL.md"

// Kind distinguishes skills from agents.
type Kind string

// Definition kinds.
const (
	KindSkill Kind = "skill"
	KindAgent Kind = "agent"
)

// Definition is one parsed skill or agent file.
type Definition struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`

	Kind Kind `yaml:"-" json:"kind"`
	// Path is slash-separated and relative to the project root.
	Path    string `yaml:"-" json:"path"`
	Content string `yaml:"-" json:"-"`
}

// Parse reads a definition from raw markdown. fallbackName is used when
// the frontmatter has no name.
func Parse(raw, fallbackName string) (*Definition, error) {
	frontmatter, content := splitFrontmatter(raw)

	var def Definition
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &def); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}
	if def.Name == "" {
		def.Name = fallbackName
	}
	def.Content = strings.TrimSpace(content)
	return &def, nil
}

// splitFrontmatter separates YAML frontmatter, delimited by --- lines at
// the top of the file, from the markdown body.
func splitFrontmatter(raw string) (frontmatter, content string) {
	raw = strings.TrimPrefix(raw, "\ufeff")
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "---") {
		return "", raw
	}

	rest := trimmed[3:]
	before, after, ok := strings.Cut(rest, "\n---")
	if !ok {
		return "", raw
	}
	// Drop the remainder of the closing delimiter line.
	if _, body, found := strings.Cut(after, "\n"); found {
		after = body
	} else {
		after = ""
	}
	return strings.TrimSpace(before), after
}

// List returns every skill under skillsDir and every agent under
// agentsDir, both relative to root. Skills come first; each group is
// sorted by name. Missing directories yield no definitions. Files with
// malformed frontmatter are reported in the returned error but do not
// hide the others.
func List(root, skillsDir, agentsDir string) ([]Definition, error) {
	skills, skillErr := listSkills(root, skillsDir)
	agents, agentErr := listAgents(root, agentsDir)
	return append(skills, agents...), errors.Join(skillErr, agentErr)
}

// Find returns the definition named name, ignoring case.
func Find(defs []Definition, name string) (*Definition, bool) {
	for i := range defs {
		if strings.EqualFold(defs[i].Name, name) {
			return &defs[i], true
		}
	}
	return nil, false
}

func listSkills(root, dir string) ([]Definition, error) {
	entries, err := readDir(filepath.Join(root, filepath.FromSlash(dir)))
	if err != nil {
		return nil, err
	}

	var defs []Definition
	var errs []error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rel := filepath.ToSlash(filepath.Join(dir, entry.Name(), SkillFile))
		def, err := load(root, rel, entry.Name())
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		def.Kind = KindSkill
		defs = append(defs, *def)
	}
	sortByName(defs)
	return defs, errors.Join(errs...)
}

func listAgents(root, dir string) ([]Definition, error) {
	entries, err := readDir(filepath.Join(root, filepath.FromSlash(dir)))
	if err != nil {
		return nil, err
	}

	var defs []Definition
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		name = strings.TrimSuffix(name, ".agent")
		rel := filepath.ToSlash(filepath.Join(dir, entry.Name()))
		def, err := load(root, rel, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		def.Kind = KindAgent
		defs = append(defs, *def)
	}
	sortByName(defs)
	return defs, errors.Join(errs...)
}

func load(root, rel, fallbackName string) (*Definition, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	def, err := Parse(string(data), fallbackName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	def.Path = rel
	return def, nil
}

func readDir(dir string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	return entries, nil
}

func sortByName(defs []Definition) {
	slices.SortFunc(defs, func(a, b Definition) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}
