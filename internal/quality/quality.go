// Package quality inspects a project's knowledge files and reports
// problems as pass/warn/fail checks.
package quality

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/aiknowsys/aiknowsys/internal/config"
	"github.com/aiknowsys/aiknowsys/internal/markdown"
	"github.com/aiknowsys/aiknowsys/internal/patterns"
	"github.com/aiknowsys/aiknowsys/internal/verbosity"
)

// Status is the outcome of a single check.
type Status string

// Check statuses.
const (
	Pass Status = "pass"
	Warn Status = "warn"
	Fail Status = "fail"
)

// Check identifiers.
const (
	CheckEssentialsExists  = "essentials_exists"
	CheckEssentialsSize    = "essentials_size"
	CheckSectionLength     = "section_length"
	CheckDuplicateSections = "duplicate_sections"
	CheckValidationMatrix  = "validation_matrix"
	CheckPatternLinks      = "pattern_links"
	CheckCodeFences        = "code_fences"
	CheckPlaceholders      = "placeholders"
	CheckAgentsFile        = "agents_file"
)

// ValidationMatrixSection is the section every essentials file should have.
const ValidationMatrixSection = "Validation Matrix"

// Check is the result of one inspection.
type Check struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// Summary counts checks by status.
type Summary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

// Report holds every check run against a project.
type Report struct {
	Essentials string  `json:"essentials"`
	Checks     []Check `json:"checks"`
	Summary    Summary `json:"summary"`
}

// Failed reports whether any check failed.
func (r *Report) Failed() bool {
	return r.Summary.Failed > 0
}

// Problems returns only the checks that did not pass.
func (r *Report) Problems() []Check {
	return slices.DeleteFunc(slices.Clone(r.Checks), func(c Check) bool { return c.Status == Pass })
}

var placeholderPattern = regexp.MustCompile(`\{\{[A-Z][A-Z0-9_]*\}\}`)

// Run checks the knowledge files of the project at root. Only an
// unreadable essentials file is an error; a missing one is a failed check.
func Run(root string, cfg *config.Config) (*Report, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	report := &Report{Essentials: filepath.ToSlash(cfg.Essentials)}

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(cfg.Essentials)))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		report.add(Check{
			ID: CheckEssentialsExists, Name: "Essentials File", Status: Fail,
			Message: cfg.Essentials + " not found",
			Hint:    "Run 'aiknowsys init' to create it",
		})
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", cfg.Essentials, err)
	default:
		report.add(Check{
			ID: CheckEssentialsExists, Name: "Essentials File", Status: Pass,
			Message: cfg.Essentials + " exists",
		})
		text := string(data)
		doc := markdown.Parse(text)
		report.add(checkSize(doc, cfg))
		report.add(checkSectionLength(doc, cfg))
		report.add(checkDuplicates(doc))
		report.add(checkValidationMatrix(doc))
		report.add(checkPatternLinks(root, text, cfg))
		report.add(checkCodeFences(doc))
		report.add(checkPlaceholders(text))
	}

	report.add(checkAgentsFile(root, cfg))
	return report, nil
}

func (r *Report) add(c Check) {
	r.Checks = append(r.Checks, c)
	switch c.Status {
	case Pass:
		r.Summary.Passed++
	case Warn:
		r.Summary.Warnings++
	case Fail:
		r.Summary.Failed++
	}
}

func checkSize(doc *markdown.Document, cfg *config.Config) Check {
	c := Check{ID: CheckEssentialsSize, Name: "Essentials Size"}
	limit := cfg.Quality.MaxEssentialsLines
	if limit > 0 && doc.TotalLines > limit {
		c.Status = Warn
		c.Message = fmt.Sprintf("%d lines, above the %d line budget", doc.TotalLines, limit)
		c.Hint = "Run 'aiknowsys compress-essentials --auto' to move long sections out"
		return c
	}
	c.Status = Pass
	c.Message = fmt.Sprintf("%d lines", doc.TotalLines)
	return c
}

func checkSectionLength(doc *markdown.Document, cfg *config.Config) Check {
	c := Check{ID: CheckSectionLength, Name: "Section Length"}
	plan := verbosity.Analyze(doc, cfg.Verbosity())
	if !plan.HasOpportunities() {
		c.Status = Pass
		c.Message = fmt.Sprintf("all sections within %d lines", plan.MaxSectionLines)
		return c
	}

	names := make([]string, 0, len(plan.Opportunities))
	for _, o := range plan.Opportunities {
		names = append(names, fmt.Sprintf("%s (%d)", o.Section, o.CurrentLines))
	}
	c.Status = Warn
	c.Message = fmt.Sprintf("%d section(s) over %d lines: %s",
		len(plan.Opportunities), plan.MaxSectionLines, strings.Join(names, ", "))
	c.Hint = fmt.Sprintf("Run 'aiknowsys compress-essentials --auto' to save about %d lines", plan.PotentialSavings)
	return c
}

func checkDuplicates(doc *markdown.Document) Check {
	c := Check{ID: CheckDuplicateSections, Name: "Duplicate Sections"}
	dups := verbosity.FindDuplicates(doc)
	if len(dups) == 0 {
		c.Status = Pass
		c.Message = "no repeated sections"
		return c
	}

	parts := make([]string, 0, len(dups))
	for _, d := range dups {
		parts = append(parts, fmt.Sprintf("%s %q x%d", d.Kind, d.Name, len(d.Indexes)))
	}
	c.Status = Warn
	c.Message = strings.Join(parts, "; ")
	c.Hint = "Run 'aiknowsys compress-essentials --dedupe' to merge or reference them"
	return c
}

func checkValidationMatrix(doc *markdown.Document) Check {
	c := Check{ID: CheckValidationMatrix, Name: "Validation Matrix"}
	if doc.Find(ValidationMatrixSection) >= 0 {
		c.Status = Pass
		c.Message = "section present"
		return c
	}
	c.Status = Warn
	c.Message = "no \"" + ValidationMatrixSection + "\" section"
	c.Hint = "List the commands agents must run before finishing a change"
	return c
}

func checkPatternLinks(root, text string, cfg *config.Config) Check {
	c := Check{ID: CheckPatternLinks, Name: "Pattern Links"}
	docDir := path.Dir(filepath.ToSlash(cfg.Essentials))
	dir := path.Clean(filepath.ToSlash(cfg.PatternsDir))

	var missing []string
	checked := 0
	for _, link := range markdown.Links(text) {
		target, ok := localTarget(docDir, link.Target)
		if !ok || !strings.HasPrefix(target, dir+"/") {
			continue
		}
		checked++
		if !patterns.Exists(root, target) {
			missing = append(missing, fmt.Sprintf("%s (line %d)", target, link.Line+1))
		}
	}

	if len(missing) > 0 {
		c.Status = Fail
		c.Message = "broken links: " + strings.Join(missing, ", ")
		c.Hint = "Restore the pattern files or update the links"
		return c
	}
	c.Status = Pass
	c.Message = fmt.Sprintf("%d pattern link(s) resolve", checked)
	return c
}

// localTarget resolves a link target to a slash path relative to the
// project root. URLs and pure anchors are not local.
func localTarget(docDir, target string) (string, bool) {
	if strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") {
		return "", false
	}
	target, _, _ = strings.Cut(target, "#")
	if target == "" {
		return "", false
	}
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/")), true
	}
	return path.Join(docDir, target), true
}

func checkCodeFences(doc *markdown.Document) Check {
	c := Check{ID: CheckCodeFences, Name: "Code Fences"}
	if doc.UnclosedFence {
		c.Status = Warn
		c.Message = "a code fence is never closed; everything after it is treated as code"
		c.Hint = "Close the fence with the same character and at least as many markers"
		return c
	}
	c.Status = Pass
	c.Message = "all code fences closed"
	return c
}

func checkPlaceholders(text string) Check {
	c := Check{ID: CheckPlaceholders, Name: "Template Placeholders"}
	found := placeholderPattern.FindAllString(text, -1)
	if len(found) == 0 {
		c.Status = Pass
		c.Message = "no unresolved placeholders"
		return c
	}
	slices.Sort(found)
	found = slices.Compact(found)
	c.Status = Warn
	c.Message = "unresolved: " + strings.Join(found, ", ")
	c.Hint = "Replace template placeholders with project details"
	return c
}

func checkAgentsFile(root string, cfg *config.Config) Check {
	c := Check{ID: CheckAgentsFile, Name: "Agents File"}
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(cfg.Agents)))
	if err != nil {
		c.Status = Warn
		c.Message = cfg.Agents + " not found"
		c.Hint = "Run 'aiknowsys init' to create it"
		return c
	}

	list, err := patterns.List(root, cfg.PatternsDir)
	if err == nil && len(list) > 0 && !patterns.HasIndex(string(data)) {
		c.Status = Warn
		c.Message = fmt.Sprintf("%s does not list the %d pattern file(s)", cfg.Agents, len(list))
		c.Hint = "Run 'aiknowsys sync' to add the pattern index"
		return c
	}
	c.Status = Pass
	c.Message = cfg.Agents + " exists"
	return c
}
