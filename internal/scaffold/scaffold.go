// Package scaffold creates the initial knowledge files of a project from
// embedded templates.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aiknowsys/aiknowsys/internal/config"
	"github.com/aiknowsys/aiknowsys/internal/output"
	"github.com/aiknowsys/aiknowsys/internal/tracker"
)

//go:embed templates/*.md
var templates embed.FS

// Step statuses.
const (
	StatusCreated = "created"
	StatusSkipped = "skipped"
	StatusDryRun  = "dry_run"
	StatusFailed  = "failed"
)

// Step is the outcome for one scaffolded path.
type Step struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Options configure a scaffold run.
type Options struct {
	Root        string
	ProjectName string
	Date        time.Time
	Config      *config.Config
	DryRun      bool
	// Log receives rollback reports.
	Log tracker.Logger
}

type target struct {
	name     string
	rel      string
	template string
	dir      bool
}

func (o Options) targets() []target {
	return []target{
		{name: "agents", rel: o.Config.Agents, template: "AGENTS.md"},
		{name: "essentials", rel: o.Config.Essentials, template: "CODEBASE_ESSENTIALS.md"},
		{name: "changelog", rel: o.Config.Changelog, template: "CODEBASE_CHANGELOG.md"},
		{name: "config", rel: config.ProjectFile},
		{name: "patterns_dir", rel: o.Config.PatternsDir, dir: true},
	}
}

// Run creates every missing knowledge file. Existing files are skipped, so
// running it twice changes nothing. If any creation fails, everything this
// run created is removed and the error is returned with the steps so far.
func Run(opts Options) ([]Step, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.ProjectName == "" {
		opts.ProjectName = filepath.Base(opts.Root)
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}

	track := tracker.New()
	steps := make([]Step, 0, len(opts.targets()))

	for _, t := range opts.targets() {
		step := Step{Name: t.name, Path: filepath.ToSlash(t.rel)}
		abs := filepath.Join(opts.Root, filepath.FromSlash(t.rel))

		if _, err := os.Stat(abs); err == nil {
			step.Status, step.Message = StatusSkipped, "already exists"
			steps = append(steps, step)
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fail(track, opts, steps, step, err)
		}

		if opts.DryRun {
			step.Status, step.Message = StatusDryRun, "would create"
			steps = append(steps, step)
			continue
		}

		if err := create(track, opts, t, abs); err != nil {
			return fail(track, opts, steps, step, err)
		}
		step.Status = StatusCreated
		steps = append(steps, step)
	}

	return steps, nil
}

func create(track *tracker.FileTracker, opts Options, t target, abs string) error {
	if t.dir {
		return track.MkdirAll(abs, 0o755)
	}

	var data []byte
	if t.template == "" {
		var err error
		if data, err = opts.Config.Marshal(); err != nil {
			return err
		}
	} else {
		raw, err := templates.ReadFile(path.Join("templates", t.template))
		if err != nil {
			return fmt.Errorf("reading template %s: %w", t.template, err)
		}
		data = []byte(Render(string(raw), opts.values()))
	}

	if err := track.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}
	return track.WriteFile(abs, data, 0o644)
}

func fail(track *tracker.FileTracker, opts Options, steps []Step, step Step, err error) ([]Step, error) {
	_ = track.Rollback(opts.Log)
	step.Status, step.Message = StatusFailed, err.Error()
	steps = append(steps, step)
	return steps, output.NewSystemErrorWithCause(fmt.Sprintf("failed to create %s: %v", step.Path, err), err)
}

func (o Options) values() map[string]string {
	return map[string]string{
		"PROJECT_NAME": o.ProjectName,
		"DATE":         o.Date.Format(time.DateOnly),
		"ESSENTIALS":   filepath.ToSlash(o.Config.Essentials),
		"CHANGELOG":    filepath.ToSlash(o.Config.Changelog),
		"PATTERNS_DIR": filepath.ToSlash(o.Config.PatternsDir),
	}
}

// Render replaces each {{KEY}} in text with values[KEY]. Unknown keys are
// left as they are.
func Render(text string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
