package main

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aiknowsys/aiknowsys/internal/output"
	"github.com/aiknowsys/aiknowsys/internal/patterns"
	"github.com/aiknowsys/aiknowsys/internal/tracker"
)

// syncFlags holds the command-line flags for the sync command.
type syncFlags struct {
	remove bool
	dryRun bool
}

// newSyncCmd creates the sync command.
func newSyncCmd() *cobra.Command {
	flags := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Update the pattern index in AGENTS.md",
		Long: `Write the list of pattern files into AGENTS.md.

The list lives between these markers and is replaced on every run:
  ` + patterns.IndexBegin + `
  ` + patterns.IndexEnd + `

Everything outside the markers is left alone. Running sync again without
new pattern files leaves AGENTS.md byte-for-byte unchanged.

Examples:
  aiknowsys sync             # Add or refresh the index
  aiknowsys sync --dry-run   # Print the index without writing
  aiknowsys sync --remove    # Remove the index`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.remove, "remove", false, "Remove the managed index")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the index without writing")

	return cmd
}

// runSync executes the sync command.
func runSync(cmd *cobra.Command, flags *syncFlags) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	agentsPath := proj.path(proj.cfg.Agents)
	data, err := os.ReadFile(agentsPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		err = output.NewSystemErrorWithCause("failed to read "+proj.cfg.Agents, err)
		printer.Error(err)
		return err
	}
	existed := err == nil
	content := string(data)

	list, err := patterns.List(proj.root, proj.cfg.PatternsDir)
	if err != nil {
		err = output.NewSystemErrorWithCause(err.Error(), err)
		printer.Error(err)
		return err
	}

	var updated, preview, action string
	if flags.remove {
		updated = patterns.RemoveIndex(content)
		preview = updated
		action = "removed"
	} else {
		preview = patterns.RenderIndex(list, path.Dir(filepath.ToSlash(proj.cfg.Agents)))
		updated = patterns.InstallIndex(content, preview)
		action = "updated"
	}

	changed := updated != content
	switch {
	case !changed:
		action = "unchanged"
	case flags.dryRun:
		action = "dry_run"
	default:
		if err := writeAgents(agentsPath, updated, existed, printer); err != nil {
			err = output.NewSystemErrorWithCause("failed to write "+proj.cfg.Agents+": "+err.Error(), err)
			printer.Error(err)
			return err
		}
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"path":     filepath.ToSlash(proj.cfg.Agents),
			"action":   action,
			"patterns": list,
		})
	}

	switch action {
	case "dry_run":
		printer.Print("%s", preview)
	case "unchanged":
		printer.Print("%s is up to date\n", proj.cfg.Agents)
	default:
		printer.Print("%s: pattern index %s (%d pattern file(s))\n", proj.cfg.Agents, action, len(list))
	}
	return nil
}

// writeAgents replaces an existing agents file in place, or creates a new
// one, rolling the creation back if the write fails midway.
func writeAgents(path, content string, existed bool, log tracker.Logger) error {
	if existed {
		return tracker.ReplaceFile(path, []byte(content))
	}
	track := tracker.New()
	err := track.MkdirAll(filepath.Dir(path), 0o755)
	if err == nil {
		_, err = track.Upsert(path, []byte(content), 0o644)
	}
	if err != nil {
		_ = track.Rollback(log)
	}
	return err
}
