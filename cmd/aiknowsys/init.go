package main

import (
	"github.com/spf13/cobra"

	"github.com/aiknowsys/aiknowsys/internal/output"
	"github.com/aiknowsys/aiknowsys/internal/scaffold"
)

// initFlags holds the command-line flags for the init command.
type initFlags struct {
	dryRun bool
	name   string
}

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the knowledge files for a project",
		Long: `Create AGENTS.md, the essentials and changelog files, .aiknowsys.yaml and
the patterns directory from built-in templates.

Files that already exist are skipped, so init is safe to run again. If any
file cannot be created, everything created by the run is removed.

Examples:
  aiknowsys init                 # Scaffold the current project
  aiknowsys init --name Billing  # Set the project name used in templates
  aiknowsys init --dry-run       # Show what would be created`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would be created without writing")
	cmd.Flags().StringVar(&flags.name, "name", "", "Project name for templates (default: directory name)")

	return cmd
}

// runInit executes the init command.
func runInit(cmd *cobra.Command, flags *initFlags) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	steps, runErr := scaffold.Run(scaffold.Options{
		Root:        proj.root,
		ProjectName: flags.name,
		Config:      proj.cfg,
		DryRun:      flags.dryRun,
		Log:         printer,
	})

	if printer.IsJSON() {
		if runErr != nil {
			printer.Error(runErr)
			return runErr
		}
		return printer.WriteJSON(map[string]any{
			"status":  "ok",
			"dry_run": flags.dryRun,
			"steps":   steps,
		})
	}

	for _, step := range steps {
		printStepResult(printer, step)
	}
	if runErr != nil {
		printer.Error(runErr)
		return runErr
	}

	printer.Println()
	switch {
	case flags.dryRun:
		printer.Print("Dry run, nothing written.\n")
	default:
		printer.Print("Next: fill in %s, then run 'aiknowsys quality-check'.\n", proj.cfg.Essentials)
	}
	return nil
}

// printStepResult prints one scaffold step.
func printStepResult(printer *output.Printer, step scaffold.Step) {
	mark := output.MarkOK
	switch step.Status {
	case scaffold.StatusSkipped:
		mark = output.MarkSkip
	case scaffold.StatusDryRun:
		mark = output.MarkPlan
	case scaffold.StatusFailed:
		mark = output.MarkFail
	}
	msg := step.Status
	if step.Message != "" {
		msg = step.Message
	}
	printer.Mark(mark, "%-32s %s", step.Path, msg)
}
