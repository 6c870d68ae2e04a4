package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aiknowsys/aiknowsys/internal/output"
	"github.com/aiknowsys/aiknowsys/internal/quality"
)

// qualityFlags holds the command-line flags for the quality-check command.
type qualityFlags struct {
	quiet bool
}

// newQualityCmd creates the quality-check command.
func newQualityCmd() *cobra.Command {
	flags := &qualityFlags{}

	cmd := &cobra.Command{
		Use:   "quality-check",
		Short: "Check the knowledge files for common problems",
		Long: `Check the project's knowledge files and suggest fixes.

Checks:
  essentials_exists   The essentials file is present
  essentials_size     The essentials file stays within its line budget
  section_length      No section is over the extraction threshold
  duplicate_sections  No section repeats another
  validation_matrix   A "Validation Matrix" section exists
  pattern_links       Every link into the patterns directory resolves
  code_fences         Every code fence is closed
  placeholders        No {{PLACEHOLDER}} from a template is left
  agents_file         AGENTS.md exists and lists the pattern files

Each check reports:
  ok  Pass
  !!  Warning - worth fixing
  XX  Fail    - the command exits with status 1

Examples:
  aiknowsys quality-check           # Run all checks
  aiknowsys quality-check --quiet   # Only show warnings and failures
  aiknowsys quality-check --json    # Output results as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuality(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Only show warnings and failures")

	return cmd
}

// runQuality executes the quality-check command.
func runQuality(cmd *cobra.Command, flags *qualityFlags) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	report, err := quality.Run(proj.root, proj.cfg)
	if err != nil {
		err = output.NewSystemErrorWithCause(err.Error(), err)
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(report); err != nil {
			return err
		}
	} else {
		outputQualityHuman(printer, report, flags.quiet)
	}

	if report.Failed() {
		return output.NewUserError(fmt.Sprintf("%d quality check(s) failed", report.Summary.Failed))
	}
	return nil
}

// outputQualityHuman outputs the report in human-readable format.
func outputQualityHuman(printer *output.Printer, report *quality.Report, quiet bool) {
	printer.Println()
	printer.Print("aiknowsys quality-check: %s\n", report.Essentials)

	checks := report.Checks
	if quiet {
		checks = report.Problems()
	}
	if len(checks) > 0 {
		printer.Println()
	}
	for _, check := range checks {
		printer.Mark(checkMark(check.Status), "%s: %s", check.Name, check.Message)
		if check.Hint != "" {
			printer.Hint(check.Hint)
		}
	}

	printer.Println()
	printer.Print("%s %d passed  %s %d warnings  %s %d failed\n",
		printer.Badge(output.MarkOK), report.Summary.Passed,
		printer.Badge(output.MarkWarn), report.Summary.Warnings,
		printer.Badge(output.MarkFail), report.Summary.Failed,
	)
}

// checkMark maps a check status to its status-line mark.
func checkMark(status quality.Status) output.Mark {
	switch status {
	case quality.Pass:
		return output.MarkOK
	case quality.Fail:
		return output.MarkFail
	default:
		return output.MarkWarn
	}
}
