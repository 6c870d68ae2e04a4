package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/aiknowsys/aiknowsys/internal/markdown"
	"github.com/aiknowsys/aiknowsys/internal/output"
	"github.com/aiknowsys/aiknowsys/internal/patterns"
	"github.com/aiknowsys/aiknowsys/internal/rewrite"
	"github.com/aiknowsys/aiknowsys/internal/tracker"
	"github.com/aiknowsys/aiknowsys/internal/verbosity"
)

// compressFlags holds the command-line flags for the compress-essentials command.
type compressFlags struct {
	auto      bool
	dryRun    bool
	dedupe    bool
	merge     string
	yes       bool
	threshold int
	file      string
	section   string
}

// compressResult is the JSON shape of a compress-essentials run.
type compressResult struct {
	Path         string                  `json:"path"`
	Mode         string                  `json:"mode"`
	Plan         *verbosity.Plan         `json:"plan"`
	Duplicates   []verbosity.Duplicate   `json:"duplicates"`
	Deduplicated int                     `json:"deduplicated"`
	Merged       int                     `json:"merged"`
	Files        []rewrite.ExtractedFile `json:"files"`
	LinesBefore  int                     `json:"lines_before"`
	LinesAfter   int                     `json:"lines_after"`
}

// newCompressCmd creates the compress-essentials command.
func newCompressCmd() *cobra.Command {
	flags := &compressFlags{}

	cmd := &cobra.Command{
		Use:   "compress-essentials",
		Short: "Find and extract oversized sections of the essentials file",
		Long: `Analyze the essentials file for sections that are too long to keep inline.

Without --auto the command only reports. With --auto every section over the
threshold is moved to its own file in the patterns directory and replaced by
a short summary with a link. Nothing is lost: the pattern file holds the
section exactly as it was.

If writing any file fails, every file and directory created by the run is
removed again and the essentials file is left unchanged.

Examples:
  aiknowsys compress-essentials                     # Report oversized sections
  aiknowsys compress-essentials --auto              # Extract them
  aiknowsys compress-essentials --auto --dry-run    # Show what would be written
  aiknowsys compress-essentials --section "Testing" # Extract one section by name
  aiknowsys compress-essentials --dedupe --auto     # Reference repeated sections first
  aiknowsys compress-essentials --merge "Commands"  # Fold same-named sections into the first`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompress(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.auto, "auto", false, "Extract every oversized section")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would change without writing")
	cmd.Flags().BoolVar(&flags.dedupe, "dedupe", false, "Replace sections that repeat an earlier section with a reference")
	cmd.Flags().StringVar(&flags.merge, "merge", "", "Fold later sections with this name into the first one")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().IntVar(&flags.threshold, "threshold", 0, "Maximum section length in lines (default from config, 150)")
	cmd.Flags().StringVar(&flags.file, "file", "", "Document to compress (default from config)")
	cmd.Flags().StringVar(&flags.section, "section", "", "Extract the named section regardless of length")

	return cmd
}

// runCompress executes the compress-essentials command.
func runCompress(cmd *cobra.Command, flags *compressFlags) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	if flags.section != "" && flags.auto {
		err := output.NewUserError("--section and --auto cannot be used together")
		printer.Error(err)
		return err
	}

	cfg := proj.cfg.Verbosity()
	cfg.Reserved = patterns.Taken(proj.root, proj.cfg.PatternsDir)
	if flags.threshold != 0 {
		cfg.MaxSectionLines = flags.threshold
	}
	if err := cfg.Validate(); err != nil {
		err = output.NewUserErrorWithCause("--threshold: "+err.Error(), err)
		printer.Error(err)
		return err
	}

	docPath := flags.file
	if docPath == "" {
		docPath = proj.cfg.Essentials
	}
	doc, err := rewrite.ReadDocument(proj.path(docPath))
	if err != nil {
		printer.Error(err)
		return err
	}

	result := &compressResult{Path: docPath, Mode: "analyze", LinesBefore: doc.TotalLines}
	writeDoc := false
	if flags.dedupe {
		text, n := rewrite.Dedupe(doc)
		if n > 0 {
			doc = markdown.Parse(text)
			result.Deduplicated = n
			writeDoc = true
		}
	}
	if flags.merge != "" {
		text, n := rewrite.Merge(doc, flags.merge)
		if n > 0 {
			doc = markdown.Parse(text)
			result.Merged = n
			writeDoc = true
		} else if !printer.IsJSON() {
			printer.Warn("no repeated sections named %q, nothing to merge", flags.merge)
		}
	}

	result.Plan = verbosity.Analyze(doc, cfg)
	result.Duplicates = verbosity.FindDuplicates(doc)
	result.LinesAfter = doc.TotalLines

	rw := rewrite.NewRewriter(proj.root, proj.cfg.PatternsDir, printer)

	var indexes []int
	switch {
	case flags.section != "":
		i := doc.Find(flags.section)
		if i < 0 {
			err := output.NewUserError(fmt.Sprintf("section %q not found in %s", flags.section, docPath))
			printer.Error(err)
			return err
		}
		indexes = []int{i}
	case flags.auto:
		indexes = result.Plan.Indexes()
	case !writeDoc:
		return printCompress(printer, result)
	}

	if len(indexes) == 0 && !writeDoc {
		result.Mode = "noop"
		return printCompress(printer, result)
	}

	if flags.dryRun {
		preview, err := rw.Preview(docPath, doc, indexes)
		if err != nil {
			printer.Error(err)
			return err
		}
		result.Mode = "dry_run"
		result.Files = preview.Files
		result.LinesAfter = preview.LinesAfter
		return printCompress(printer, result)
	}

	if !flags.yes && !printer.IsJSON() && isInteractive(cmd) {
		ok, err := confirmCompress(len(indexes), result.Deduplicated+result.Merged, docPath)
		if err != nil {
			err = output.NewSystemErrorWithCause("confirmation prompt failed: "+err.Error(), err)
			printer.Error(err)
			return err
		}
		if !ok {
			printer.Print("Aborted. Nothing was changed.\n")
			return nil
		}
	}

	if len(indexes) == 0 {
		if err := tracker.ReplaceFile(proj.path(docPath), []byte(doc.String())); err != nil {
			err = output.NewSystemErrorWithCause("failed to write "+docPath, err)
			printer.Error(err)
			return err
		}
		result.Mode = "applied"
		return printCompress(printer, result)
	}

	applied, err := rw.Apply(docPath, doc, indexes)
	if err != nil {
		printer.Error(err)
		return err
	}
	result.Mode = "applied"
	result.Files = applied.Files
	result.LinesAfter = applied.LinesAfter
	return printCompress(printer, result)
}

// isInteractive reports whether the command may prompt. Tests replace it.
var isInteractive = func(cmd *cobra.Command) bool {
	return output.IsTTY(cmd.OutOrStdout())
}

// confirmCompress asks before rewriting the document on a terminal. Tests
// replace it.
var confirmCompress = func(sections, repeated int, docPath string) (bool, error) {
	title := fmt.Sprintf("Extract %d section(s) from %s?", sections, docPath)
	if sections == 0 {
		title = fmt.Sprintf("Rewrite %d repeated section(s) in %s?", repeated, docPath)
	}

	proceed := true
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description("Moved sections are written to the patterns directory unchanged.").
			Affirmative("Yes").
			Negative("No").
			Value(&proceed),
	)).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return proceed, err
}

// printCompress renders a compress-essentials result.
func printCompress(printer *output.Printer, result *compressResult) error {
	if printer.IsJSON() {
		if result.Duplicates == nil {
			result.Duplicates = []verbosity.Duplicate{}
		}
		if result.Files == nil {
			result.Files = []rewrite.ExtractedFile{}
		}
		return printer.WriteJSON(result)
	}

	plan := result.Plan
	printer.Section("Essentials Analysis")
	printer.KeyValue("File", result.Path)
	printer.KeyValue("Total lines", strconv.Itoa(plan.TotalLines))
	printer.KeyValue("Sections", strconv.Itoa(len(plan.Sections)))
	printer.KeyValue("Threshold", fmt.Sprintf("%d lines", plan.MaxSectionLines))
	printer.Println()

	if plan.HasOpportunities() {
		rows := make([][]string, 0, len(plan.Opportunities))
		for _, o := range plan.Opportunities {
			rows = append(rows, []string{
				o.Section,
				strconv.Itoa(o.CurrentLines),
				strconv.Itoa(o.CodeBlocks),
				strconv.Itoa(o.EstimatedSavings),
				o.RecommendedAction,
			})
		}
		printer.Table([]string{"SECTION", "LINES", "CODE", "SAVES", "ACTION"}, rows)
		printer.Println()
		printer.KeyValue("Potential savings", fmt.Sprintf("%d lines", plan.PotentialSavings))
		printer.KeyValue("Projected size", fmt.Sprintf("%d lines", plan.ProjectedSize))
	} else {
		printer.Print("No sections over %d lines.\n", plan.MaxSectionLines)
	}

	for _, d := range result.Duplicates {
		printer.Warn("%s duplicate %q in sections %v", d.Kind, d.Name, d.Indexes)
	}

	switch result.Mode {
	case "analyze":
		if plan.HasOpportunities() {
			printer.Println()
			printer.Print("Run 'aiknowsys compress-essentials --auto' to extract them.\n")
		}
	case "dry_run":
		printer.Println()
		printer.Print("Dry run, nothing written. Would create:\n")
		printFiles(printer, result)
	case "applied":
		printer.Println()
		if result.Deduplicated > 0 {
			printer.Print("Replaced %d duplicated section(s) with references.\n", result.Deduplicated)
		}
		if result.Merged > 0 {
			printer.Print("Merged %d section(s) into the first of the same name.\n", result.Merged)
		}
		if len(result.Files) > 0 {
			printer.Print("Created:\n")
		}
		printFiles(printer, result)
	}
	return nil
}

func printFiles(printer *output.Printer, result *compressResult) {
	for _, f := range result.Files {
		printer.Print("  %s (%d lines)\n", f.Path, f.Lines)
	}
	printer.Print("%s: %d -> %d lines\n", result.Path, result.LinesBefore, result.LinesAfter)
}
