package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aiknowsys/aiknowsys/internal/output"
	"github.com/aiknowsys/aiknowsys/internal/patterns"
)

// newPatternsCmd creates the patterns command.
func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List pattern files",
		Long: `List the pattern files in the patterns directory.

Pattern files hold sections moved out of the essentials file by
compress-essentials. The title is each file's first heading.`,
		Args: cobra.NoArgs,
		RunE: runPatterns,
	}
}

// runPatterns executes the patterns command.
func runPatterns(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	list, err := patterns.List(proj.root, proj.cfg.PatternsDir)
	if err != nil {
		err = output.NewSystemErrorWithCause(err.Error(), err)
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"dir":      proj.cfg.PatternsDir,
			"count":    len(list),
			"patterns": list,
		})
	}

	if len(list) == 0 {
		printer.Print("No pattern files in %s\n", proj.cfg.PatternsDir)
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{p.Slug, p.Title, strconv.Itoa(p.Lines)})
	}
	printer.Table([]string{"SLUG", "TITLE", "LINES"}, rows)
	return nil
}
