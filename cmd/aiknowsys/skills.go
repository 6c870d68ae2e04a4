package main

import (
	"github.com/spf13/cobra"

	"github.com/aiknowsys/aiknowsys/internal/output"
	"github.com/aiknowsys/aiknowsys/internal/skill"
)

// newSkillsCmd creates the skills command.
func newSkillsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List skill and agent definitions",
		Long: `List the skills and agents defined in the project.

Skills are read from <skills_dir>/<name>/SKILL.md and agents from
<agents_dir>/*.md. Name and description come from the YAML frontmatter;
a file without a name is listed under its directory or file name.

Examples:
  aiknowsys skills              # List everything
  aiknowsys skills show tdd     # Print one definition`,
		Args: cobra.NoArgs,
		RunE: runSkillsList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print a skill or agent definition",
		Args:  cobra.ExactArgs(1),
		RunE:  runSkillsShow,
	})

	return cmd
}

// loadDefinitions lists definitions, reporting unreadable files as a warning.
func loadDefinitions(cmd *cobra.Command, printer *output.Printer) ([]skill.Definition, error) {
	proj, err := loadProject(cmd)
	if err != nil {
		return nil, err
	}
	defs, err := skill.List(proj.root, proj.cfg.SkillsDir, proj.cfg.AgentsDir)
	if err != nil {
		printer.Stderr("Warning: %v\n", err)
	}
	return defs, nil
}

// runSkillsList executes the skills command.
func runSkillsList(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	defs, err := loadDefinitions(cmd, printer)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		if defs == nil {
			defs = []skill.Definition{}
		}
		return printer.WriteJSON(map[string]any{"count": len(defs), "definitions": defs})
	}

	if len(defs) == 0 {
		printer.Print("No skills or agents found\n")
		return nil
	}

	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, []string{d.Name, string(d.Kind), d.Description})
	}
	printer.Table([]string{"NAME", "KIND", "DESCRIPTION"}, rows)
	return nil
}

// runSkillsShow executes the skills show command.
func runSkillsShow(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	defs, err := loadDefinitions(cmd, printer)
	if err != nil {
		printer.Error(err)
		return err
	}

	def, ok := skill.Find(defs, args[0])
	if !ok {
		err := output.NewUserError("no skill or agent named " + args[0])
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"name":        def.Name,
			"kind":        def.Kind,
			"description": def.Description,
			"path":        def.Path,
			"content":     def.Content,
		})
	}

	printer.Box(def.Name, def.Description+"\n"+def.Path)
	printer.Println()
	printer.Println(def.Content)
	return nil
}
