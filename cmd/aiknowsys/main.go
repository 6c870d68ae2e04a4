// Package main provides the entry point for the aiknowsys CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/aiknowsys/aiknowsys/internal/config"
	"github.com/aiknowsys/aiknowsys/internal/git"
	"github.com/aiknowsys/aiknowsys/internal/output"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reports whether --json was given anywhere on the command line.
func isJSONMode(cmd *cobra.Command) bool {
	return stringFlag(cmd, "json") == "true"
}

// stringFlag reads a flag by name, falling back to the root's persistent
// flags so it also works before cobra has merged them.
func stringFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// newPrinter builds the printer for a command: JSON or styled text on
// stdout, warnings and rollback notes on stderr.
func newPrinter(cmd *cobra.Command) *output.Printer {
	out := cmd.OutOrStdout()
	useColor := output.ResolveColorMode(stringFlag(cmd, "color"), output.IsTTY(out))
	return output.NewPrinter(out, isJSONMode(cmd), useColor).WithStderr(cmd.ErrOrStderr())
}

// project is the resolved working context of a command.
type project struct {
	root string
	cfg  *config.Config
}

// loadProject resolves the project root (--dir, else the enclosing git
// repository, else the working directory) and loads its configuration.
func loadProject(cmd *cobra.Command) (*project, error) {
	var root string
	if dir := stringFlag(cmd, "dir"); dir != "" {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, output.NewUserError("--dir is not a directory: " + dir)
		}
		root = dir
		if abs, err := filepath.Abs(dir); err == nil {
			root = abs
		}
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, output.NewSystemErrorWithCause("failed to get working directory", err)
		}
		root = git.ProjectRoot(cmd.Context(), cwd)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, output.NewUserErrorWithCause("invalid configuration: "+err.Error(), err)
	}
	return &project{root: root, cfg: cfg}, nil
}

// path resolves a slash-separated path relative to the project root.
func (p *project) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.root, filepath.FromSlash(rel))
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	os.Exit(run())
}

func run() int {
	err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the aiknowsys CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aiknowsys",
		Short: "Keep AI agent knowledge files short and current",
		Long: `aiknowsys - Maintain the knowledge files AI coding agents read first.

aiknowsys keeps CODEBASE_ESSENTIALS.md and AGENTS.md useful by:
  - Finding sections that grew too long and moving them to pattern files
  - Checking the knowledge files for broken links and missing sections
  - Keeping the pattern index in AGENTS.md in sync
  - Serving the same checks to agents over MCP

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'aiknowsys --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", output.ColorAuto, "Color output: auto, always, never")
	cmd.PersistentFlags().String("dir", "", "Project root (default: enclosing git repository or current directory)")

	lipgloss.SetHasDarkBackground(true)

	for _, g := range commandGroups() {
		cmd.AddGroup(&cobra.Group{ID: g.id, Title: g.title})
		for _, child := range g.commands {
			child.GroupID = g.id
			cmd.AddCommand(child)
		}
	}

	return cmd
}

type commandGroup struct {
	id       string
	title    string
	commands []*cobra.Command
}

// commandGroups lists the subcommands in the order help shows them.
func commandGroups() []commandGroup {
	return []commandGroup{
		{"docs", "Docs Commands:", []*cobra.Command{newCompressCmd(), newQualityCmd(), newSyncCmd()}},
		{"knowledge", "Knowledge Commands:", []*cobra.Command{newPatternsCmd(), newSkillsCmd()}},
		{"setup", "Setup Commands:", []*cobra.Command{newInitCmd()}},
		{"agent", "Agent Commands:", []*cobra.Command{newServeCmd()}},
	}
}
