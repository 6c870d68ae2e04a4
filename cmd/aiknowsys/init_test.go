package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit_CreatesFiles(t *testing.T) {
	root := t.TempDir()

	stdout, _, err := execute(t, "init", "--dir", root, "--name", "Billing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rel := range []string{"AGENTS.md", "CODEBASE_ESSENTIALS.md", "CODEBASE_CHANGELOG.md", ".aiknowsys.yaml"} {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Errorf("%s should exist: %v", rel, err)
		}
	}
	if info, err := os.Stat(filepath.Join(root, "docs", "patterns")); err != nil || !info.IsDir() {
		t.Error("patterns directory should exist")
	}
	if !strings.Contains(readProjectFile(t, root, "CODEBASE_ESSENTIALS.md"), "# Billing Codebase Essentials") {
		t.Error("project name should be substituted")
	}
	if !strings.Contains(stdout, "quality-check") {
		t.Errorf("output should suggest the next step:\n%s", stdout)
	}

	// The scaffold passes its own quality check.
	if _, _, err := execute(t, "quality-check", "--dir", root); err != nil {
		t.Errorf("quality-check after init: %v", err)
	}
}

func TestInit_Idempotent(t *testing.T) {
	root := t.TempDir()
	if _, _, err := execute(t, "init", "--dir", root); err != nil {
		t.Fatal(err)
	}
	before := readProjectFile(t, root, "AGENTS.md")

	stdout, _, err := execute(t, "init", "--dir", root, "--json")
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	result := decodeJSON(t, stdout)
	steps, ok := result["steps"].([]any)
	if !ok || len(steps) != 5 {
		t.Fatalf("steps = %v", result["steps"])
	}
	for _, s := range steps {
		if status := s.(map[string]any)["status"]; status != "skipped" {
			t.Errorf("status = %v, want skipped", status)
		}
	}
	if readProjectFile(t, root, "AGENTS.md") != before {
		t.Error("second run changed AGENTS.md")
	}
}

func TestInit_DryRun(t *testing.T) {
	root := t.TempDir()

	stdout, _, err := execute(t, "init", "--dir", root, "--dry-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "would create") {
		t.Errorf("dry run should describe the plan:\n%s", stdout)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d entries", len(entries))
	}
}

func TestInit_RollsBack(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "docs", "a file where a directory should go\n")

	_, stderr, err := execute(t, "init", "--dir", root)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(filepath.Join(root, "AGENTS.md")); !os.IsNotExist(err) {
		t.Error("AGENTS.md should have been rolled back")
	}
	if !strings.Contains(stderr, "Removed file") {
		t.Errorf("rollback should be reported on stderr: %q", stderr)
	}
}
