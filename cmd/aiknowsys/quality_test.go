package main

import (
	"strings"
	"testing"

	"github.com/aiknowsys/aiknowsys/internal/output"
)

func TestQualityCheck_Healthy(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "CODEBASE_ESSENTIALS.md", "# E\n\n## Validation Matrix\n| go test | always |\n")
	writeProjectFile(t, root, "AGENTS.md", "# Agents\n")

	stdout, _, err := execute(t, "quality-check", "--dir", root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "9 passed") {
		t.Errorf("all checks should pass:\n%s", stdout)
	}
}

func TestQualityCheck_FailsWithoutEssentials(t *testing.T) {
	stdout, _, err := execute(t, "quality-check", "--dir", t.TempDir())
	if err == nil {
		t.Fatal("expected error when a check fails")
	}
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
	if !strings.Contains(stdout, "XX  Essentials File") {
		t.Errorf("output should show the failed check:\n%s", stdout)
	}
}

func TestQualityCheck_Quiet(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "CODEBASE_ESSENTIALS.md", "# E\n\n## Stack\nGo\n")
	writeProjectFile(t, root, "AGENTS.md", "# Agents\n")

	stdout, _, err := execute(t, "quality-check", "--dir", root, "--quiet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(stdout, "ok  ") {
		t.Errorf("quiet mode should hide passing checks:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Validation Matrix") {
		t.Errorf("quiet mode should show the warning:\n%s", stdout)
	}
}

func TestQualityCheck_JSON(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "CODEBASE_ESSENTIALS.md", "# E\n[gone](docs/patterns/gone.md)\n")

	stdout, _, err := execute(t, "quality-check", "--dir", root, "--json")
	if err == nil {
		t.Fatal("expected error for a broken pattern link")
	}

	result := decodeJSON(t, stdout)
	summary, ok := result["summary"].(map[string]any)
	if !ok {
		t.Fatalf("summary missing: %s", stdout)
	}
	if summary["failed"] != float64(1) {
		t.Errorf("failed = %v, want 1", summary["failed"])
	}
	if checks, ok := result["checks"].([]any); !ok || len(checks) != 9 {
		t.Errorf("checks = %v, want 9 entries", result["checks"])
	}
}
