package main

import (
	"strings"
	"testing"
)

func TestServeCommand(t *testing.T) {
	cmd := newServeCmd()
	if cmd.Use != "serve" {
		t.Errorf("Use = %q, want serve", cmd.Use)
	}
	if err := cmd.Args(cmd, []string{"extra"}); err == nil {
		t.Error("serve should reject positional arguments")
	}
	for _, tool := range []string{"analyze_essentials", "quality_check", "list_patterns", "list_skills"} {
		if !strings.Contains(cmd.Long, tool) {
			t.Errorf("help should mention the %s tool", tool)
		}
	}
}
