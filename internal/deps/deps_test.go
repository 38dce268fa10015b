package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckAll(t *testing.T) {
	present := writeStub(t, t.TempDir(), "present")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary", Optional: true},
		{Name: "Blank", Command: "  "},
	}

	statuses := CheckAll(reqs)
	if len(statuses) != len(reqs) {
		t.Fatalf("expected %d statuses, got %d", len(reqs), len(statuses))
	}

	if got := statuses[0]; !got.Found || got.Path != present || got.Detail != "" {
		t.Fatalf("unexpected status for present binary: %#v", got)
	}

	missing := statuses[1]
	if missing.Found || missing.Path != "" || !missing.Optional {
		t.Fatalf("unexpected status for missing binary: %#v", missing)
	}
	if !strings.Contains(missing.Detail, "clearly-not-present-binary") {
		t.Fatalf("expected detail to name the command, got %q", missing.Detail)
	}

	if blank := statuses[2]; blank.Found || blank.Detail != "command not configured" || blank.Command != "" {
		t.Fatalf("unexpected status for blank command: %#v", blank)
	}
}

func TestResolveSearchesPath(t *testing.T) {
	binDir := t.TempDir()
	stub := writeStub(t, binDir, "exiftool")
	t.Setenv("PATH", binDir)

	path, ok := Resolve("exiftool")
	if !ok || path != stub {
		t.Fatalf("Resolve = %q, %v", path, ok)
	}
	if _, ok := Resolve(""); ok {
		t.Fatal("expected empty command to be unresolved")
	}
}
