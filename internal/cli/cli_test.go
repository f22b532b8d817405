package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestVersionVariables(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

func TestRun_VersionCommand(t *testing.T) {
	if err := Run(context.Background(), []string{"searchsync", "version"}); err != nil {
		t.Errorf("version command failed: %v", err)
	}
}

func TestRun_EnginesRoundTrip(t *testing.T) {
	// Everything through the memory store so the test leaves no files behind.
	base := []string{"searchsync", "--no-color", "--store", "memory"}

	run := func(args ...string) error {
		return Run(context.Background(), append(append([]string{}, base...), args...))
	}

	if err := run("engines", "list"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	// The memory store is per-process-invocation here, so add and list in
	// separate runs only exercise the wiring, not persistence.
	if err := run("engines", "add", "DuckDuckGo", "https://duckduckgo.com/?q={query}"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := run("engines", "add", "Bad", "no-scheme"); err == nil {
		t.Error("adding an invalid engine should fail")
	}
}

func TestRun_ImportExportAgainstSQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	docPath := filepath.Join(t.TempDir(), "export.json")
	base := []string{"searchsync", "--no-color", "--db", db}

	run := func(args ...string) error {
		return Run(context.Background(), append(append([]string{}, base...), args...))
	}

	if err := run("engines", "add", "DuckDuckGo", "https://duckduckgo.com/?q={query}"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := run("export", "-o", docPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(docPath); err != nil {
		t.Fatalf("export wrote no file: %v", err)
	}
	if err := run("validate", docPath); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if err := run("import", "--dry-run", docPath); err != nil {
		t.Fatalf("dry-run import failed: %v", err)
	}
	if err := run("stats"); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
}

func TestParsePrefValue(t *testing.T) {
	if v, ok := parsePrefValue("true").(bool); !ok || !v {
		t.Errorf("parsePrefValue(true) = %v", parsePrefValue("true"))
	}
	if v, ok := parsePrefValue("42").(int); !ok || v != 42 {
		t.Errorf("parsePrefValue(42) = %v", parsePrefValue("42"))
	}
	if v, ok := parsePrefValue("dark").(string); !ok || v != "dark" {
		t.Errorf("parsePrefValue(dark) = %v", parsePrefValue("dark"))
	}
}
