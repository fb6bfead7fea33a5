package preflight_test

import (
	"os"
	"path/filepath"
	"testing"

	"episodic/internal/config"
	"episodic/internal/preflight"
)

func TestCheckDirectoryAccessPasses(t *testing.T) {
	result := preflight.CheckDirectoryAccess("Output directory", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
}

func TestCheckDirectoryAccessMissingDir(t *testing.T) {
	result := preflight.CheckDirectoryAccess("Output directory", filepath.Join(t.TempDir(), "absent"))
	if result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}
}

func TestCheckDirectoryAccessFileNotDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result := preflight.CheckDirectoryAccess("Output directory", path)
	if result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}
}

func TestRunAndFirstFailure(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "episodes")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := preflight.Run(&cfg)
	if _, failed := preflight.FirstFailure(results); failed {
		t.Fatalf("expected all checks to pass: %+v", results)
	}

	cfg.Paths.OutputDir = filepath.Join(base, "missing")
	results = preflight.Run(&cfg)
	failure, failed := preflight.FirstFailure(results)
	if !failed {
		t.Fatal("expected a failing check")
	}
	if failure.Name != "Output directory" {
		t.Fatalf("unexpected failing check: %+v", failure)
	}
}
