package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vodforge/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	orig := statfsFreeBytes
	defer func() { statfsFreeBytes = orig }()

	statfsFreeBytes = func(string) (uint64, error) { return 10 << 30, nil }
	if result := CheckFreeSpace("space", "/any", 5); !result.Passed {
		t.Errorf("expected pass with 10 GiB free, got: %s", result.Detail)
	}

	statfsFreeBytes = func(string) (uint64, error) { return 2 << 30, nil }
	if result := CheckFreeSpace("space", "/any", 5); result.Passed {
		t.Error("expected failure with 2 GiB free")
	}

	statfsFreeBytes = func(string) (uint64, error) { return 0, errors.New("boom") }
	if result := CheckFreeSpace("space", "/any", 5); result.Passed {
		t.Error("expected failure when statfs errors")
	}

	if result := CheckFreeSpace("space", "/any", 0); !result.Passed {
		t.Error("expected pass when threshold disabled")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReportsDirectoriesAndBinaries(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StagingDir = t.TempDir()
	cfg.Paths.LibraryDir = t.TempDir()
	cfg.Workflow.MinFreeStagingGiB = 0

	results := RunAll(&cfg)
	names := map[string]bool{}
	for _, r := range results {
		names[r.Name] = true
	}
	for _, want := range []string{"Staging directory", "Library directory", "Staging free space", "FFmpeg", "FFprobe"} {
		if !names[want] {
			t.Errorf("missing check %q in results %v", want, names)
		}
	}
}

func TestAllPassed(t *testing.T) {
	if !AllPassed([]Result{{Passed: true}, {Passed: true}}) {
		t.Error("expected all-passed to be true")
	}
	if AllPassed([]Result{{Passed: true}, {Passed: false}}) {
		t.Error("expected all-passed to be false")
	}
	if !AllPassed(nil) {
		t.Error("expected empty results to pass")
	}
}
