package staging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"vodforge/internal/logging"
)

func TestJobDirCreatesIsolatedDirectory(t *testing.T) {
	root := t.TempDir()

	dir, err := JobDir(root, "abc-123")
	if err != nil {
		t.Fatalf("JobDir: %v", err)
	}
	if filepath.Dir(dir) != root {
		t.Errorf("job dir %s not under staging root %s", dir, root)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s, err=%v", dir, err)
	}

	other, err := JobDir(root, "def-456")
	if err != nil {
		t.Fatalf("JobDir second: %v", err)
	}
	if other == dir {
		t.Error("distinct tasks must get distinct directories")
	}
}

func TestJobDirRequiresStagingRoot(t *testing.T) {
	if _, err := JobDir("   ", "task"); err == nil {
		t.Fatal("expected error for empty staging root")
	}
}

func TestRemoveDeletesRecursively(t *testing.T) {
	root := t.TempDir()
	dir, err := JobDir(root, "t")
	if err != nil {
		t.Fatalf("JobDir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "partial.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := Remove(dir); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("expected job directory removed")
	}

	if err := Remove(""); err != nil {
		t.Errorf("Remove empty path: %v", err)
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	oldDir := filepath.Join(tmpDir, "job-old")
	if err := os.Mkdir(oldDir, 0o755); err != nil {
		t.Fatalf("create old dir: %v", err)
	}
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldDir, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	recentDir := filepath.Join(tmpDir, "job-recent")
	if err := os.Mkdir(recentDir, 0o755); err != nil {
		t.Fatalf("create recent dir: %v", err)
	}

	result := CleanStale(tmpDir, time.Hour, logging.NewNop())

	if len(result.Removed) != 1 {
		t.Fatalf("expected 1 removed, got %d", len(result.Removed))
	}
	if result.Removed[0] != oldDir {
		t.Errorf("expected %s to be removed, got %s", oldDir, result.Removed[0])
	}

	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Error("old directory should have been removed")
	}
	if _, err := os.Stat(recentDir); err != nil {
		t.Error("recent directory should still exist")
	}
}

func TestCleanStaleIgnoresFiles(t *testing.T) {
	tmpDir := t.TempDir()

	file := filepath.Join(tmpDir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(file, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	result := CleanStale(tmpDir, time.Hour, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Errorf("files must not be swept, removed = %v", result.Removed)
	}
	if _, err := os.Stat(file); err != nil {
		t.Error("file should still exist")
	}
}

func TestListDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	dir := filepath.Join(tmpDir, "job-a")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "clip.mp4"), make([]byte, 512), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	dirs, err := ListDirectories(tmpDir)
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 1 {
		t.Fatalf("expected 1 directory, got %d", len(dirs))
	}
	if dirs[0].Name != "job-a" {
		t.Errorf("Name = %q, want job-a", dirs[0].Name)
	}
	if dirs[0].Size != 512 {
		t.Errorf("Size = %d, want 512", dirs[0].Size)
	}

	if dirs, err := ListDirectories(""); err != nil || dirs != nil {
		t.Errorf("empty root should return nil, nil; got %v, %v", dirs, err)
	}
}
