// Package staging manages per-job scratch directories under the configured
// staging root and reclaims space from jobs that never cleaned up.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// JobDir creates and returns an isolated working directory for one task.
// The directory name embeds the task ID so operators can attribute leftover
// space to a job.
func JobDir(stagingDir, taskID string) (string, error) {
	if strings.TrimSpace(stagingDir) == "" {
		return "", fmt.Errorf("staging directory not configured")
	}
	dir := filepath.Join(stagingDir, "job-"+taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create job directory: %w", err)
	}
	return dir, nil
}

// Remove deletes a job directory and everything beneath it.
func Remove(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove job directory: %w", err)
	}
	return nil
}
