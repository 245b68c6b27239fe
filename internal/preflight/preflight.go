package preflight

import (
	"vodforge/internal/config"
	"vodforge/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config: directory
// access, free staging space, and external binary availability.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))
	if cfg.Paths.LibraryDir != "" {
		results = append(results, CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir))
	}

	results = append(results, CheckFreeSpace("Staging free space", cfg.Paths.StagingDir, cfg.Workflow.MinFreeStagingGiB))

	for _, status := range CheckSystemDeps(cfg) {
		result := Result{Name: status.Name, Passed: status.Available}
		if status.Available {
			result.Detail = status.Command
		} else {
			result.Detail = status.Detail
		}
		results = append(results, result)
	}

	return results
}

// AllPassed reports whether every check in results passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// CheckSystemDeps evaluates the external binaries the pipeline shells out
// to. The daemon and the CLI status command share this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Binary{
		{Name: "FFmpeg", Command: cfg.FFmpegBinary()},
		{Name: "FFprobe", Command: cfg.FFprobeBinary()},
	})
}
