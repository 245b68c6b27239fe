// Package deps reports the availability of external binaries the pipeline
// shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Binary names one external command the pipeline cannot run without.
type Binary struct {
	Name    string
	Command string
}

// Status is the lookup outcome for one Binary. Command holds the resolved
// path when the binary is available.
type Status struct {
	Name      string
	Command   string
	Available bool
	Detail    string
}

// CheckBinaries resolves each command through PATH lookup. Commands that
// are already absolute paths are checked in place.
func CheckBinaries(binaries []Binary) []Status {
	results := make([]Status, 0, len(binaries))
	for _, bin := range binaries {
		status := Status{Name: bin.Name, Command: strings.TrimSpace(bin.Command)}
		if status.Command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(status.Command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", status.Command)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}
