// Package preflight provides readiness checks for the binaries and
// filesystem paths vodforge depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and refuses submissions when a
//     required check fails, so jobs cannot begin work that is doomed.
//   - The CLI "vodforge status" command uses the same results to display
//     host health.
package preflight
