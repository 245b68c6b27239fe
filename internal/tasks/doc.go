// Package tasks tracks in-flight transcode jobs in memory so API clients can
// poll progress by task ID. Records for finished jobs stay resident until the
// daemon exits.
package tasks
