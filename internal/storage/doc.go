// Package storage abstracts the object store that holds finished renditions,
// subtitles, and cover art. Keys are flat slash-separated paths grouped by
// content hash so every artifact for one source lives under a common prefix.
package storage
