package catalog

import "time"

// Video is the persisted metadata for one successfully transcoded source.
type Video struct {
	ID              int64
	ContentHash     string
	SourceName      string
	Resolutions     []int    // available rendition heights, ascending
	Subtitles       []string // extracted subtitle file names
	DurationSeconds float64
	CreatedAt       time.Time
}
