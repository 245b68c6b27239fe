// Package inspect interprets raw ffprobe output into the SourceProbe model
// the pipeline plans against: an eligible primary video stream, compatible
// audio streams, and subtitle streams with normalized language tags.
package inspect
