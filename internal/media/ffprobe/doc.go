// Package ffprobe executes the ffprobe binary and decodes its JSON output.
// Interpretation of the streams (allow-lists, primary selection) lives in
// internal/media/inspect.
package ffprobe
