// Package encoding decides, per ladder rung, whether the source can be
// stream-copied or must be re-encoded, builds the concrete ffmpeg invocation
// plan, and runs the ffmpeg subprocess with structured progress reporting.
package encoding
