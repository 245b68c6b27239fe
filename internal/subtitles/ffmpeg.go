package subtitles

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// FFmpegConverter converts subtitle streams to WebVTT via the ffmpeg binary.
type FFmpegConverter struct {
	binary string
}

// NewFFmpegConverter constructs a converter around the given ffmpeg binary.
// An empty binary resolves "ffmpeg" from PATH.
func NewFFmpegConverter(binary string) *FFmpegConverter {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegConverter{binary: binary}
}

// Convert extracts a single subtitle stream as WebVTT.
func (c *FFmpegConverter) Convert(ctx context.Context, sourcePath string, streamIndex int, outputPath string) error {
	args := []string{
		"-hide_banner", "-nostats", "-y",
		"-i", sourcePath,
		"-map", fmt.Sprintf("0:%d", streamIndex),
		"-c:s", "webvtt",
		outputPath,
	}
	cmd := commandContext(ctx, c.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("ffmpeg subtitle convert: %w: %s", err, detail)
		}
		return fmt.Errorf("ffmpeg subtitle convert: %w", err)
	}
	return nil
}

var _ Converter = (*FFmpegConverter)(nil)
