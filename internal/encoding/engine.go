package encoding

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Job is one encoder invocation: a plan applied to an input file.
type Job struct {
	Input           string
	Output          string
	Plan            Plan
	DurationSeconds float64
}

// Engine runs one encode job and streams progress percentages in [0, 100].
// The pipeline depends on this interface so its sequencing and progress
// accounting can be exercised with a deterministic fake.
type Engine interface {
	Encode(ctx context.Context, job Job, progress func(percent float64)) error
}

// FFmpeg invokes the ffmpeg binary with machine-readable progress output.
type FFmpeg struct {
	binary string
}

// NewFFmpeg constructs an Engine around the given ffmpeg binary. An empty
// binary resolves "ffmpeg" from PATH.
func NewFFmpeg(binary string) *FFmpeg {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{binary: binary}
}

// Encode runs ffmpeg for the job, parsing `-progress pipe:1` key=value
// output into percentage callbacks. Stderr is buffered and attached to the
// error on failure.
func (f *FFmpeg) Encode(ctx context.Context, job Job, progress func(percent float64)) error {
	if job.Input == "" {
		return errors.New("encode: input path required")
	}
	if job.Output == "" {
		return errors.New("encode: output path required")
	}

	args := append([]string{"-hide_banner", "-nostats", "-progress", "pipe:1"}, job.Plan.Args(job.Input, job.Output)...)
	cmd := commandContext(ctx, f.binary, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if percent, ok := parseProgressLine(scanner.Text(), job.DurationSeconds); ok && progress != nil {
			progress(percent)
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		_ = cmd.Wait()
		return fmt.Errorf("read ffmpeg progress: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			detail = lastLines(detail, 5)
			return fmt.Errorf("ffmpeg exited: %w: %s", err, detail)
		}
		return fmt.Errorf("ffmpeg exited: %w", err)
	}

	if progress != nil {
		progress(100)
	}
	return nil
}

// parseProgressLine interprets one `-progress` key=value line. Only
// out_time_us (elapsed media time) produces a percentage; everything else is
// ignored. Duration must be known for a percentage to be computed.
func parseProgressLine(line string, durationSeconds float64) (float64, bool) {
	line = strings.TrimSpace(line)
	if line == "" || durationSeconds <= 0 {
		return 0, false
	}
	key, value, found := strings.Cut(line, "=")
	if !found {
		return 0, false
	}
	switch key {
	case "out_time_us", "out_time_ms":
		us, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || us < 0 {
			return 0, false
		}
		percent := float64(us) / 1e6 / durationSeconds * 100
		if percent > 100 {
			percent = 100
		}
		return percent, true
	case "progress":
		if strings.TrimSpace(value) == "end" {
			return 100, true
		}
	}
	return 0, false
}

func lastLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}

var _ Engine = (*FFmpeg)(nil)
