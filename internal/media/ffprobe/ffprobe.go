package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	BitRate     string            `json:"bit_rate"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Channels    int               `json:"channels"`
	Tags        map[string]string `json:"tags"`
	Disposition Disposition       `json:"disposition"`
}

// Disposition carries the stream disposition flags this pipeline cares about.
type Disposition struct {
	Default         int `json:"default"`
	Forced          int `json:"forced"`
	AttachedPic     int `json:"attached_pic"`
	HearingImpaired int `json:"hearing_impaired"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// Tag returns a stream tag value, tolerating nil maps and case variations
// ffprobe emits across containers.
func (s Stream) Tag(key string) string {
	if len(s.Tags) == 0 {
		return ""
	}
	if value, ok := s.Tags[key]; ok {
		return value
	}
	for k, v := range s.Tags {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// IsType reports whether the stream's codec_type matches (case-insensitive).
func (s Stream) IsType(codecType string) bool {
	return strings.EqualFold(s.CodecType, codecType)
}

// BitRateBps returns the per-stream bitrate in bits per second, or 0 when
// the container does not report one.
func (s Stream) BitRateBps() int64 {
	rate := parseFloat(s.BitRate)
	if math.IsNaN(rate) || rate <= 0 {
		return 0
	}
	return int64(rate)
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
// Container-level duration is more reliable than per-stream values.
func (r Result) DurationSeconds() float64 {
	value := parseFloat(r.Format.Duration)
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	return value
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
