// Package ladder computes the rendition ladder for a source video: which
// target resolutions and bitrates each transcode run produces.
package ladder

import (
	"fmt"
	"strings"
)

// Mode selects between a single native rendition and a full adaptive ladder.
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeAdaptive Mode = "adaptive"
)

// ParseMode converts a config string into a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeSingle:
		return ModeSingle, nil
	case ModeAdaptive:
		return ModeAdaptive, nil
	}
	return "", fmt.Errorf("ladder: unknown mode %q", value)
}

// Rung is one rendition target. Preset rungs carry even scaled widths; the
// native rung keeps the source geometry verbatim, and the plan builder
// rounds the encode target to even where h264 4:2:0 requires it.
type Rung struct {
	Width            int
	Height           int
	VideoBitrateKbps int
	AudioBitrateKbps int
}

// Name returns the rendition label used in storage keys, e.g. "720p".
func (r Rung) Name() string {
	return fmt.Sprintf("%dp", r.Height)
}

type preset struct {
	height           int
	videoBitrateKbps int
	audioBitrateKbps int
}

// Base quality table, ascending by height. The planner never upscales: rungs
// above the source height are skipped and the final rung pins the source's
// native geometry.
var presets = []preset{
	{height: 480, videoBitrateKbps: 1200, audioBitrateKbps: 96},
	{height: 720, videoBitrateKbps: 2800, audioBitrateKbps: 128},
	{height: 1080, videoBitrateKbps: 5000, audioBitrateKbps: 160},
	{height: 1440, videoBitrateKbps: 9000, audioBitrateKbps: 192},
	{height: 2160, videoBitrateKbps: 16000, audioBitrateKbps: 192},
}

// Plan computes the ordered rendition ladder for a source of the given
// dimensions. Rungs ascend by height and the last rung always equals the
// source's native width and height.
//
// In single mode exactly one rung (native geometry) is returned. In adaptive
// mode every preset strictly below the source height is included, then a
// final native rung.
func Plan(sourceWidth, sourceHeight int, mode Mode) ([]Rung, error) {
	if sourceWidth <= 0 || sourceHeight <= 0 {
		return nil, fmt.Errorf("ladder: invalid source dimensions %dx%d", sourceWidth, sourceHeight)
	}

	native := Rung{Width: sourceWidth, Height: sourceHeight}
	native.VideoBitrateKbps, native.AudioBitrateKbps = bitratesForHeight(sourceHeight)

	if mode == ModeSingle {
		return []Rung{native}, nil
	}

	var rungs []Rung
	for _, p := range presets {
		if p.height >= sourceHeight {
			break
		}
		rungs = append(rungs, Rung{
			Width:            scaledWidth(sourceWidth, sourceHeight, p.height),
			Height:           p.height,
			VideoBitrateKbps: p.videoBitrateKbps,
			AudioBitrateKbps: p.audioBitrateKbps,
		})
	}
	rungs = append(rungs, native)
	return rungs, nil
}

// PresetsBelow returns how many preset heights lie strictly below height.
// Adaptive ladder cardinality is PresetsBelow(h) + 1.
func PresetsBelow(height int) int {
	count := 0
	for _, p := range presets {
		if p.height < height {
			count++
		}
	}
	return count
}

// bitratesForHeight picks the preset whose height equals the given height,
// else the nearest greater preset, else the largest preset as fallback.
func bitratesForHeight(height int) (videoKbps, audioKbps int) {
	for _, p := range presets {
		if p.height >= height {
			return p.videoBitrateKbps, p.audioBitrateKbps
		}
	}
	last := presets[len(presets)-1]
	return last.videoBitrateKbps, last.audioBitrateKbps
}

// scaledWidth derives the target width from the source aspect ratio, rounded
// to the nearest even integer.
func scaledWidth(sourceWidth, sourceHeight, targetHeight int) int {
	width := float64(sourceWidth) * float64(targetHeight) / float64(sourceHeight)
	even := int(width/2+0.5) * 2
	if even < 2 {
		even = 2
	}
	return even
}
