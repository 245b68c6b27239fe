package encoding

import (
	"fmt"
	"strconv"

	"vodforge/internal/ladder"
	"vodforge/internal/media/inspect"
)

// Quality is the global quality setting from config.
type Quality string

const (
	QualityHigh     Quality = "high"
	QualityStandard Quality = "standard"
)

// CRF values per encoder profile tier.
const (
	crfHighProfile = 18
	crfMainProfile = 23
)

// Plan is the resolved ffmpeg instruction set for one rung.
type Plan struct {
	Rung ladder.Rung

	VideoStreamIndex int
	VideoCopy        bool
	Profile          string
	CRF              int
	MaxrateKbps      int
	BufsizeKbps      int
	ScaleWidth       int
	ScaleHeight      int
	PixelFormat      string
	Preset           string

	AudioStreamIndexes []int
	AudioCopy          bool
	AudioBitrateKbps   int

	MuxSubtitles    bool
	SubtitleIndexes []int
}

// BuildPlan translates a rung plus its copy decision into a concrete plan.
// rungIndex/ladderSize identify the top-of-ladder rung: only that rung gets
// the "high" h264 profile, and only under the high quality setting.
//
// The bitrate cap never exceeds a known source bitrate on the native (last)
// rung: encoding the native rendition above its own source bitrate would
// just inflate the file.
func BuildPlan(rung ladder.Rung, rungIndex, ladderSize int, probe inspect.SourceProbe, decision CopyDecision, quality Quality, preset string) Plan {
	plan := Plan{
		Rung:             rung,
		VideoStreamIndex: probe.Video.Index,
		VideoCopy:        decision.CanCopyVideo,
		AudioCopy:        decision.CanCopyAudio,
		AudioBitrateKbps: rung.AudioBitrateKbps,
		Preset:           preset,
	}

	if !plan.VideoCopy {
		topRung := rungIndex == ladderSize-1
		if topRung && quality == QualityHigh {
			plan.Profile = "high"
			plan.CRF = crfHighProfile
		} else {
			plan.Profile = "main"
			plan.CRF = crfMainProfile
		}
		plan.ScaleWidth = evenDimension(rung.Width)
		plan.ScaleHeight = evenDimension(rung.Height)
		plan.PixelFormat = "yuv420p"

		cap := rung.VideoBitrateKbps
		if topRung && probe.Video.BitrateBps > 0 {
			sourceKbps := int(probe.Video.BitrateBps / bitsPerKilobit)
			if sourceKbps > 0 && sourceKbps < cap {
				cap = sourceKbps
			}
		}
		plan.MaxrateKbps = cap
		plan.BufsizeKbps = 2 * cap
	}

	for _, audio := range probe.AudioStreams {
		plan.AudioStreamIndexes = append(plan.AudioStreamIndexes, audio.Index)
	}
	for _, sub := range probe.SubtitleStreams {
		plan.SubtitleIndexes = append(plan.SubtitleIndexes, sub.Index)
	}
	plan.MuxSubtitles = len(plan.SubtitleIndexes) > 0

	return plan
}

// IsFullCopy reports whether the plan needs no encoder at all: the container
// can be repackaged by copying bytes. That requires copyable video, no audio
// to transcode, and no subtitles to mux.
func (p Plan) IsFullCopy() bool {
	return p.VideoCopy && len(p.AudioStreamIndexes) == 0 && !p.MuxSubtitles
}

// Args assembles the ffmpeg argument list for the plan.
func (p Plan) Args(inputPath, outputPath string) []string {
	args := []string{"-y", "-i", inputPath, "-map", streamSpec(p.VideoStreamIndex)}

	if p.VideoCopy {
		args = append(args, "-c:v", "copy")
	} else {
		args = append(args,
			"-c:v", "libx264",
			"-profile:v", p.Profile,
			"-preset", p.Preset,
			"-crf", strconv.Itoa(p.CRF),
			"-vf", fmt.Sprintf("scale=%d:%d", p.ScaleWidth, p.ScaleHeight),
			"-pix_fmt", p.PixelFormat,
			"-maxrate", kbps(p.MaxrateKbps),
			"-bufsize", kbps(p.BufsizeKbps),
		)
	}

	if len(p.AudioStreamIndexes) == 0 {
		args = append(args, "-an")
	} else {
		for _, index := range p.AudioStreamIndexes {
			args = append(args, "-map", streamSpec(index))
		}
		if p.AudioCopy {
			args = append(args, "-c:a", "copy")
		} else {
			args = append(args, "-c:a", "aac", "-ac", "2", "-b:a", kbps(p.AudioBitrateKbps))
		}
	}

	if p.MuxSubtitles {
		for _, index := range p.SubtitleIndexes {
			args = append(args, "-map", streamSpec(index))
		}
		args = append(args, "-c:s", "mov_text")
	} else {
		args = append(args, "-sn")
	}

	args = append(args, "-movflags", "+faststart", outputPath)
	return args
}

// evenDimension truncates to the nearest even value. libx264 with 4:2:0
// output rejects odd frame sizes, so a native rung from an odd-geometry
// source loses at most one pixel per axis in the scale target while the
// rung itself keeps the source's reported height.
func evenDimension(v int) int {
	if v < 2 {
		return 2
	}
	return v / 2 * 2
}

func streamSpec(index int) string {
	return fmt.Sprintf("0:%d", index)
}

func kbps(value int) string {
	return fmt.Sprintf("%dk", value)
}
