package encoding

import (
	"fmt"

	"vodforge/internal/ladder"
	"vodforge/internal/media/inspect"
)

// CopyDecision reports per-rung stream-copy eligibility.
type CopyDecision struct {
	CanCopyVideo bool
	CanCopyAudio bool
	Reason       string
}

const (
	// geometryTolerancePx allows copy when source dimensions are within a
	// couple of pixels of the rung target (crop/pad rounding artifacts).
	geometryTolerancePx = 2

	// The bitrate band for copy: source must sit within
	// [min(lowRatio*target, lowFloorKbps), highRatio*target].
	bitrateLowRatio  = 0.2
	bitrateLowFloor  = 1000
	bitrateHighRatio = 3.0
	bitsPerKilobit   = 1000
)

// EvaluateCopy decides whether the rung can be served by stream copy instead
// of a re-encode. It is pure: same inputs always produce the same decision.
//
// Video copy requires the source codec to be h264, geometry within the
// tolerance, and, when the source bitrate is known, the bitrate inside the
// acceptance band. An unknown bitrate forces a transcode rather than risking
// an oversized or starved copy.
//
// Audio is always transcoded to AAC stereo at the rung's target bitrate; the
// container-level audio bitrate is rarely trustworthy enough to prove the
// source already matches the rung.
func EvaluateCopy(probe inspect.SourceProbe, rung ladder.Rung) CopyDecision {
	decision := CopyDecision{CanCopyAudio: false}

	if probe.Video.Codec != "h264" {
		decision.Reason = fmt.Sprintf("video codec %s requires transcode", probe.Video.Codec)
		return decision
	}
	if !withinTolerance(probe.Video.Width, rung.Width) || !withinTolerance(probe.Video.Height, rung.Height) {
		decision.Reason = fmt.Sprintf("geometry %dx%d outside ±%dpx of %dx%d",
			probe.Video.Width, probe.Video.Height, geometryTolerancePx, rung.Width, rung.Height)
		return decision
	}
	if probe.Video.BitrateBps <= 0 {
		decision.Reason = "source bitrate unknown, transcoding to guarantee rung bitrate"
		return decision
	}

	sourceKbps := float64(probe.Video.BitrateBps) / bitsPerKilobit
	target := float64(rung.VideoBitrateKbps)
	low := bitrateLowRatio * target
	if low > bitrateLowFloor {
		low = bitrateLowFloor
	}
	high := bitrateHighRatio * target
	if sourceKbps < low || sourceKbps > high {
		decision.Reason = fmt.Sprintf("source bitrate %.0fkbps outside [%.0f, %.0f]", sourceKbps, low, high)
		return decision
	}

	decision.CanCopyVideo = true
	decision.Reason = "h264 source within geometry and bitrate band"
	return decision
}

func withinTolerance(actual, target int) bool {
	delta := actual - target
	if delta < 0 {
		delta = -delta
	}
	return delta <= geometryTolerancePx
}
