package inspect

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"vodforge/internal/media/ffprobe"
	"vodforge/internal/services"
)

// UndeterminedLanguage is the tag assigned to streams without language metadata.
const UndeterminedLanguage = "und"

// Codecs eligible as the primary video stream. MJPEG and PNG cover-art
// streams are deliberately absent: some containers carry thumbnails as video
// streams and those must never be selected for transcoding.
var videoCodecs = map[string]struct{}{
	"h264":   {},
	"hevc":   {},
	"vp9":    {},
	"av1":    {},
	"mpeg4":  {},
	"theora": {},
}

// Audio codecs the encode planner knows how to map.
var audioCodecs = map[string]struct{}{
	"aac":  {},
	"mp3":  {},
	"opus": {},
	"ac3":  {},
}

// VideoStream is the primary-candidate view of a container video stream.
type VideoStream struct {
	Index      int
	Codec      string
	Width      int
	Height     int
	BitrateBps int64
}

// AudioStream is a compatible audio stream.
type AudioStream struct {
	Index    int
	Codec    string
	Channels int
}

// SubtitleStream is a text stream destined for WebVTT extraction.
type SubtitleStream struct {
	Index    int
	Language string
	Forced   bool
}

// SourceProbe is the immutable result of inspecting one input file.
type SourceProbe struct {
	Path            string
	Video           VideoStream
	AudioStreams    []AudioStream
	SubtitleStreams []SubtitleStream
	DurationSeconds float64
}

// HasAudio reports whether any compatible audio stream was found.
func (p SourceProbe) HasAudio() bool { return len(p.AudioStreams) > 0 }

// HasSubtitles reports whether any subtitle stream was found.
func (p SourceProbe) HasSubtitles() bool { return len(p.SubtitleStreams) > 0 }

// Probe inspects path with ffprobe and builds the SourceProbe. It fails with
// ErrUnreadableMedia when ffprobe cannot parse the container and with
// ErrNoPrimaryVideoStream when no eligible video stream exists; the latter
// distinguishes "no video at all" from "only image/thumbnail streams".
func Probe(ctx context.Context, ffprobeBinary, path string) (SourceProbe, error) {
	raw, err := ffprobe.Inspect(ctx, ffprobeBinary, path)
	if err != nil {
		return SourceProbe{}, services.Wrap(services.ErrUnreadableMedia, "inspect", "probe", path, err)
	}
	return FromResult(path, raw)
}

// FromResult builds a SourceProbe from already-decoded ffprobe output.
// Split out from Probe so tests can feed synthetic results.
func FromResult(path string, raw ffprobe.Result) (SourceProbe, error) {
	probe := SourceProbe{Path: path, DurationSeconds: raw.DurationSeconds()}

	videoSeen := 0
	primaryFound := false
	for _, stream := range raw.Streams {
		switch {
		case stream.IsType("video"):
			videoSeen++
			if primaryFound {
				continue
			}
			codec := strings.ToLower(strings.TrimSpace(stream.CodecName))
			if _, ok := videoCodecs[codec]; !ok {
				continue
			}
			if stream.Disposition.AttachedPic != 0 {
				continue
			}
			probe.Video = VideoStream{
				Index:      stream.Index,
				Codec:      codec,
				Width:      stream.Width,
				Height:     stream.Height,
				BitrateBps: stream.BitRateBps(),
			}
			primaryFound = true
		case stream.IsType("audio"):
			codec := strings.ToLower(strings.TrimSpace(stream.CodecName))
			if _, ok := audioCodecs[codec]; !ok {
				continue
			}
			probe.AudioStreams = append(probe.AudioStreams, AudioStream{
				Index:    stream.Index,
				Codec:    codec,
				Channels: stream.Channels,
			})
		case stream.IsType("subtitle"):
			probe.SubtitleStreams = append(probe.SubtitleStreams, SubtitleStream{
				Index:    stream.Index,
				Language: NormalizeLanguage(stream.Tag("language")),
				Forced:   stream.Disposition.Forced != 0,
			})
		}
	}

	if !primaryFound {
		message := "container has no video streams"
		if videoSeen > 0 {
			message = "container has only image/thumbnail video streams (mjpeg or similar)"
		}
		return SourceProbe{}, services.Wrap(services.ErrNoPrimaryVideoStream, "inspect", "select primary", message, nil)
	}
	return probe, nil
}

// NormalizeLanguage canonicalizes a container language tag to its BCP 47
// base form ("eng" -> "en"), falling back to "und" for missing or unknown
// tags so subtitle file names stay predictable.
func NormalizeLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" || tag == UndeterminedLanguage {
		return UndeterminedLanguage
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return UndeterminedLanguage
	}
	base, confidence := parsed.Base()
	if confidence == language.No {
		return UndeterminedLanguage
	}
	return base.String()
}
