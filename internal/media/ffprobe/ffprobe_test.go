package ffprobe

import (
	"encoding/json"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 1920,
      "height": 1080,
      "bit_rate": "4500000",
      "disposition": {"default": 1, "forced": 0, "attached_pic": 0}
    },
    {
      "index": 1,
      "codec_name": "aac",
      "codec_type": "audio",
      "channels": 6,
      "tags": {"LANGUAGE": "eng"}
    },
    {
      "index": 2,
      "codec_name": "subrip",
      "codec_type": "subtitle",
      "tags": {"language": "eng"},
      "disposition": {"forced": 1}
    }
  ],
  "format": {
    "filename": "in.mkv",
    "nb_streams": 3,
    "duration": "634.512000",
    "size": "356515840"
  }
}`

func TestDecode(t *testing.T) {
	var result Result
	if err := json.Unmarshal([]byte(sampleJSON), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(result.Streams) != 3 {
		t.Fatalf("expected 3 streams, got %d", len(result.Streams))
	}
	if !result.Streams[0].IsType("video") || result.Streams[0].BitRateBps() != 4500000 {
		t.Fatalf("video stream decoded wrong: %+v", result.Streams[0])
	}
	if got := result.Streams[1].Tag("language"); got != "eng" {
		t.Fatalf("expected case-insensitive tag lookup, got %q", got)
	}
	if result.Streams[2].Disposition.Forced != 1 {
		t.Fatalf("forced disposition lost: %+v", result.Streams[2].Disposition)
	}
	if got := result.DurationSeconds(); got < 634.5 || got > 634.52 {
		t.Fatalf("duration parse: %v", got)
	}
}

func TestDurationUnavailable(t *testing.T) {
	var result Result
	if got := result.DurationSeconds(); got != 0 {
		t.Fatalf("expected 0 for missing duration, got %v", got)
	}
	result.Format.Duration = "N/A"
	if got := result.DurationSeconds(); got != 0 {
		t.Fatalf("expected 0 for unparsable duration, got %v", got)
	}
}
