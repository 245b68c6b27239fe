package encoding

import "testing"

func TestParseProgressLine(t *testing.T) {
	cases := []struct {
		line     string
		duration float64
		want     float64
		ok       bool
	}{
		{"out_time_us=30000000", 60, 50, true},
		{"out_time_ms=30000000", 60, 50, true},
		{"out_time_us=90000000", 60, 100, true}, // clamped
		{"progress=end", 60, 100, true},
		{"progress=continue", 60, 0, false},
		{"frame=1234", 60, 0, false},
		{"out_time_us=30000000", 0, 0, false}, // unknown duration
		{"out_time_us=bogus", 60, 0, false},
		{"", 60, 0, false},
	}
	for _, tc := range cases {
		got, ok := parseProgressLine(tc.line, tc.duration)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("parseProgressLine(%q, %v) = (%v, %v), want (%v, %v)", tc.line, tc.duration, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLastLines(t *testing.T) {
	if got := lastLines("a\nb\nc\nd", 2); got != "c | d" {
		t.Fatalf("lastLines = %q", got)
	}
	if got := lastLines("only", 5); got != "only" {
		t.Fatalf("lastLines short = %q", got)
	}
}
