package ladder_test

import (
	"testing"

	"vodforge/internal/ladder"
)

func TestSingleModeAlwaysOneNativeRung(t *testing.T) {
	rungs, err := ladder.Plan(1920, 1080, ladder.ModeSingle)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(rungs) != 1 {
		t.Fatalf("single mode must return 1 rung, got %d", len(rungs))
	}
	if rungs[0].Width != 1920 || rungs[0].Height != 1080 {
		t.Fatalf("single rung must be native, got %+v", rungs[0])
	}
	if rungs[0].VideoBitrateKbps != 5000 || rungs[0].AudioBitrateKbps != 160 {
		t.Fatalf("1080 preset bitrates expected, got %+v", rungs[0])
	}
}

func TestAdaptiveCardinalityAndOrdering(t *testing.T) {
	cases := []struct {
		w, h int
	}{
		{640, 360},
		{1280, 720},
		{1920, 1080},
		{2560, 1440},
		{3840, 2160},
		{4096, 2304},
	}
	for _, tc := range cases {
		rungs, err := ladder.Plan(tc.w, tc.h, ladder.ModeAdaptive)
		if err != nil {
			t.Fatalf("Plan(%dx%d): %v", tc.w, tc.h, err)
		}
		want := ladder.PresetsBelow(tc.h) + 1
		if len(rungs) != want {
			t.Fatalf("Plan(%dx%d): expected %d rungs, got %d", tc.w, tc.h, want, len(rungs))
		}
		for i := 1; i < len(rungs); i++ {
			if rungs[i].Height <= rungs[i-1].Height {
				t.Fatalf("Plan(%dx%d): heights not strictly ascending: %+v", tc.w, tc.h, rungs)
			}
		}
		last := rungs[len(rungs)-1]
		if last.Width != tc.w || last.Height != tc.h {
			t.Fatalf("Plan(%dx%d): last rung must be native, got %+v", tc.w, tc.h, last)
		}
		for _, r := range rungs {
			if r.Width%2 != 0 {
				t.Fatalf("Plan(%dx%d): odd width in rung %+v", tc.w, tc.h, r)
			}
		}
	}
}

func TestAdaptiveBelowSmallestPreset(t *testing.T) {
	rungs, err := ladder.Plan(426, 240, ladder.ModeAdaptive)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(rungs) != 1 {
		t.Fatalf("expected only the native rung, got %+v", rungs)
	}
	if rungs[0].Height != 240 || rungs[0].Width != 426 {
		t.Fatalf("native rung wrong: %+v", rungs[0])
	}
	// Bitrates fall back to the smallest preset at or above the height.
	if rungs[0].VideoBitrateKbps != 1200 {
		t.Fatalf("expected 480p bitrate pair, got %+v", rungs[0])
	}
}

func TestScaledWidthRoundsToEven(t *testing.T) {
	// 1998x1080 (2.39:1 scope) at 480p scales to 888.0 -> 888; at 720p to
	// 1332.0 -> 1332. An anamorphic 853x480 source must never yield odd widths.
	rungs, err := ladder.Plan(853, 480, ladder.ModeAdaptive)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	// Only the native rung exists (480 is not strictly below 480) and keeps
	// the source geometry untouched, odd or not.
	if len(rungs) != 1 || rungs[0].Width != 853 {
		t.Fatalf("native geometry must be preserved exactly: %+v", rungs)
	}

	rungs, err = ladder.Plan(853, 954, ladder.ModeAdaptive)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, r := range rungs[:len(rungs)-1] {
		if r.Width%2 != 0 {
			t.Fatalf("scaled width must be even: %+v", r)
		}
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ladder.ParseMode("adaptive"); err != nil {
		t.Fatalf("ParseMode adaptive: %v", err)
	}
	if _, err := ladder.ParseMode(" SINGLE "); err != nil {
		t.Fatalf("ParseMode single: %v", err)
	}
	if _, err := ladder.ParseMode("dual"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
