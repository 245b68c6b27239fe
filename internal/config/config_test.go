package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vodforge/internal/config"
)

func TestDefaultsValidateAfterNormalize(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("config file should not exist")
	}
	if cfg.FFmpeg.Mode != "adaptive" {
		t.Fatalf("expected default adaptive mode, got %q", cfg.FFmpeg.Mode)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("expected PATH binaries, got %q / %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
}

func TestLoadParsesAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
staging_dir = "` + filepath.Join(dir, "staging") + `"
library_dir = "` + filepath.Join(dir, "library") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
api_bind = " 127.0.0.1:0 "

[ffmpeg]
quality = "HIGH"
mode = "single"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.FFmpeg.Quality != "high" {
		t.Fatalf("quality should be lowercased, got %q", cfg.FFmpeg.Quality)
	}
	if cfg.FFmpeg.Mode != "single" {
		t.Fatalf("mode not applied, got %q", cfg.FFmpeg.Mode)
	}
	if cfg.Paths.APIBind != "127.0.0.1:0" {
		t.Fatalf("api_bind not trimmed: %q", cfg.Paths.APIBind)
	}
	if !filepath.IsAbs(cfg.Paths.StagingDir) {
		t.Fatalf("staging dir not absolute: %q", cfg.Paths.StagingDir)
	}
}

func TestValidateRejectsBadQuality(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ffmpeg]\nquality = \"ultra\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "ffmpeg.quality") {
		t.Fatalf("expected quality validation error, got %v", err)
	}
}

func TestValidateRejectsBadMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ffmpeg]\nmode = \"parallel\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "ffmpeg.mode") {
		t.Fatalf("expected mode validation error, got %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly, exists=%v err=%v", exists, err)
	}
}
