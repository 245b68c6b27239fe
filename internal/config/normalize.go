package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFFmpeg()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	return nil
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.FFmpegBinary = strings.TrimSpace(c.FFmpeg.FFmpegBinary)
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	c.FFmpeg.Quality = strings.ToLower(strings.TrimSpace(c.FFmpeg.Quality))
	if c.FFmpeg.Quality == "" {
		c.FFmpeg.Quality = defaultQuality
	}
	c.FFmpeg.Mode = strings.ToLower(strings.TrimSpace(c.FFmpeg.Mode))
	if c.FFmpeg.Mode == "" {
		c.FFmpeg.Mode = defaultMode
	}
	c.FFmpeg.Preset = strings.TrimSpace(c.FFmpeg.Preset)
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = defaultPreset
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.StaleStagingHours <= 0 {
		c.Workflow.StaleStagingHours = defaultStaleStagingHours
	}
	if c.Workflow.ShutdownTimeout <= 0 {
		c.Workflow.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Workflow.MinFreeStagingGiB < 0 {
		c.Workflow.MinFreeStagingGiB = 0
	}
	if c.Workflow.ProgressLogBucketPct <= 0 {
		c.Workflow.ProgressLogBucketPct = defaultProgressBucketPct
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
