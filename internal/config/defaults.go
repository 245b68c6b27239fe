package config

const (
	defaultStagingDir        = "~/.local/share/vodforge/staging"
	defaultLibraryDir        = "~/library"
	defaultLogDir            = "~/.local/share/vodforge/logs"
	defaultAPIBind           = "127.0.0.1:7512"
	defaultQuality           = "standard"
	defaultMode              = "adaptive"
	defaultPreset            = "fast"
	defaultLogFormat         = "auto"
	defaultLogLevel          = "info"
	defaultStaleStagingHours = 24
	defaultShutdownTimeout   = 30
	defaultMinFreeStagingGiB = 5
	defaultProgressBucketPct = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		FFmpeg: FFmpeg{
			Quality: defaultQuality,
			Mode:    defaultMode,
			Preset:  defaultPreset,
		},
		Workflow: Workflow{
			StaleStagingHours:    defaultStaleStagingHours,
			ShutdownTimeout:      defaultShutdownTimeout,
			MinFreeStagingGiB:    defaultMinFreeStagingGiB,
			ProgressLogBucketPct: defaultProgressBucketPct,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
