package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"vodforge/internal/catalog"
	"vodforge/internal/config"
	"vodforge/internal/contenthash"
	"vodforge/internal/encoding"
	"vodforge/internal/fileutil"
	"vodforge/internal/ladder"
	"vodforge/internal/logging"
	"vodforge/internal/media/inspect"
	"vodforge/internal/services"
	"vodforge/internal/staging"
	"vodforge/internal/storage"
	"vodforge/internal/subtitles"
	"vodforge/internal/tasks"
)

// Result is the aggregate outcome of one pipeline run.
type Result struct {
	TaskID          string
	VideoID         int64
	ContentHash     string
	Resolutions     []int
	Subtitles       []string
	DurationSeconds float64
}

// Prober inspects a source file. Declared as a function type so tests can
// feed synthetic probes without an ffprobe binary.
type Prober func(ctx context.Context, ffprobeBinary, path string) (inspect.SourceProbe, error)

// Options wires the orchestrator's collaborators. Engine, Converter, and
// Prober default to the ffmpeg implementations when left nil.
type Options struct {
	Config    *config.Config
	Logger    *slog.Logger
	Catalog   *catalog.Store
	Storage   storage.Store
	Tracker   *tasks.Tracker
	Engine    encoding.Engine
	Converter subtitles.Converter
	Prober    Prober
}

// Orchestrator drives transcode jobs. It is safe for concurrent Run calls;
// each run owns its task record and staging directory exclusively.
type Orchestrator struct {
	cfg       *config.Config
	logger    *slog.Logger
	catalog   *catalog.Store
	storage   storage.Store
	tracker   *tasks.Tracker
	engine    encoding.Engine
	converter subtitles.Converter
	prober    Prober
}

// New validates the wiring and returns an orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: pipeline requires a config", services.ErrConfiguration)
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("%w: pipeline requires a catalog store", services.ErrConfiguration)
	}
	if opts.Storage == nil {
		return nil, fmt.Errorf("%w: pipeline requires an object store", services.ErrConfiguration)
	}
	if opts.Tracker == nil {
		return nil, fmt.Errorf("%w: pipeline requires a task tracker", services.ErrConfiguration)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	engine := opts.Engine
	if engine == nil {
		engine = encoding.NewFFmpeg(opts.Config.FFmpegBinary())
	}
	converter := opts.Converter
	if converter == nil {
		converter = subtitles.NewFFmpegConverter(opts.Config.FFmpegBinary())
	}
	prober := opts.Prober
	if prober == nil {
		prober = inspect.Probe
	}
	return &Orchestrator{
		cfg:       opts.Config,
		logger:    logging.WithComponent(logger, "pipeline"),
		catalog:   opts.Catalog,
		storage:   opts.Storage,
		tracker:   opts.Tracker,
		engine:    engine,
		converter: converter,
		prober:    prober,
	}, nil
}

// Run executes one transcode job for a registered task. On any failure the
// task is marked failed with a taxonomy-level message; the staging directory
// is removed unconditionally.
func (o *Orchestrator) Run(ctx context.Context, taskID, sourcePath, sourceName string) (*Result, error) {
	result, err := o.run(ctx, taskID, sourcePath, sourceName)
	if err != nil {
		_ = o.tracker.SetFailed(taskID, services.UserMessage(err))
		o.logger.Error("transcode job failed",
			logging.String(logging.FieldTaskID, taskID),
			logging.Error(err),
		)
		return nil, err
	}
	_ = o.tracker.MarkStatus(taskID, tasks.StatusCompleted)
	o.logger.Info("transcode job completed",
		logging.String(logging.FieldTaskID, taskID),
		logging.String(logging.FieldHash, result.ContentHash),
		logging.Int("resolutions", len(result.Resolutions)),
		logging.Int("subtitles", len(result.Subtitles)),
	)
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, taskID, sourcePath, sourceName string) (*Result, error) {
	_ = o.tracker.MarkStatus(taskID, tasks.StatusTranscoding)

	workDir, err := staging.JobDir(o.cfg.Paths.StagingDir, taskID)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "staging", "", err)
	}
	defer func() {
		if removeErr := staging.Remove(workDir); removeErr != nil {
			o.logger.Warn("staging cleanup failed",
				logging.String(logging.FieldTaskID, taskID),
				logging.Error(removeErr),
			)
		}
	}()

	probe, err := o.prober(ctx, o.cfg.FFprobeBinary(), sourcePath)
	if err != nil {
		return nil, err
	}

	hash, err := contenthash.File(ctx, sourcePath)
	if err != nil {
		return nil, services.Wrap(services.ErrUnreadableMedia, "pipeline", "hash", sourcePath, err)
	}
	exists, err := o.catalog.ExistsByHash(ctx, hash)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "dedup check", "", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: content hash %s already ingested", services.ErrDuplicateContent, hash)
	}

	mode, err := ladder.ParseMode(o.cfg.FFmpeg.Mode)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "mode", "", err)
	}
	rungs, err := ladder.Plan(probe.Video.Width, probe.Video.Height, mode)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "ladder", "", err)
	}

	o.logger.Info("starting transcode",
		logging.String(logging.FieldTaskID, taskID),
		logging.String(logging.FieldHash, hash),
		logging.String("source", sourceName),
		logging.Int("ladder_size", len(rungs)),
		logging.String("mode", string(mode)),
	)

	resolutions, err := o.processRungs(ctx, taskID, hash, workDir, probe, rungs)
	if err != nil {
		return nil, err
	}

	subtitleNames, err := o.processSubtitles(ctx, hash, workDir, probe)
	if err != nil {
		return nil, err
	}

	videoID, err := o.catalog.Insert(ctx, catalog.Video{
		ContentHash:     hash,
		SourceName:      sourceName,
		Resolutions:     resolutions,
		Subtitles:       subtitleNames,
		DurationSeconds: probe.DurationSeconds,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		TaskID:          taskID,
		VideoID:         videoID,
		ContentHash:     hash,
		Resolutions:     resolutions,
		Subtitles:       subtitleNames,
		DurationSeconds: probe.DurationSeconds,
	}, nil
}

// processRungs encodes or copies every ladder rung in order and uploads each
// rendition as soon as it is complete. Progress for rung i spans
// [i, i+1)/ladderSize of the total and never moves backwards.
func (o *Orchestrator) processRungs(ctx context.Context, taskID, hash, workDir string, probe inspect.SourceProbe, rungs []ladder.Rung) ([]int, error) {
	quality := encoding.Quality(o.cfg.FFmpeg.Quality)
	ladderSize := len(rungs)
	sampler := logging.NewProgressSampler(float64(o.cfg.Workflow.ProgressLogBucketPct))
	lastReported := 0.0

	report := func(overall float64, label string) {
		if overall <= lastReported {
			return
		}
		lastReported = overall
		_ = o.tracker.Update(taskID, overall)
		if sampler.ShouldLog(overall, label) {
			o.logger.Info("transcode progress",
				logging.String(logging.FieldTaskID, taskID),
				logging.String(logging.FieldRung, label),
				logging.Float64(logging.FieldPercent, overall),
			)
		}
	}

	resolutions := make([]int, 0, ladderSize)
	for i, rung := range rungs {
		decision := encoding.EvaluateCopy(probe, rung)
		plan := encoding.BuildPlan(rung, i, ladderSize, probe, decision, quality, o.cfg.FFmpeg.Preset)
		outPath := filepath.Join(workDir, rung.Name()+".mp4")

		base := float64(i) / float64(ladderSize) * 100

		if plan.IsFullCopy() {
			o.logger.Info("rung eligible for direct copy",
				logging.String(logging.FieldTaskID, taskID),
				logging.String(logging.FieldRung, rung.Name()),
				logging.String("reason", decision.Reason),
			)
			if err := fileutil.CopyFile(probe.Path, outPath); err != nil {
				return nil, services.Wrap(services.ErrEncodeFailure, "pipeline", "copy rung", rung.Name(), err)
			}
		} else {
			job := encoding.Job{
				Input:           probe.Path,
				Output:          outPath,
				Plan:            plan,
				DurationSeconds: probe.DurationSeconds,
			}
			err := o.engine.Encode(ctx, job, func(inner float64) {
				report(base+inner/float64(ladderSize), rung.Name())
			})
			if err != nil {
				return nil, services.Wrap(services.ErrEncodeFailure, "pipeline", "encode rung", rung.Name(), err)
			}
		}

		if err := o.upload(ctx, storage.VideoKey(hash, rung.Height), outPath); err != nil {
			return nil, err
		}
		resolutions = append(resolutions, rung.Height)

		// Rung completion boundary, reached even for copied rungs.
		report(float64(i+1)/float64(ladderSize)*100, rung.Name())
	}
	return resolutions, nil
}

func (o *Orchestrator) processSubtitles(ctx context.Context, hash, workDir string, probe inspect.SourceProbe) ([]string, error) {
	if !probe.HasSubtitles() {
		return nil, nil
	}
	extracted, err := subtitles.Extract(ctx, o.converter, probe.Path, probe.SubtitleStreams, filepath.Join(workDir, "subs"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(extracted))
	for _, sub := range extracted {
		if err := o.upload(ctx, storage.SubtitleKey(hash, sub.Name), sub.Path); err != nil {
			return nil, err
		}
		names = append(names, sub.Name)
	}
	return names, nil
}

func (o *Orchestrator) upload(ctx context.Context, key, localPath string) error {
	err := o.storage.UploadIfAbsent(ctx, key, localPath)
	if err == nil {
		return nil
	}
	if errors.Is(err, services.ErrUploadFailure) {
		return err
	}
	return services.Wrap(services.ErrUploadFailure, "pipeline", "upload", key, err)
}
