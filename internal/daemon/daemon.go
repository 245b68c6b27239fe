package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"vodforge/internal/api"
	"vodforge/internal/catalog"
	"vodforge/internal/config"
	"vodforge/internal/fileutil"
	"vodforge/internal/logging"
	"vodforge/internal/metrics"
	"vodforge/internal/pipeline"
	"vodforge/internal/preflight"
	"vodforge/internal/services"
	"vodforge/internal/staging"
	"vodforge/internal/tasks"
)

// Daemon coordinates the HTTP API, async transcode runs, and housekeeping,
// and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	catalog *catalog.Store
	tracker *tasks.Tracker
	orch    *pipeline.Orchestrator

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	active  atomic.Int64
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	api     *apiServer
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, tracker *tasks.Tracker, orch *pipeline.Orchestrator, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || tracker == nil || orch == nil {
		return nil, errors.New("daemon requires config, catalog store, tracker, and pipeline")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "vodforge.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		catalog:  store,
		tracker:  tracker,
		orch:     orch,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.api = newAPIServer(cfg.Paths.APIBind, d, d.logger)
	return d, nil
}

// Start acquires the instance lock and launches the API server and the
// staging sweep loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another vodforge daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	d.wg.Add(1)
	go d.sweepLoop()

	d.running.Store(true)
	d.logger.Info("vodforge daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API, waits for background loops, and releases the lock.
// In-flight transcode runs are cancelled via their context.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("vodforge daemon stopped")
}

// Close stops the daemon and releases held resources.
func (d *Daemon) Close() error {
	d.Stop()
	if d.catalog != nil {
		return d.catalog.Close()
	}
	return nil
}

// APIAddr returns the bound address of the HTTP API, or "" before Start.
func (d *Daemon) APIAddr() string {
	return d.api.addr()
}

// Submit registers a new transcode task for a file on the daemon's host and
// starts it asynchronously. The returned ID can be polled immediately.
func (d *Daemon) Submit(path, name string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: source path is required", services.ErrValidation)
	}
	if !fileutil.FileExists(path) {
		return "", fmt.Errorf("%w: source file %s", services.ErrNotFound, path)
	}
	if name = strings.TrimSpace(name); name == "" {
		name = filepath.Base(path)
	}

	taskID := uuid.NewString()
	if err := d.tracker.Create(taskID); err != nil {
		return "", err
	}

	runCtx := d.ctx
	if runCtx == nil {
		runCtx = context.Background()
	}

	d.active.Add(1)
	metrics.JobsActive.Inc()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.active.Add(-1)
		defer metrics.JobsActive.Dec()

		started := time.Now()
		result, err := d.orch.Run(runCtx, taskID, path, name)
		switch {
		case err == nil:
			metrics.JobsTotal.WithLabelValues("completed").Inc()
			metrics.JobDuration.Observe(time.Since(started).Seconds())
			metrics.RungsEncoded.Add(float64(len(result.Resolutions)))
			metrics.SubtitlesExtracted.Add(float64(len(result.Subtitles)))
		case services.IsDuplicate(err):
			metrics.JobsTotal.WithLabelValues("duplicate").Inc()
		default:
			metrics.JobsTotal.WithLabelValues("failed").Inc()
		}
	}()
	return taskID, nil
}

// Status reports runtime information for the status endpoint and CLI.
func (d *Daemon) Status() api.StatusResponse {
	checks := preflight.RunAll(d.cfg)
	results := make([]api.CheckResult, len(checks))
	for i, c := range checks {
		results[i] = api.CheckResult{Name: c.Name, Passed: c.Passed, Detail: c.Detail}
	}
	return api.StatusResponse{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		CatalogDBPath: d.catalog.Path(),
		LockFilePath:  d.lockPath,
		ActiveTasks:   int(d.active.Load()),
		Checks:        results,
	}
}

// sweepLoop periodically removes abandoned staging directories.
func (d *Daemon) sweepLoop() {
	defer d.wg.Done()

	maxAge := time.Duration(d.cfg.Workflow.StaleStagingHours) * time.Hour
	if maxAge <= 0 {
		return
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	sweep := func() {
		result := staging.CleanStale(d.cfg.Paths.StagingDir, maxAge, d.logger)
		if len(result.Removed) > 0 {
			d.logger.Info("staging sweep reclaimed directories",
				logging.Int("removed", len(result.Removed)))
		}
	}

	sweep()
	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
