package daemon_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vodforge/internal/api"
	"vodforge/internal/catalog"
	"vodforge/internal/config"
	"vodforge/internal/daemon"
	"vodforge/internal/encoding"
	"vodforge/internal/media/inspect"
	"vodforge/internal/pipeline"
	"vodforge/internal/services"
	"vodforge/internal/storage"
	"vodforge/internal/tasks"
	"vodforge/internal/testsupport"
)

type stubEngine struct{}

func (stubEngine) Encode(ctx context.Context, job encoding.Job, progress func(float64)) error {
	progress(100)
	return os.WriteFile(job.Output, []byte("rendition"), 0o644)
}

type stubConverter struct{}

func (stubConverter) Convert(ctx context.Context, sourcePath string, streamIndex int, outputPath string) error {
	return os.WriteFile(outputPath, []byte("WEBVTT\n"), 0o644)
}

func stubProber(ctx context.Context, binary, path string) (inspect.SourceProbe, error) {
	return inspect.SourceProbe{
		Path:            path,
		Video:           inspect.VideoStream{Index: 0, Codec: "hevc", Width: 1280, Height: 720},
		DurationSeconds: 60,
	}, nil
}

func newTestDaemon(t *testing.T) (*daemon.Daemon, *config.Config, *catalog.Store) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	local, err := storage.NewLocal(cfg.Paths.LibraryDir)
	if err != nil {
		t.Fatalf("storage.NewLocal: %v", err)
	}
	tracker := tasks.NewTracker()
	orch, err := pipeline.New(pipeline.Options{
		Config:    cfg,
		Catalog:   store,
		Storage:   local,
		Tracker:   tracker,
		Engine:    stubEngine{},
		Converter: stubConverter{},
		Prober:    stubProber,
	})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	d, err := daemon.New(cfg, store, tracker, orch, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d, cfg, store
}

func startDaemon(t *testing.T, d *daemon.Daemon) *api.Client {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(d.Stop)

	addr := d.APIAddr()
	if addr == "" {
		t.Fatal("expected bound api address")
	}
	return api.NewClient(addr)
}

func waitForTerminal(t *testing.T, client *api.Client, taskID string) api.ProgressResponse {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		progress, err := client.Progress(context.Background(), taskID)
		if err != nil {
			t.Fatalf("poll progress: %v", err)
		}
		if progress.Status == string(tasks.StatusCompleted) || progress.Status == string(tasks.StatusFailed) {
			return progress
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("task never reached a terminal state")
	return api.ProgressResponse{}
}

func TestDaemonSubmitAndPoll(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	client := startDaemon(t, d)

	source := filepath.Join(t.TempDir(), "upload.mkv")
	testsupport.WriteFile(t, source, 2048)

	submitted, err := client.Submit(context.Background(), source, "upload.mkv")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted.TaskID == "" {
		t.Fatal("expected a task id")
	}

	progress := waitForTerminal(t, client, submitted.TaskID)
	if progress.Status != string(tasks.StatusCompleted) {
		t.Fatalf("status = %s (error %q), want completed", progress.Status, progress.Error)
	}
	if progress.Progress != 100 {
		t.Errorf("progress = %v, want 100", progress.Progress)
	}

	videos, err := client.Videos(context.Background())
	if err != nil {
		t.Fatalf("Videos: %v", err)
	}
	if len(videos.Videos) != 1 {
		t.Fatalf("cataloged videos = %d, want 1", len(videos.Videos))
	}
	if videos.Videos[0].SourceName != "upload.mkv" {
		t.Errorf("SourceName = %q, want upload.mkv", videos.Videos[0].SourceName)
	}
}

func TestDaemonDuplicateSubmission(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	client := startDaemon(t, d)

	source := filepath.Join(t.TempDir(), "upload.mkv")
	testsupport.WriteFile(t, source, 2048)

	first, err := client.Submit(context.Background(), source, "upload.mkv")
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if got := waitForTerminal(t, client, first.TaskID); got.Status != string(tasks.StatusCompleted) {
		t.Fatalf("first job status = %s, want completed", got.Status)
	}

	second, err := client.Submit(context.Background(), source, "upload.mkv")
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	progress := waitForTerminal(t, client, second.TaskID)
	if progress.Status != string(tasks.StatusFailed) {
		t.Fatalf("duplicate job status = %s, want failed", progress.Status)
	}
	if progress.Error == "" {
		t.Error("expected duplicate-content message")
	}
}

func TestDaemonProgressUnknownTask(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	client := startDaemon(t, d)

	_, err := client.Progress(context.Background(), "no-such-task")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Progress error = %v, want ErrNotFound", err)
	}
}

func TestDaemonSubmitMissingFile(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	client := startDaemon(t, d)

	_, err := client.Submit(context.Background(), filepath.Join(t.TempDir(), "ghost.mkv"), "")
	if err == nil {
		t.Fatal("expected error for missing source file")
	}
}

func TestDaemonStatusEndpoint(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	client := startDaemon(t, d)

	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Running {
		t.Error("expected running daemon")
	}
	if status.CatalogDBPath == "" || status.LockFilePath == "" {
		t.Errorf("expected populated paths, got %+v", status)
	}
}

func TestDaemonSingleInstanceLock(t *testing.T) {
	d, cfg, store := newTestDaemon(t)
	_ = store
	startDaemon(t, d)

	tracker := tasks.NewTracker()
	local, err := storage.NewLocal(cfg.Paths.LibraryDir)
	if err != nil {
		t.Fatalf("storage.NewLocal: %v", err)
	}
	cat2, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() { cat2.Close() })
	orch, err := pipeline.New(pipeline.Options{
		Config:  cfg,
		Catalog: cat2,
		Storage: local,
		Tracker: tracker,
		Engine:  stubEngine{},
		Prober:  stubProber,
	})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	second, err := daemon.New(cfg, cat2, tracker, orch, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail the lock")
	}
}
