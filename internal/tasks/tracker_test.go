package tasks_test

import (
	"errors"
	"sync"
	"testing"

	"vodforge/internal/services"
	"vodforge/internal/tasks"
)

func TestTrackerLifecycle(t *testing.T) {
	tracker := tasks.NewTracker()
	if err := tracker.Create("t1"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := tracker.Get("t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != tasks.StatusProcessing || got.Percent != 0 {
		t.Errorf("new task = %s/%v, want processing/0", got.Status, got.Percent)
	}

	if err := tracker.MarkStatus("t1", tasks.StatusTranscoding); err != nil {
		t.Fatalf("MarkStatus: %v", err)
	}
	if err := tracker.Update("t1", 42.5); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := tracker.MarkStatus("t1", tasks.StatusCompleted); err != nil {
		t.Fatalf("MarkStatus completed: %v", err)
	}

	got, err = tracker.Get("t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != tasks.StatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
	if got.Percent != 100 {
		t.Errorf("completed percent = %v, want 100", got.Percent)
	}
}

func TestTrackerMonotonicProgress(t *testing.T) {
	tracker := tasks.NewTracker()
	if err := tracker.Create("t1"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := tracker.Update("t1", 60); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := tracker.Update("t1", 30); err != nil {
		t.Fatalf("Update lower: %v", err)
	}

	got, _ := tracker.Get("t1")
	if got.Percent != 60 {
		t.Errorf("percent after lower update = %v, want 60", got.Percent)
	}

	if err := tracker.Update("t1", 250); err != nil {
		t.Fatalf("Update over 100: %v", err)
	}
	got, _ = tracker.Get("t1")
	if got.Percent != 100 {
		t.Errorf("percent after clamp = %v, want 100", got.Percent)
	}
}

func TestTrackerTerminalRecordsImmutable(t *testing.T) {
	tracker := tasks.NewTracker()
	if err := tracker.Create("t1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := tracker.Update("t1", 40); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := tracker.SetFailed("t1", "encode failure: rung 2"); err != nil {
		t.Fatalf("SetFailed: %v", err)
	}

	if err := tracker.Update("t1", 95); err != nil {
		t.Fatalf("Update after failure: %v", err)
	}
	if err := tracker.MarkStatus("t1", tasks.StatusCompleted); err != nil {
		t.Fatalf("MarkStatus after failure: %v", err)
	}
	if err := tracker.SetFailed("t1", "other message"); err != nil {
		t.Fatalf("SetFailed twice: %v", err)
	}

	got, _ := tracker.Get("t1")
	if got.Status != tasks.StatusFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
	if got.Percent != 40 {
		t.Errorf("percent = %v, want 40", got.Percent)
	}
	if got.Error != "encode failure: rung 2" {
		t.Errorf("error = %q, want original message", got.Error)
	}
}

func TestTrackerUnknownTask(t *testing.T) {
	tracker := tasks.NewTracker()

	if _, err := tracker.Get("ghost"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
	if err := tracker.Update("ghost", 10); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Update error = %v, want ErrNotFound", err)
	}
	if err := tracker.MarkStatus("ghost", tasks.StatusTranscoding); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("MarkStatus error = %v, want ErrNotFound", err)
	}
}

func TestTrackerDuplicateCreate(t *testing.T) {
	tracker := tasks.NewTracker()
	if err := tracker.Create("t1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := tracker.Create("t1"); !errors.Is(err, services.ErrValidation) {
		t.Errorf("duplicate Create error = %v, want ErrValidation", err)
	}
}

func TestTrackerConcurrentReadersAndWriter(t *testing.T) {
	tracker := tasks.NewTracker()
	if err := tracker.Create("t1"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i <= 100; i++ {
			_ = tracker.Update("t1", float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_, _ = tracker.Get("t1")
		}
	}()
	wg.Wait()

	got, err := tracker.Get("t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Percent != 100 {
		t.Errorf("final percent = %v, want 100", got.Percent)
	}
}
