package tasks

import (
	"fmt"
	"sync"
	"time"

	"vodforge/internal/services"
)

// Status is the lifecycle state of one transcode task.
type Status string

const (
	StatusProcessing  Status = "processing"
	StatusTranscoding Status = "transcoding"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Progress is one task's observable state. Copies are returned to readers so
// pollers never alias the tracker's internal record.
type Progress struct {
	TaskID    string
	Status    Status
	Percent   float64
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tracker keeps per-task progress records. One writer (the pipeline run that
// owns the task) updates a record; any number of pollers read concurrently.
type Tracker struct {
	mu    sync.RWMutex
	tasks map[string]*Progress
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{tasks: make(map[string]*Progress)}
}

// Create registers a new task in the processing state at zero percent.
func (t *Tracker) Create(taskID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tasks[taskID]; ok {
		return fmt.Errorf("%w: task %s already registered", services.ErrValidation, taskID)
	}
	now := time.Now()
	t.tasks[taskID] = &Progress{
		TaskID:    taskID,
		Status:    StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

// Update raises a task's percentage. Progress is monotonic: a value below the
// current one is ignored rather than rewinding the record. Values are clamped
// to [0, 100]. Updates to terminal records are ignored.
func (t *Tracker) Update(taskID string, percent float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	record, ok := t.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: task %s", services.ErrNotFound, taskID)
	}
	if record.Status.IsTerminal() {
		return nil
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent <= record.Percent {
		return nil
	}
	record.Percent = percent
	record.UpdatedAt = time.Now()
	return nil
}

// MarkStatus transitions a task to the given status. Terminal records never
// change. Marking completed pins the percentage to 100.
func (t *Tracker) MarkStatus(taskID string, status Status) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	record, ok := t.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: task %s", services.ErrNotFound, taskID)
	}
	if record.Status.IsTerminal() {
		return nil
	}
	record.Status = status
	if status == StatusCompleted {
		record.Percent = 100
	}
	record.UpdatedAt = time.Now()
	return nil
}

// SetFailed transitions a task to failed with a caller-facing message.
// A task already in a terminal state keeps its original outcome.
func (t *Tracker) SetFailed(taskID string, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	record, ok := t.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: task %s", services.ErrNotFound, taskID)
	}
	if record.Status.IsTerminal() {
		return nil
	}
	record.Status = StatusFailed
	record.Error = message
	record.UpdatedAt = time.Now()
	return nil
}

// Get returns a copy of the task's current state.
func (t *Tracker) Get(taskID string) (Progress, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	record, ok := t.tasks[taskID]
	if !ok {
		return Progress{}, fmt.Errorf("%w: task %s", services.ErrNotFound, taskID)
	}
	return *record, nil
}

// List returns a copy of every tracked task, in no particular order.
func (t *Tracker) List() []Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Progress, 0, len(t.tasks))
	for _, record := range t.tasks {
		out = append(out, *record)
	}
	return out
}
