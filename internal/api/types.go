package api

import "time"

// SubmitRequest asks the daemon to transcode a source file on its host.
type SubmitRequest struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

// SubmitResponse returns the identifier to poll for progress.
type SubmitResponse struct {
	TaskID string `json:"task_id"`
}

// ProgressResponse mirrors one task's tracker record.
type ProgressResponse struct {
	TaskID   string  `json:"task_id"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Error    string  `json:"error,omitempty"`
}

// TasksResponse lists every tracked task.
type TasksResponse struct {
	Tasks []ProgressResponse `json:"tasks"`
}

// VideoSummary is one cataloged video.
type VideoSummary struct {
	ID              int64     `json:"id"`
	ContentHash     string    `json:"content_hash"`
	SourceName      string    `json:"source_name"`
	Resolutions     []int     `json:"resolutions"`
	Subtitles       []string  `json:"subtitles"`
	DurationSeconds float64   `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// VideosResponse lists the catalog contents.
type VideosResponse struct {
	Videos []VideoSummary `json:"videos"`
}

// CheckResult is one preflight check outcome.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// StatusResponse describes the daemon's runtime state.
type StatusResponse struct {
	Running       bool          `json:"running"`
	PID           int           `json:"pid"`
	CatalogDBPath string        `json:"catalog_db_path"`
	LockFilePath  string        `json:"lock_file_path"`
	ActiveTasks   int           `json:"active_tasks"`
	Checks        []CheckResult `json:"checks,omitempty"`
}

// ErrorResponse carries a taxonomy-level error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
