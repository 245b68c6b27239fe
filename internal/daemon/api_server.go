package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vodforge/internal/api"
	"vodforge/internal/logging"
	"vodforge/internal/metrics"
	"vodforge/internal/services"
	"vodforge/internal/tasks"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(bind string, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(bind),
		logger: logger,
		daemon: d,
	}

	router := mux.NewRouter()
	router.Use(srv.instrument)
	router.HandleFunc("/healthz", srv.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRoutes := router.PathPrefix("/api").Subrouter()
	apiRoutes.HandleFunc("/transcode", srv.handleSubmit).Methods(http.MethodPost)
	apiRoutes.HandleFunc("/progress/{id}", srv.handleProgress).Methods(http.MethodGet)
	apiRoutes.HandleFunc("/tasks", srv.handleTasks).Methods(http.MethodGet)
	apiRoutes.HandleFunc("/videos", srv.handleVideos).Methods(http.MethodGet)
	apiRoutes.HandleFunc("/status", srv.handleStatus).Methods(http.MethodGet)

	srv.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// instrument records request counts and latencies per route template.
func (s *apiServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if template, err := route.GetPathTemplate(); err == nil {
				path = template
			}
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(recorder.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(started).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *apiServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req api.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	taskID, err := s.daemon.Submit(req.Path, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			s.writeError(w, http.StatusNotFound, services.UserMessage(err))
		case errors.Is(err, services.ErrValidation):
			s.writeError(w, http.StatusBadRequest, services.UserMessage(err))
		default:
			s.writeError(w, http.StatusInternalServerError, services.UserMessage(err))
		}
		return
	}
	s.writeJSON(w, http.StatusAccepted, api.SubmitResponse{TaskID: taskID})
}

func (s *apiServer) handleProgress(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]
	progress, err := s.daemon.tracker.Get(taskID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "task not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, services.UserMessage(err))
		return
	}
	s.writeJSON(w, http.StatusOK, toProgressResponse(progress))
}

func (s *apiServer) handleTasks(w http.ResponseWriter, _ *http.Request) {
	records := s.daemon.tracker.List()
	payload := api.TasksResponse{Tasks: make([]api.ProgressResponse, 0, len(records))}
	for _, record := range records {
		payload.Tasks = append(payload.Tasks, toProgressResponse(record))
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.daemon.catalog.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, services.UserMessage(err))
		return
	}
	payload := api.VideosResponse{Videos: make([]api.VideoSummary, 0, len(videos))}
	for _, v := range videos {
		payload.Videos = append(payload.Videos, api.VideoSummary{
			ID:              v.ID,
			ContentHash:     v.ContentHash,
			SourceName:      v.SourceName,
			Resolutions:     v.Resolutions,
			Subtitles:       v.Subtitles,
			DurationSeconds: v.DurationSeconds,
			CreatedAt:       v.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.daemon.Status())
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("write api response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func toProgressResponse(record tasks.Progress) api.ProgressResponse {
	return api.ProgressResponse{
		TaskID:   record.TaskID,
		Status:   string(record.Status),
		Progress: record.Percent,
		Error:    record.Error,
	}
}
