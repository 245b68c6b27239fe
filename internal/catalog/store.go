package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"vodforge/internal/config"
	"vodforge/internal/services"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "catalog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// ExistsByHash reports whether a video with the given content hash is cataloged.
func (s *Store) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	ctx = ensureContext(ctx)
	var count int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM videos WHERE content_hash = ?", hash,
		).Scan(&count)
	})
	if err != nil {
		return false, fmt.Errorf("query hash existence: %w", err)
	}
	return count > 0, nil
}

// Insert catalogs a newly transcoded video. A content hash collision maps
// to services.ErrDuplicateContent so callers can short-circuit cleanly even
// when two submissions of the same content race past ExistsByHash.
func (s *Store) Insert(ctx context.Context, video Video) (int64, error) {
	resolutions, err := json.Marshal(video.Resolutions)
	if err != nil {
		return 0, fmt.Errorf("encode resolutions: %w", err)
	}
	subtitles, err := json.Marshal(video.Subtitles)
	if err != nil {
		return 0, fmt.Errorf("encode subtitles: %w", err)
	}

	createdAt := video.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO videos (content_hash, source_name, resolutions_json, subtitles_json, duration_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		video.ContentHash, video.SourceName, string(resolutions), string(subtitles),
		video.DurationSeconds, createdAt.Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: content hash %s", services.ErrDuplicateContent, video.ContentHash)
		}
		return 0, fmt.Errorf("insert video: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read insert id: %w", err)
	}
	return id, nil
}

// GetByHash returns the cataloged video for a content hash.
func (s *Store) GetByHash(ctx context.Context, hash string) (*Video, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, content_hash, source_name, resolutions_json, subtitles_json, duration_seconds, created_at
		 FROM videos WHERE content_hash = ?`, hash)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: video with hash %s", services.ErrNotFound, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("get video by hash: %w", err)
	}
	return video, nil
}

// List returns all cataloged videos, newest first.
func (s *Store) List(ctx context.Context) ([]*Video, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content_hash, source_name, resolutions_json, subtitles_json, duration_seconds, created_at
		 FROM videos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		video, scanErr := scanVideo(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan video row: %w", scanErr)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*Video, error) {
	var (
		video       Video
		resolutions string
		subtitles   string
		createdAt   string
	)
	if err := row.Scan(&video.ID, &video.ContentHash, &video.SourceName,
		&resolutions, &subtitles, &video.DurationSeconds, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resolutions), &video.Resolutions); err != nil {
		return nil, fmt.Errorf("decode resolutions: %w", err)
	}
	if err := json.Unmarshal([]byte(subtitles), &video.Subtitles); err != nil {
		return nil, fmt.Errorf("decode subtitles: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	video.CreatedAt = parsed
	return &video, nil
}
