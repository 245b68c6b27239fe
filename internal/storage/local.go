package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vodforge/internal/fileutil"
	"vodforge/internal/services"
)

// Local stores objects as plain files under a root directory, mirroring the
// object key layout on disk. It is the default store for single-host
// deployments where the media server reads straight from the library.
type Local struct {
	root string
}

// NewLocal returns a Local store rooted at dir.
func NewLocal(dir string) (*Local, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: storage root directory is empty", services.ErrConfiguration)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Local{root: dir}, nil
}

// Root returns the directory backing the store.
func (l *Local) Root() string {
	return l.root
}

func (l *Local) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: invalid object key %q", services.ErrValidation, key)
	}
	return filepath.Join(l.root, cleaned), nil
}

// UploadIfAbsent copies srcPath into the store unless key already exists.
func (l *Local) UploadIfAbsent(ctx context.Context, key, srcPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := l.resolve(key)
	if err != nil {
		return err
	}
	if fileutil.FileExists(target) {
		return nil
	}
	if err := fileutil.CopyFileAtomic(srcPath, target); err != nil {
		return fmt.Errorf("%w: store %s: %w", services.ErrUploadFailure, key, err)
	}
	return nil
}

// Exists reports whether an object is stored under key.
func (l *Local) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	target, err := l.resolve(key)
	if err != nil {
		return false, err
	}
	return fileutil.FileExists(target), nil
}

// DeleteByPrefix removes every object whose key starts with prefix. Empty
// parent directories left behind are removed as well.
func (l *Local) DeleteByPrefix(ctx context.Context, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := l.resolve(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return err
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("delete objects under %s: %w", prefix, err)
	}
	return nil
}
