package storage

import (
	"context"
	"fmt"
)

// Store is the destination for finished pipeline artifacts.
type Store interface {
	// UploadIfAbsent copies the local file at srcPath to key. Uploading to
	// a key that already holds an object is a no-op, which makes retries
	// after partial failures safe.
	UploadIfAbsent(ctx context.Context, key, srcPath string) error
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
	// DeleteByPrefix removes every object whose key starts with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// VideoKey returns the object key for one rendition of a video.
func VideoKey(hash string, height int) string {
	return fmt.Sprintf("videos/%s/_%dp.mp4", hash, height)
}

// SubtitleKey returns the object key for an extracted subtitle file.
func SubtitleKey(hash, name string) string {
	return fmt.Sprintf("subtitles/%s/%s", hash, name)
}

// CoverKey returns the object key for a video's cover image.
func CoverKey(hash string) string {
	return fmt.Sprintf("covers/%s/cover.jpg", hash)
}

// VideoPrefix returns the key prefix that groups all rendition objects for
// a content hash.
func VideoPrefix(hash string) string {
	return "videos/" + hash + "/"
}
