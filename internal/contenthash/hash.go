// Package contenthash computes the content-addressable digest of a source
// file. The digest doubles as the storage key segment for every rendition
// and subtitle derived from that source, and as the dedup key in the catalog.
package contenthash

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

const chunkSize = 1 << 20

// File streams path through SHA-256 and returns the lowercase hex digest.
// The file is read in fixed-size chunks so arbitrarily large sources never
// load into memory; ctx cancellation is honored between chunks.
func File(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	buf := make([]byte, chunkSize)
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		n, readErr := file.Read(buf)
		if n > 0 {
			if _, err := hasher.Write(buf[:n]); err != nil {
				return "", fmt.Errorf("hash source: %w", err)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return "", fmt.Errorf("read source: %w", readErr)
		}
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
