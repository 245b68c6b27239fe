// Package subtitles extracts every subtitle stream of a source into an
// independent WebVTT file with collision-safe names derived from language
// and forced disposition.
package subtitles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vodforge/internal/media/inspect"
	"vodforge/internal/services"
)

// Converter converts one subtitle stream of a source file into WebVTT.
// The production implementation shells out to ffmpeg; tests substitute a
// deterministic fake.
type Converter interface {
	Convert(ctx context.Context, sourcePath string, streamIndex int, outputPath string) error
}

// Extracted describes one written subtitle file.
type Extracted struct {
	Name string
	Path string
}

// Extract converts streams to WebVTT files under outputDir, in original
// stream order. Any single stream failure aborts the whole extraction:
// advertising a subtitle track that silently failed to convert is worse
// than failing the job.
func Extract(ctx context.Context, converter Converter, sourcePath string, streams []inspect.SubtitleStream, outputDir string) ([]Extracted, error) {
	if len(streams) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrSubtitleExtraction, "subtitles", "prepare", outputDir, err)
	}

	names := newNamer()
	extracted := make([]Extracted, 0, len(streams))
	for _, stream := range streams {
		name := names.next(stream.Language, stream.Forced)
		path := filepath.Join(outputDir, name)
		if err := converter.Convert(ctx, sourcePath, stream.Index, path); err != nil {
			return nil, services.Wrap(services.ErrSubtitleExtraction, "subtitles", "convert",
				fmt.Sprintf("stream %d (%s)", stream.Index, name), err)
		}
		extracted = append(extracted, Extracted{Name: name, Path: path})
	}
	return extracted, nil
}

// namer assigns collision-safe WebVTT file names. Forced and normal tracks
// keep independent counters per language: the first normal English track is
// en.vtt, the second en_2.vtt, and a forced English track forced-en.vtt
// regardless of how many normal tracks precede it.
type namer struct {
	normal map[string]int
	forced map[string]int
}

func newNamer() *namer {
	return &namer{normal: make(map[string]int), forced: make(map[string]int)}
}

func (n *namer) next(lang string, forced bool) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = inspect.UndeterminedLanguage
	}

	counters := n.normal
	prefix := ""
	if forced {
		counters = n.forced
		prefix = "forced-"
	}
	counters[lang]++
	if counters[lang] == 1 {
		return prefix + lang + ".vtt"
	}
	return fmt.Sprintf("%s%s_%d.vtt", prefix, lang, counters[lang])
}
