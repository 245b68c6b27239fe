package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreadableMedia marks sources the prober could not parse at all.
	ErrUnreadableMedia = errors.New("unreadable media")
	// ErrNoPrimaryVideoStream marks sources without an eligible video stream.
	ErrNoPrimaryVideoStream = errors.New("no primary video stream")
	// ErrDuplicateContent marks sources whose digest is already cataloged.
	ErrDuplicateContent = errors.New("duplicate content")
	// ErrEncodeFailure marks encoder subprocess failures for any rung.
	ErrEncodeFailure = errors.New("encode failure")
	// ErrUploadFailure marks object storage rejections.
	ErrUploadFailure = errors.New("upload failure")
	// ErrSubtitleExtraction marks subtitle conversion failures.
	ErrSubtitleExtraction = errors.New("subtitle extraction failure")

	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrEncodeFailure
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// markers is the classification order for UserMessage. More specific
// sentinels come before the ambient ones.
var markers = []error{
	ErrDuplicateContent,
	ErrUnreadableMedia,
	ErrNoPrimaryVideoStream,
	ErrEncodeFailure,
	ErrUploadFailure,
	ErrSubtitleExtraction,
	ErrConfiguration,
	ErrValidation,
	ErrNotFound,
}

// UserMessage reduces an error to the taxonomy-level text surfaced by the
// polling endpoint. Wrapping detail and subprocess output stay in the logs.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, marker := range markers {
		if errors.Is(err, marker) {
			return marker.Error()
		}
	}
	return "internal error"
}

// IsDuplicate reports whether err represents already-ingested content.
// Callers use it to present "already exists" instead of a generic failure.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateContent)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
