package upload

import (
	"strings"

	"meetscribe/internal/app/errors"
)

// Path is the upload strategy chosen for a file.
type Path string

const (
	// PathInline streams the bytes in the job-start request itself.
	PathInline Path = "inline"
	// PathDeferred pushes the file to object storage first via a
	// short-lived credential, then starts the job by reference.
	PathDeferred Path = "deferred"
)

const (
	// DefaultInlineLimit stays under the surrounding platform's
	// request-body limit with safety margin.
	DefaultInlineLimit int64 = 4_500_000
	// HardLimit is the largest file the transcription engine accepts,
	// whichever path is used.
	HardLimit int64 = 25 << 20
)

// allowedContentTypes enumerates the audio MIME types accepted on the
// deferred path.
var allowedContentTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/webm":  true,
	"audio/ogg":   true,
	"audio/m4a":   true,
	"audio/x-m4a": true,
	"audio/mp4":   true,
}

// Selector decides the upload path purely from file size.
type Selector struct {
	InlineLimit int64
}

// NewSelector applies the default inline ceiling when none is configured.
func NewSelector(inlineLimit int64) Selector {
	if inlineLimit <= 0 {
		inlineLimit = DefaultInlineLimit
	}
	return Selector{InlineLimit: inlineLimit}
}

// Choose returns the path for a file of the given size. A file of exactly
// the inline ceiling goes inline; one byte more must defer; anything over
// the hard cap is rejected on both paths.
func (s Selector) Choose(size int64) (Path, error) {
	if size <= 0 {
		return "", errors.RequiredField("file size")
	}
	if size > HardLimit {
		return "", errors.ErrPayloadTooLarge
	}
	if size <= s.InlineLimit {
		return PathInline, nil
	}
	return PathDeferred, nil
}

// AllowedContentType reports whether ct is an accepted audio MIME type.
// Parameters such as "; codecs=opus" are ignored.
func AllowedContentType(ct string) bool {
	base := strings.TrimSpace(strings.ToLower(ct))
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	return allowedContentTypes[base]
}
