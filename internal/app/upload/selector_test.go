package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetscribe/internal/app/errors"
)

func TestSelectorChoose(t *testing.T) {
	s := NewSelector(0) // default limit

	tests := []struct {
		name     string
		size     int64
		wantPath Path
		wantErr  error
	}{
		{name: "small file goes inline", size: 1024, wantPath: PathInline},
		{name: "exactly at inline limit goes inline", size: DefaultInlineLimit, wantPath: PathInline},
		{name: "one byte over inline limit defers", size: DefaultInlineLimit + 1, wantPath: PathDeferred},
		{name: "large file defers", size: 20 << 20, wantPath: PathDeferred},
		{name: "exactly at hard cap defers", size: HardLimit, wantPath: PathDeferred},
		{name: "over hard cap rejected", size: HardLimit + 1, wantErr: errors.ErrPayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := s.Choose(tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestSelectorRejectsNonPositiveSize(t *testing.T) {
	s := NewSelector(0)

	_, err := s.Choose(0)
	assert.Error(t, err)

	_, err = s.Choose(-1)
	assert.Error(t, err)
}

func TestSelectorCustomLimit(t *testing.T) {
	s := NewSelector(1000)

	path, err := s.Choose(1000)
	require.NoError(t, err)
	assert.Equal(t, PathInline, path)

	path, err = s.Choose(1001)
	require.NoError(t, err)
	assert.Equal(t, PathDeferred, path)
}

func TestAllowedContentType(t *testing.T) {
	assert.True(t, AllowedContentType("audio/mpeg"))
	assert.True(t, AllowedContentType("audio/wav"))
	assert.True(t, AllowedContentType("Audio/MP3"))
	assert.True(t, AllowedContentType("audio/webm; codecs=opus"))
	assert.False(t, AllowedContentType("video/mp4"))
	assert.False(t, AllowedContentType("text/plain"))
	assert.False(t, AllowedContentType(""))
}
