package upload

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetscribe/internal/app/errors"
)

// newLocalStorageService builds a service around a minio client that is
// never dialed. The fixed Region suppresses the bucket-location lookup, so
// presigning stays pure client-side signing and credential issuance can be
// exercised without a running backend.
func newLocalStorageService(t *testing.T) *MinioStorageService {
	t.Helper()
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("test-access", "test-secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return &MinioStorageService{
		client: client,
		bucket: "meetscribe-audio",
		expiry: 15 * time.Minute,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestIssueCredentialHappyPath(t *testing.T) {
	svc := newLocalStorageService(t)

	cred, err := svc.IssueCredential(context.Background(), "user-1", "standup.mp3", "audio/mpeg", 10<<20)
	require.NoError(t, err)

	assert.Equal(t, "PUT", cred.Method)
	assert.True(t, strings.HasPrefix(cred.ObjectKey, "audio/user-1/"))
	assert.True(t, strings.HasSuffix(cred.ObjectKey, ".mp3"))
	assert.Contains(t, cred.URL, cred.ObjectKey)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), cred.ExpiresAt, 5*time.Second)
}

func TestIssueCredentialRejectsOversizedFile(t *testing.T) {
	svc := newLocalStorageService(t)

	_, err := svc.IssueCredential(context.Background(), "user-1", "huge.wav", "audio/wav", HardLimit+1)
	assert.ErrorIs(t, err, errors.ErrPayloadTooLarge)
}

func TestIssueCredentialRejectsUnsupportedType(t *testing.T) {
	svc := newLocalStorageService(t)

	_, err := svc.IssueCredential(context.Background(), "user-1", "clip.mp4", "video/mp4", 1<<20)
	assert.ErrorIs(t, err, errors.ErrUnsupportedMedia)
}

func TestConsumeWithoutLedgerIsPermissive(t *testing.T) {
	svc := newLocalStorageService(t)

	// Without a redis ledger the credential is only time-bounded, so
	// consumption never fails.
	assert.NoError(t, svc.Consume(context.Background(), "audio/user-1/any-key.mp3"))
	assert.NoError(t, svc.Consume(context.Background(), "audio/user-1/any-key.mp3"))
}
