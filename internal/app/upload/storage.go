package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"meetscribe/internal/app/errors"
)

// Credential is a short-lived, scoped permission to push one file directly
// to object storage.
type Credential struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StorageService issues deferred-upload credentials and manages stored
// audio objects.
type StorageService interface {
	// IssueCredential validates type and size, then returns a presigned
	// PUT credential for a fresh object key.
	IssueCredential(ctx context.Context, userID, fileName, contentType string, size int64) (*Credential, error)
	// Consume marks a credential's object key as used by a job start.
	// Returns errors.ErrCredentialConsumed on reuse.
	Consume(ctx context.Context, objectKey string) error
	// FetchAudio opens the stored object for engine submission.
	FetchAudio(ctx context.Context, objectKey string) (io.ReadCloser, error)
	// PurgeAudio removes the stored object after retention scrubbing.
	PurgeAudio(ctx context.Context, objectKey string) error
}

// MinioConfig configures the object storage backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStorageService implements StorageService using MinIO. The optional
// redis client backs the single-use credential ledger; without it the
// credential is only time-bounded.
type MinioStorageService struct {
	client      *minio.Client
	bucket      string
	redisClient *redis.Client
	expiry      time.Duration
	logger      *slog.Logger
}

// NewMinioStorageService creates the storage service and ensures the bucket
// exists.
func NewMinioStorageService(ctx context.Context, cfg MinioConfig, redisClient *redis.Client, logger *slog.Logger) (*MinioStorageService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioStorageService{
		client:      client,
		bucket:      cfg.Bucket,
		redisClient: redisClient,
		expiry:      15 * time.Minute,
		logger:      logger,
	}, nil
}

func (s *MinioStorageService) IssueCredential(ctx context.Context, userID, fileName, contentType string, size int64) (*Credential, error) {
	if size > HardLimit {
		return nil, errors.ErrPayloadTooLarge
	}
	if !AllowedContentType(contentType) {
		return nil, errors.ErrUnsupportedMedia
	}

	ext := filepath.Ext(fileName)
	objectKey := fmt.Sprintf("audio/%s/%d-%s%s", userID, time.Now().Unix(), uuid.New().String()[:8], ext)

	presignedURL, err := s.client.PresignedPutObject(ctx, s.bucket, objectKey, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	if s.redisClient != nil {
		// Record issuance so the first job start referencing this key can
		// consume it exactly once.
		ledgerKey := credentialLedgerKey(objectKey)
		if err := s.redisClient.Set(ctx, ledgerKey, "issued", s.expiry+time.Hour).Err(); err != nil {
			s.logger.Warn("credential ledger write failed", "object_key", objectKey, "error", err)
		}
	}

	return &Credential{
		URL:       presignedURL.String(),
		Method:    "PUT",
		ObjectKey: objectKey,
		ExpiresAt: time.Now().Add(s.expiry),
	}, nil
}

func (s *MinioStorageService) Consume(ctx context.Context, objectKey string) error {
	if s.redisClient == nil {
		return nil
	}
	ledgerKey := credentialLedgerKey(objectKey)
	// GETDEL makes consumption atomic: only the first consumer sees the
	// issued marker.
	val, err := s.redisClient.GetDel(ctx, ledgerKey).Result()
	if err == redis.Nil {
		return errors.ErrCredentialConsumed
	}
	if err != nil {
		// A ledger outage must not block job starts; the credential is
		// still time-bounded.
		s.logger.Warn("credential ledger read failed", "object_key", objectKey, "error", err)
		return nil
	}
	if val != "issued" {
		return errors.ErrCredentialConsumed
	}
	return nil
}

func (s *MinioStorageService) FetchAudio(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open stored audio: %w", err)
	}
	return obj, nil
}

func (s *MinioStorageService) PurgeAudio(ctx context.Context, objectKey string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete stored audio: %w", err)
	}
	return nil
}

func credentialLedgerKey(objectKey string) string {
	return "upload:credential:" + objectKey
}
