package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"ausmass_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// presignedURLTTL is the expiration time for presigned URLs.
const presignedURLTTL = 15 * time.Minute

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// MinIOStore implements PhotoStore using MinIO.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore creates a new MinIO photo store.
func NewMinIOStore(cfg config.MinIOConfig) (*MinIOStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOStore{
		client: client,
		bucket: cfg.GetMinioBucketMeasurementPhotos(),
	}, nil
}

// EnsureBucket creates the photo bucket if it does not exist.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// PresignUpload creates a presigned PUT URL for a new photo. The object key
// namespaces photos per measurement and suffixes a UUID so uploads never
// overwrite each other.
func (s *MinIOStore) PresignUpload(ctx context.Context, measurementID, fileName, contentType string) (*PresignedURL, error) {
	ext, ok := allowedContentTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	base := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	if base == "" || base == "." {
		base = "photo"
	}
	objectKey := path.Join(measurementID, fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext))

	expiresAt := time.Now().Add(presignedURLTTL)
	url, err := s.client.PresignedPutObject(ctx, s.bucket, objectKey, presignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}

	return &PresignedURL{URL: url.String(), ObjectKey: objectKey, ExpiresAt: expiresAt}, nil
}

// PresignDownload creates a presigned GET URL for a stored photo.
func (s *MinIOStore) PresignDownload(ctx context.Context, objectKey string) (*PresignedURL, error) {
	expiresAt := time.Now().Add(presignedURLTTL)
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, presignedURLTTL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return &PresignedURL{URL: url.String(), ObjectKey: objectKey, ExpiresAt: expiresAt}, nil
}

// Delete removes a stored photo.
func (s *MinIOStore) Delete(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectKey, err)
	}
	return nil
}
