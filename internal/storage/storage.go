// Package storage provides S3-compatible object storage for measurement
// photos.
package storage

import (
	"context"
	"time"
)

// PresignedURL contains the URL and metadata for a presigned upload or
// download.
type PresignedURL struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PhotoStore defines the object storage operations the photo endpoints
// need. Clients upload and download directly against the presigned URLs;
// the API never proxies image bytes.
type PhotoStore interface {
	// PresignUpload creates a presigned PUT URL for a new photo under the
	// given measurement. The returned object key is what gets persisted.
	PresignUpload(ctx context.Context, measurementID, fileName, contentType string) (*PresignedURL, error)

	// PresignDownload creates a presigned GET URL for a stored photo.
	PresignDownload(ctx context.Context, objectKey string) (*PresignedURL, error)

	// Delete removes a stored photo.
	Delete(ctx context.Context, objectKey string) error

	// EnsureBucket creates the photo bucket if it does not exist.
	EnsureBucket(ctx context.Context) error
}
