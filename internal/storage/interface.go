package storage

import "context"

// ObjectStore is the surface media helpers need from object storage.
// Kept narrow so tests can substitute a double.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (*UploadResult, error)
	PublicURL(bucket, key string) string
}

// Ensure S3Store implements ObjectStore
var _ ObjectStore = (*S3Store)(nil)
