package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	apierr "github.com/saforex/saforex-go/internal/errors"
	"github.com/saforex/saforex-go/internal/metrics"
)

// S3Store uploads media to S3-compatible object storage and synthesizes the
// public URLs the content rows carry.
type S3Store struct {
	client  *s3.Client
	region  string
	baseURL string
}

// UploadResult contains the result of an upload
type UploadResult struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
	Size   int64  `json:"size"`
}

// NewS3Store creates a store against the given region and public base URL.
func NewS3Store(ctx context.Context, region, baseURL string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Store{
		client:  s3.NewFromConfig(cfg),
		region:  region,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Upload stores data under bucket/key. A key that already exists fails with
// a Conflict so callers can surface a duplicate-name message.
func (s *S3Store) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (*UploadResult, error) {
	putObjectInput := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),

		// Media never changes once published
		CacheControl: aws.String("max-age=3600"),

		// Refuse to overwrite an existing object
		IfNoneMatch: aws.String("*"),

		Metadata: map[string]string{
			"upload-timestamp": time.Now().Format(time.RFC3339),
		},
	}

	_, err := s.client.PutObject(ctx, putObjectInput)
	if err != nil {
		metrics.Get().UploadsTotal.WithLabelValues(bucket, "error").Inc()
		if isDuplicate(err) {
			return nil, apierr.Conflict("object already exists: " + key)
		}
		return nil, fmt.Errorf("failed to upload to storage: %w", err)
	}

	m := metrics.Get()
	m.UploadsTotal.WithLabelValues(bucket, "ok").Inc()
	m.UploadBytesTotal.WithLabelValues(bucket).Add(float64(len(data)))

	return &UploadResult{
		Key:    key,
		URL:    s.PublicURL(bucket, key),
		Bucket: bucket,
		Size:   int64(len(data)),
	}, nil
}

// PublicURL synthesizes the public address of an object.
func (s *S3Store) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, bucket, key)
}

// CheckBucketAccess verifies that the bucket is reachable.
func (s *S3Store) CheckBucketAccess(ctx context.Context, bucket string) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return fmt.Errorf("cannot access bucket %s: %w", bucket, err)
	}
	return nil
}

// isDuplicate reports whether the storage service refused to overwrite an
// existing object under the conditional put.
func isDuplicate(err error) bool {
	var apiError smithy.APIError
	if errors.As(err, &apiError) {
		return apiError.ErrorCode() == "PreconditionFailed"
	}
	return false
}
