// Package photo stores meal photos in an S3-compatible bucket. The store
// holds only opaque keys on the meal rows; bytes live in the bucket.
package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const (
	fallbackExt         = "webp"
	fallbackContentType = "image/jpeg"
	uploadAttempts      = 3
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Enabled reports whether the config carries enough to reach a bucket.
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Object is a stored photo ready for streaming.
type Object struct {
	Body        io.ReadCloser
	ContentType string
}

// Store reads and writes photo objects.
type Store struct {
	client s3Client
	bucket string
}

// NewStore creates a Store for the configured bucket, or nil when photo
// storage is not configured (the app runs fine without photos).
func NewStore(cfg Config) *Store {
	if !cfg.Enabled() {
		return nil
	}
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return &Store{client: s3.New(opts), bucket: cfg.Bucket}
}

// Key builds a fresh object key for a meal photo: meal-{id}-{uuid}.{ext}.
// The extension comes from the uploaded filename, lowercased, defaulting
// to webp when the name carries none.
func Key(mealID int64, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		ext = fallbackExt
	}
	return fmt.Sprintf("meal-%d-%s.%s", mealID, uuid.NewString(), ext)
}

// Put uploads the photo bytes under key. Uploads are retried a few times
// with backoff; household WiFi drops mid-upload more often than one would
// hope.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	if contentType == "" {
		contentType = fallbackContentType
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}

	backoff := retry.WithMaxRetries(uploadAttempts-1, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
			ContentType:   aws.String(contentType),
		})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upload photo: %w", err)
	}
	return nil
}

// Get fetches the photo stored under key, or nil when absent. Callers own
// closing the body.
func (s *Store) Get(ctx context.Context, key string) (*Object, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NoSuchKey
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get photo: %w", err)
	}

	contentType := fallbackContentType
	if result.ContentType != nil && *result.ContentType != "" {
		contentType = *result.ContentType
	}
	return &Object{Body: result.Body, ContentType: contentType}, nil
}
