package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
)

// MinIOConfig holds the object storage connection
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Region    string `mapstructure:"region"`
}

// MinIOBlobStore implements port.BlobStore on an S3 compatible bucket
type MinIOBlobStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinIOBlobStore connects to the bucket, creating it when missing
func NewMinIOBlobStore(ctx context.Context, cfg MinIOConfig, logger *zap.Logger) (*MinIOBlobStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("Bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &MinIOBlobStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Put uploads data under key
func (m *MinIOBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	clean, err := SanitizeKey(key)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = m.client.PutObject(ctx, m.bucket, clean, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		m.logger.Error("Failed to upload blob", zap.String("key", clean), zap.Error(err))
		return fmt.Errorf("failed to upload blob: %w", err)
	}
	return nil
}

// Get downloads the blob stored under key
func (m *MinIOBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	clean, err := SanitizeKey(key)
	if err != nil {
		return nil, err
	}

	object, err := m.client.GetObject(ctx, m.bucket, clean, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(clean, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, mapError(clean, err)
	}
	return data, nil
}

// Exists reports whether key holds a blob
func (m *MinIOBlobStore) Exists(ctx context.Context, key string) bool {
	clean, err := SanitizeKey(key)
	if err != nil {
		return false
	}
	_, err = m.client.StatObject(ctx, m.bucket, clean, minio.StatObjectOptions{})
	return err == nil
}

// Delete removes the blob under key
func (m *MinIOBlobStore) Delete(ctx context.Context, key string) error {
	clean, err := SanitizeKey(key)
	if err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, clean, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

func mapError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return fmt.Errorf("failed to read blob %s: %w", key, err)
}

var _ port.BlobStore = (*MinIOBlobStore)(nil)
