// Package objectstore wraps the S3-compatible store holding document
// artifacts. The API exposes only presigned URLs: clients upload and download
// directly against the bucket, the server never proxies file bytes.
package objectstore

import (
	"context"
	"fmt"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"smarttalent/internal/platform/config"
)

// Store issues presigned upload/download URLs for a single artifact bucket.
type Store struct {
	client *minio.Client
	cfg    config.StorageConfig
}

// New creates a MinIO client from the storage configuration.
func New(cfg config.StorageConfig) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store: %w", err)
	}
	return &Store{client: client, cfg: cfg}, nil
}

// EnsureBucket makes sure the artifact bucket exists before use.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.cfg.Bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.cfg.Bucket, err)
		}
	}
	return nil
}

// PresignWrite returns a signed PUT URL for uploading an artifact.
func (s *Store) PresignWrite(ctx context.Context, objectName string) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.cfg.Bucket, objectName, s.cfg.SignedTTL)
	if err != nil {
		return "", fmt.Errorf("presign write %s: %w", objectName, err)
	}
	return u.String(), nil
}

// PresignRead returns a signed GET URL for downloading an artifact.
func (s *Store) PresignRead(ctx context.Context, objectName string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, objectName, s.cfg.SignedTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign read %s: %w", objectName, err)
	}
	return u.String(), nil
}
