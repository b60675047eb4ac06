// Package storage wraps MinIO object storage for project photo attachments.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"groenportaal_backend/platform/config"
	"groenportaal_backend/platform/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// presignTTL is how long generated upload/download URLs stay valid.
const presignTTL = 15 * time.Minute

// Client provides presigned access to the project photo bucket.
type Client struct {
	client   *minio.Client
	bucket   string
	maxBytes int64
	logger   *logger.Logger
}

// New connects to MinIO and ensures the photo bucket exists.
func New(ctx context.Context, cfg config.MinIOConfig, log *logger.Logger) (*Client, error) {
	mc, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}

	bucket := cfg.GetMinioBucketProjectPhotos()
	exists, err := mc.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		log.Info("created storage bucket", "bucket", bucket)
	}

	return &Client{
		client:   mc,
		bucket:   bucket,
		maxBytes: cfg.GetMinIOMaxFileSize(),
		logger:   log,
	}, nil
}

// PresignedUploadURL returns a short-lived URL the client can PUT a photo to.
func (c *Client) PresignedUploadURL(ctx context.Context, objectKey string) (string, error) {
	u, err := c.client.PresignedPutObject(ctx, c.bucket, objectKey, presignTTL)
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	return u.String(), nil
}

// PresignedDownloadURL returns a short-lived URL to fetch a stored photo.
func (c *Client) PresignedDownloadURL(ctx context.Context, objectKey string) (string, error) {
	u, err := c.client.PresignedGetObject(ctx, c.bucket, objectKey, presignTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u.String(), nil
}

// Remove deletes a stored photo.
func (c *Client) Remove(ctx context.Context, objectKey string) error {
	if err := c.client.RemoveObject(ctx, c.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// MaxFileSize returns the configured upload cap in bytes.
func (c *Client) MaxFileSize() int64 {
	return c.maxBytes
}
