package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
)

// MinioClient implements ObjectStorage for S3-compatible services.
type MinioClient struct {
	client *minio.Client
}

// NewMinioClient builds a new MinioClient from the storage configuration.
func NewMinioClient(cfg config.StorageConfig) (*MinioClient, error) {
	if cfg.Endpoint == "" {
		return nil, domain.NewConfigurationError("storage endpoint must be provided", "STORAGE_ENDPOINT")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, domain.NewConfigurationError("storage credentials must be provided",
			"STORAGE_ACCESS_KEY", "STORAGE_SECRET_KEY")
	}

	endpoint, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioClient{client: client}, nil
}

// CopyObject issues a server-side copy. minio-go escapes the source key itself.
func (c *MinioClient) CopyObject(ctx context.Context, srcBucket, key, dstBucket string) error {
	_, err := c.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstBucket, Object: key},
		minio.CopySrcOptions{Bucket: srcBucket, Object: key},
	)
	if err != nil {
		return domain.NewStorageError("copy "+key, err)
	}
	return nil
}

// ListObjects returns at most one page of objects in bucket.
func (c *MinioClient) ListObjects(ctx context.Context, bucket string) ([]domain.ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]domain.ObjectInfo, 0)
	for object := range c.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Recursive: true,
		MaxKeys:   listPageSize,
	}) {
		if object.Err != nil {
			return nil, domain.NewStorageError("list "+bucket, object.Err)
		}
		results = append(results, domain.ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ETag:         object.ETag,
			StorageClass: object.StorageClass,
		})
		if len(results) == listPageSize {
			break
		}
	}
	return results, nil
}

var _ ObjectStorage = (*MinioClient)(nil)

// splitEndpoint strips any scheme from endpoint; minio-go wants a bare host.
func splitEndpoint(endpoint string, useSSL bool) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), false
	default:
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "//"), "/"), useSSL
	}
}
