package storage

import (
	"context"
	"fmt"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
)

// listPageSize bounds a listing to a single S3 page.
const listPageSize = 1000

// ObjectStorage captures the minimal S3-compatible operations the handlers need.
type ObjectStorage interface {
	// CopyObject performs a server-side copy of key from srcBucket into
	// dstBucket under the same key.
	CopyObject(ctx context.Context, srcBucket, key, dstBucket string) error
	// ListObjects returns a single page of objects in bucket.
	ListObjects(ctx context.Context, bucket string) ([]domain.ObjectInfo, error)
}

// New builds the backend selected by cfg.Backend. Callers construct one per
// invocation.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case "", config.StorageBackendS3:
		return NewS3Client(ctx, cfg)
	case config.StorageBackendMinio:
		return NewMinioClient(cfg)
	default:
		return nil, domain.NewConfigurationError(
			fmt.Sprintf("unsupported storage backend %q", cfg.Backend), "STORAGE_BACKEND")
	}
}
