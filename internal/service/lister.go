package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
	"github.com/andresuchdata/datareplica/internal/storage"
)

type Lister struct {
	storage storage.ObjectStorage
	bucket  string
}

func NewLister(store storage.ObjectStorage, cfg config.StorageConfig) *Lister {
	return &Lister{storage: store, bucket: cfg.BucketName}
}

// List returns the first page of objects in the configured bucket. An empty
// bucket yields an empty slice.
func (l *Lister) List(ctx context.Context) ([]domain.ObjectInfo, error) {
	if l.bucket == "" {
		return nil, domain.NewConfigurationError("bucket name is not set", "BUCKET_NAME")
	}

	objects, err := l.storage.ListObjects(ctx, l.bucket)
	if err != nil {
		return nil, err
	}
	if objects == nil {
		objects = []domain.ObjectInfo{}
	}

	log.Info().Str("bucket", l.bucket).Int("objects", len(objects)).Msg("Listed bucket")
	return objects, nil
}
