package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
	"github.com/andresuchdata/datareplica/internal/storage"
)

// Replicator copies newly created objects into the backup bucket.
type Replicator struct {
	storage      storage.ObjectStorage
	sourceBucket string
	destBucket   string
}

func NewReplicator(store storage.ObjectStorage, cfg config.StorageConfig) *Replicator {
	return &Replicator{
		storage:      store,
		sourceBucket: cfg.SourceBucket,
		destBucket:   cfg.DestBucket,
	}
}

// Replicate copies each object named in rawKeys. Keys arrive URL-encoded as
// in storage event notifications. Empty keys are skipped; the first failed
// copy aborts the remaining batch.
func (r *Replicator) Replicate(ctx context.Context, rawKeys []string) (domain.ReplicationResult, error) {
	if r.sourceBucket == "" || r.destBucket == "" {
		return domain.ReplicationResult{}, domain.NewConfigurationError(
			"bucket environment variables are not set", "SOURCE_BUCKET", "DEST_BUCKET")
	}

	if len(rawKeys) == 0 {
		log.Info().Msg("No records to process")
		return domain.ReplicationResult{Copied: 0}, nil
	}

	copied := 0
	for i, rawKey := range rawKeys {
		key, err := url.PathUnescape(rawKey)
		if err != nil {
			return domain.ReplicationResult{Copied: copied}, fmt.Errorf("failed to decode object key %q: %w", rawKey, err)
		}
		if key == "" {
			log.Info().Int("record", i).Msg("Skipping record with no key")
			continue
		}

		log.Info().Str("key", key).Str("source", r.sourceBucket).Str("destination", r.destBucket).Msg("Copying object to backup bucket")
		if err := r.storage.CopyObject(ctx, r.sourceBucket, key, r.destBucket); err != nil {
			return domain.ReplicationResult{Copied: copied}, err
		}
		copied++
	}

	log.Info().Int("copied", copied).Int("records", len(rawKeys)).Msg("Replication finished")
	return domain.ReplicationResult{Copied: copied}, nil
}
