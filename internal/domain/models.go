// internal/domain/models.go
package domain

import "time"

// DefaultTableName is used when TABLE_NAME is not configured
const DefaultTableName = "inventory_sample"

// InventoryRow represents a single row of the replicated inventory table
type InventoryRow struct {
	ItemID    int64     `json:"item_id" db:"item_id"`
	ItemName  string    `json:"item_name" db:"item_name"`
	Quantity  int64     `json:"quantity" db:"quantity"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SeedRow is an inventory row without the server-assigned timestamp
type SeedRow struct {
	ItemID   int64  `json:"item_id"`
	ItemName string `json:"item_name"`
	Quantity int64  `json:"quantity"`
}

// ObjectInfo represents one entry of a bucket listing
type ObjectInfo struct {
	Key          string    `json:"Key"`
	Size         int64     `json:"Size"`
	LastModified time.Time `json:"LastModified"`
	ETag         string    `json:"ETag,omitempty"`
	StorageClass string    `json:"StorageClass,omitempty"`
}

// ReplicationResult is the body returned by the object replicator
type ReplicationResult struct {
	Copied int `json:"copied"`
}

// MirrorResult is the body returned by the database backup
type MirrorResult struct {
	CopiedRows string `json:"copiedRows"`
}

// MirrorComplete marks a finished mirror run
const MirrorComplete = "complete"

// SeedResult is the body returned by the seeder. Exactly one of Rows or
// ExistingRows is set depending on Seeded.
type SeedResult struct {
	Seeded       bool `json:"seeded"`
	Rows         *int `json:"rows,omitempty"`
	ExistingRows *int `json:"existingRows,omitempty"`
}

// NewSeededResult reports a fresh seed of n rows
func NewSeededResult(n int) SeedResult {
	return SeedResult{Seeded: true, Rows: &n}
}

// NewSkippedSeedResult reports that the table already held n rows
func NewSkippedSeedResult(n int) SeedResult {
	return SeedResult{Seeded: false, ExistingRows: &n}
}
