package repository

import (
	"context"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
)

// InventoryStore operates on one inventory table over one database connection.
type InventoryStore interface {
	// EnsureTable creates the table if it does not exist.
	EnsureTable(ctx context.Context) error
	// FetchAll returns every row ordered by item_id.
	FetchAll(ctx context.Context) ([]domain.InventoryRow, error)
	Count(ctx context.Context) (int, error)
	// Truncate removes every row. It cannot be undone outside a transaction.
	Truncate(ctx context.Context) error
	// Upsert inserts row or overwrites all non-key columns on item_id conflict.
	Upsert(ctx context.Context, row domain.InventoryRow) error
	// InsertSeed inserts row and silently skips it on item_id conflict.
	InsertSeed(ctx context.Context, row domain.SeedRow) error
	// WithTx runs fn against a store bound to a single transaction.
	WithTx(ctx context.Context, fn func(InventoryStore) error) error
	// Close releases the underlying connection.
	Close() error
}

// Connector opens a fresh InventoryStore for an endpoint and table.
type Connector interface {
	Open(ctx context.Context, endpoint config.Endpoint, table string) (InventoryStore, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context, endpoint config.Endpoint, table string) (InventoryStore, error)

func (f ConnectorFunc) Open(ctx context.Context, endpoint config.Endpoint, table string) (InventoryStore, error) {
	return f(ctx, endpoint, table)
}
