package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
	"github.com/andresuchdata/datareplica/internal/repository"
)

type inventoryRepository struct {
	db    *DB
	q     sqlx.ExtContext
	table string
}

// NewInventoryRepository binds a repository to table. The table name is
// validated again here because it is interpolated into every statement.
func NewInventoryRepository(db *DB, table string) (*inventoryRepository, error) {
	table, err := domain.SanitizeIdentifier(table)
	if err != nil {
		return nil, err
	}
	return &inventoryRepository{db: db, q: db.DB, table: table}, nil
}

// Connector opens Postgres-backed inventory stores.
type Connector struct {
	cfg config.DatabaseConfig
}

func NewConnector(cfg config.DatabaseConfig) *Connector {
	return &Connector{cfg: cfg}
}

func (c *Connector) Open(ctx context.Context, endpoint config.Endpoint, table string) (repository.InventoryStore, error) {
	if _, err := domain.SanitizeIdentifier(table); err != nil {
		return nil, err
	}
	db, err := NewDB(ctx, c.cfg, endpoint)
	if err != nil {
		return nil, err
	}
	repo, err := NewInventoryRepository(db, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *inventoryRepository) EnsureTable(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, createTableQuery(r.table))
	return domain.NewDatabaseError("ensure table "+r.table, err)
}

func (r *inventoryRepository) FetchAll(ctx context.Context) ([]domain.InventoryRow, error) {
	rows := make([]domain.InventoryRow, 0)
	if err := sqlx.SelectContext(ctx, r.q, &rows, selectAllQuery(r.table)); err != nil {
		return nil, domain.NewDatabaseError("select "+r.table, err)
	}
	return rows, nil
}

func (r *inventoryRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, countQuery(r.table)); err != nil {
		return 0, domain.NewDatabaseError("count "+r.table, err)
	}
	return count, nil
}

func (r *inventoryRepository) Truncate(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, truncateQuery(r.table))
	return domain.NewDatabaseError("truncate "+r.table, err)
}

func (r *inventoryRepository) Upsert(ctx context.Context, row domain.InventoryRow) error {
	_, err := r.q.ExecContext(ctx, upsertQuery(r.table),
		row.ItemID,
		row.ItemName,
		row.Quantity,
		row.UpdatedAt,
	)
	return domain.NewDatabaseError(fmt.Sprintf("upsert %s item %d", r.table, row.ItemID), err)
}

func (r *inventoryRepository) InsertSeed(ctx context.Context, row domain.SeedRow) error {
	_, err := r.q.ExecContext(ctx, insertSeedQuery(r.table), row.ItemID, row.ItemName, row.Quantity)
	return domain.NewDatabaseError(fmt.Sprintf("seed %s item %d", r.table, row.ItemID), err)
}

func (r *inventoryRepository) WithTx(ctx context.Context, fn func(repository.InventoryStore) error) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&inventoryRepository{db: r.db, q: tx, table: r.table})
	})
}

func (r *inventoryRepository) Close() error {
	return r.db.Close()
}

var _ repository.InventoryStore = (*inventoryRepository)(nil)
var _ repository.Connector = (*Connector)(nil)

func createTableQuery(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			item_id INTEGER PRIMARY KEY,
			item_name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, table)
}

func selectAllQuery(table string) string {
	return fmt.Sprintf(`SELECT item_id, item_name, quantity, updated_at FROM %s ORDER BY item_id`, table)
}

func countQuery(table string) string {
	return fmt.Sprintf(`SELECT COUNT(*)::int AS count FROM %s`, table)
}

func truncateQuery(table string) string {
	return fmt.Sprintf(`TRUNCATE TABLE %s`, table)
}

func upsertQuery(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (item_id, item_name, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id) DO UPDATE SET
			item_name = EXCLUDED.item_name,
			quantity = EXCLUDED.quantity,
			updated_at = EXCLUDED.updated_at
	`, table)
}

func insertSeedQuery(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (item_id, item_name, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id) DO NOTHING
	`, table)
}
