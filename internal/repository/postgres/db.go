package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
)

// Supported values for DB_DRIVER
const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

type DB struct {
	*sqlx.DB
}

// NewDB opens a dedicated connection to one endpoint. Each handler invocation
// opens its own and closes it before returning.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, endpoint config.Endpoint) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPQ
	}
	if driver != DriverPQ && driver != DriverPGX {
		return nil, domain.NewConfigurationError(fmt.Sprintf("unsupported database driver %q", driver), "DB_DRIVER")
	}

	db, err := sqlx.ConnectContext(ctx, driver, cfg.DSN(endpoint))
	if err != nil {
		return nil, domain.NewDatabaseError(fmt.Sprintf("connect %s/%s", endpoint.Host, endpoint.DBName), err)
	}

	// One logical client per endpoint
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{DB: db}, nil
}

// WithTx executes a function within a transaction
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}
