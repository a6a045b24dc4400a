package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
	"github.com/andresuchdata/datareplica/internal/repository"
)

// Mirror replaces the target table's contents with the source table's.
type Mirror struct {
	connector repository.Connector
	db        config.DatabaseConfig
	table     string
	atomic    bool
}

func NewMirror(connector repository.Connector, db config.DatabaseConfig, inventory config.InventoryConfig) *Mirror {
	return &Mirror{
		connector: connector,
		db:        db,
		table:     inventory.TableName,
		atomic:    inventory.MirrorAtomic,
	}
}

// Run copies every source row into the target. Unless the mirror is atomic,
// the target is truncated outside a transaction and a failure part way leaves
// it partially filled until the next run.
func (m *Mirror) Run(ctx context.Context) (result domain.MirrorResult, err error) {
	table, err := validateInventoryConfig(m.table, m.db)
	if err != nil {
		return domain.MirrorResult{}, err
	}

	source, err := m.connector.Open(ctx, m.db.Source, table)
	if err != nil {
		return domain.MirrorResult{}, err
	}
	defer closeStore(source, "source", &err)

	target, err := m.connector.Open(ctx, m.db.Target, table)
	if err != nil {
		return domain.MirrorResult{}, err
	}
	defer closeStore(target, "target", &err)

	// Keep schemas identical before copying any rows
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return source.EnsureTable(gctx) })
	g.Go(func() error { return target.EnsureTable(gctx) })
	if err := g.Wait(); err != nil {
		return domain.MirrorResult{}, err
	}

	rows, err := source.FetchAll(ctx)
	if err != nil {
		return domain.MirrorResult{}, err
	}
	log.Info().Str("table", table).Int("rows", len(rows)).Msg("Fetched rows from source")

	if m.atomic {
		err = target.WithTx(ctx, func(tx repository.InventoryStore) error {
			return replaceRows(ctx, tx, rows)
		})
	} else {
		err = replaceRows(ctx, target, rows)
	}
	if err != nil {
		return domain.MirrorResult{}, err
	}

	log.Info().Str("table", table).Int("rows", len(rows)).Bool("atomic", m.atomic).Msg("Replicated rows into backup database")
	return domain.MirrorResult{CopiedRows: domain.MirrorComplete}, nil
}

func replaceRows(ctx context.Context, target repository.InventoryStore, rows []domain.InventoryRow) error {
	if err := target.Truncate(ctx); err != nil {
		return err
	}
	for _, row := range rows {
		if err := target.Upsert(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
