package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
	"github.com/andresuchdata/datareplica/internal/repository"
)

// Seeder fills an empty inventory table on the source database.
type Seeder struct {
	connector repository.Connector
	db        config.DatabaseConfig
	table     string
	seedRows  string
}

func NewSeeder(connector repository.Connector, db config.DatabaseConfig, inventory config.InventoryConfig) *Seeder {
	return &Seeder{
		connector: connector,
		db:        db,
		table:     inventory.TableName,
		seedRows:  inventory.SeedRows,
	}
}

func (s *Seeder) Run(ctx context.Context) (result domain.SeedResult, err error) {
	table, err := validateInventoryConfig(s.table, s.db)
	if err != nil {
		return domain.SeedResult{}, err
	}

	store, err := s.connector.Open(ctx, s.db.Source, table)
	if err != nil {
		return domain.SeedResult{}, err
	}
	defer closeStore(store, "source", &err)

	if err := store.EnsureTable(ctx); err != nil {
		return domain.SeedResult{}, err
	}

	count, err := store.Count(ctx)
	if err != nil {
		return domain.SeedResult{}, err
	}
	if count > 0 {
		log.Info().Str("table", table).Int("rows", count).Msg("Table already seeded, skipping")
		return domain.NewSkippedSeedResult(count), nil
	}

	seeds := domain.ParseSeedRows(s.seedRows)
	if seeds.Warning != nil {
		log.Warn().Err(seeds.Warning).Msg("Falling back to default seed rows")
	}

	for _, row := range seeds.Rows {
		if err := store.InsertSeed(ctx, row); err != nil {
			return domain.SeedResult{}, err
		}
	}

	log.Info().Str("table", table).Int("rows", len(seeds.Rows)).Str("source", seeds.Source.String()).Msg("Seeded table")
	return domain.NewSeededResult(len(seeds.Rows)), nil
}
