package service

import (
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
	"github.com/andresuchdata/datareplica/internal/repository"
)

// validateInventoryConfig runs the checks shared by the mirror and the seeder.
// It must pass before any connection is opened.
func validateInventoryConfig(table string, db config.DatabaseConfig) (string, error) {
	table, err := domain.SanitizeIdentifier(table)
	if err != nil {
		return "", err
	}
	if !db.HasCredentials() {
		return "", &domain.MissingCredentialsError{}
	}
	return table, nil
}

// closeStore releases store and records a close failure in errp unless an
// earlier error is already being returned.
func closeStore(store repository.InventoryStore, name string, errp *error) {
	if err := store.Close(); err != nil {
		log.Error().Err(err).Str("connection", name).Msg("failed to close database connection")
		if *errp == nil {
			*errp = domain.NewDatabaseError("close "+name, err)
		}
	}
}
