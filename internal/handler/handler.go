// Package handler exposes the replication operations as invocation handlers
// returning a {statusCode, body} envelope. Configuration, storage clients and
// database connections are built fresh for every invocation.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/repository"
	"github.com/andresuchdata/datareplica/internal/repository/postgres"
	"github.com/andresuchdata/datareplica/internal/service"
	"github.com/andresuchdata/datareplica/internal/storage"
)

// Names accepted by Lookup
const (
	NameReplicator = "replicator"
	NameBackup     = "backup"
	NameSeed       = "seed"
	NameList       = "list"
)

// Response is the envelope every handler returns.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Dependencies lets callers swap the per-invocation factories.
type Dependencies struct {
	LoadConfig   func() *config.Config
	NewStorage   func(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStorage, error)
	NewConnector func(cfg config.DatabaseConfig) repository.Connector
}

type Handlers struct {
	deps Dependencies
}

// New returns handlers wired to the real configuration, storage and Postgres.
func New() *Handlers {
	return NewWithDependencies(Dependencies{})
}

func NewWithDependencies(deps Dependencies) *Handlers {
	if deps.LoadConfig == nil {
		deps.LoadConfig = config.Load
	}
	if deps.NewStorage == nil {
		deps.NewStorage = storage.New
	}
	if deps.NewConnector == nil {
		deps.NewConnector = func(cfg config.DatabaseConfig) repository.Connector {
			return postgres.NewConnector(cfg)
		}
	}
	return &Handlers{deps: deps}
}

// Replicator copies every object named in an object-created event batch.
func (h *Handlers) Replicator(ctx context.Context, event events.S3Event) (Response, error) {
	cfg := h.deps.LoadConfig()
	log.Info().Int("records", len(event.Records)).Msg("Received event")
	log.Debug().Interface("event", event).Msg("Event payload")

	store, err := h.deps.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return Response{}, err
	}

	keys := make([]string, 0, len(event.Records))
	for _, record := range event.Records {
		keys = append(keys, record.S3.Object.Key)
	}

	result, err := service.NewReplicator(store, cfg.Storage).Replicate(ctx, keys)
	if err != nil {
		return Response{}, err
	}
	return jsonResponse(result)
}

// Backup mirrors the source table into the target database.
func (h *Handlers) Backup(ctx context.Context) (Response, error) {
	cfg := h.deps.LoadConfig()
	mirror := service.NewMirror(h.deps.NewConnector(cfg.Database), cfg.Database, cfg.Inventory)

	result, err := mirror.Run(ctx)
	if err != nil {
		return Response{}, err
	}
	return jsonResponse(result)
}

// Seed fills the source table with seed rows when it is empty.
func (h *Handlers) Seed(ctx context.Context) (Response, error) {
	cfg := h.deps.LoadConfig()
	seeder := service.NewSeeder(h.deps.NewConnector(cfg.Database), cfg.Database, cfg.Inventory)

	result, err := seeder.Run(ctx)
	if err != nil {
		return Response{}, err
	}
	return jsonResponse(result)
}

// List returns the first page of the configured bucket's listing.
func (h *Handlers) List(ctx context.Context) (Response, error) {
	cfg := h.deps.LoadConfig()

	store, err := h.deps.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return Response{}, err
	}

	objects, err := service.NewLister(store, cfg.Storage).List(ctx)
	if err != nil {
		return Response{}, err
	}
	return jsonResponse(objects)
}

// Lookup returns the handler function registered under name, typed the way
// the Lambda runtime expects.
func (h *Handlers) Lookup(name string) (interface{}, error) {
	switch name {
	case NameReplicator:
		return h.Replicator, nil
	case NameBackup:
		return h.Backup, nil
	case NameSeed:
		return h.Seed, nil
	case NameList:
		return h.List, nil
	default:
		return nil, fmt.Errorf("unknown handler %q", name)
	}
}

func jsonResponse(v interface{}) (Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode response: %w", err)
	}
	return Response{StatusCode: http.StatusOK, Body: string(body)}, nil
}
