package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
	"github.com/andresuchdata/datareplica/internal/repository"
)

var errInjected = errors.New("injected failure")

// fakeDatabase is an in-memory stand-in for one Postgres instance.
type fakeDatabase struct {
	mu          sync.Mutex
	tableExists bool
	rows        map[int64]domain.InventoryRow
	now         time.Time
}

func newFakeDatabase(rows ...domain.InventoryRow) *fakeDatabase {
	db := &fakeDatabase{rows: make(map[int64]domain.InventoryRow), now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	for _, r := range rows {
		db.tableExists = true
		db.rows[r.ItemID] = r
	}
	return db
}

func (db *fakeDatabase) snapshot() []domain.InventoryRow {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]domain.InventoryRow, 0, len(db.rows))
	for _, r := range db.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// fakeStore is an InventoryStore over a fakeDatabase with failure injection.
type fakeStore struct {
	db         *fakeDatabase
	closeCount int
	failOn     map[string]bool
	failAfter  int // Upsert fails once this many rows were written, when > 0
	upserts    int
	calls      []string
	txStarted  bool
}

func (s *fakeStore) record(op string) error {
	s.calls = append(s.calls, op)
	if s.failOn[op] {
		return domain.NewDatabaseError(op, errInjected)
	}
	return nil
}

func (s *fakeStore) EnsureTable(ctx context.Context) error {
	if err := s.record("ensure"); err != nil {
		return err
	}
	s.db.mu.Lock()
	s.db.tableExists = true
	s.db.mu.Unlock()
	return nil
}

func (s *fakeStore) FetchAll(ctx context.Context) ([]domain.InventoryRow, error) {
	if err := s.record("fetch"); err != nil {
		return nil, err
	}
	return s.db.snapshot(), nil
}

func (s *fakeStore) Count(ctx context.Context) (int, error) {
	if err := s.record("count"); err != nil {
		return 0, err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return len(s.db.rows), nil
}

func (s *fakeStore) Truncate(ctx context.Context) error {
	if err := s.record("truncate"); err != nil {
		return err
	}
	s.db.mu.Lock()
	s.db.rows = make(map[int64]domain.InventoryRow)
	s.db.mu.Unlock()
	return nil
}

func (s *fakeStore) Upsert(ctx context.Context, row domain.InventoryRow) error {
	if err := s.record("upsert"); err != nil {
		return err
	}
	if s.failAfter > 0 && s.upserts >= s.failAfter {
		return domain.NewDatabaseError("upsert", errInjected)
	}
	s.upserts++
	s.db.mu.Lock()
	s.db.rows[row.ItemID] = row
	s.db.mu.Unlock()
	return nil
}

func (s *fakeStore) InsertSeed(ctx context.Context, row domain.SeedRow) error {
	if err := s.record("seed"); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.rows[row.ItemID]; ok {
		return nil
	}
	s.db.rows[row.ItemID] = domain.InventoryRow{
		ItemID:    row.ItemID,
		ItemName:  row.ItemName,
		Quantity:  row.Quantity,
		UpdatedAt: s.db.now,
	}
	return nil
}

// WithTx stages writes on a copy of the rows and publishes them only when fn
// succeeds.
func (s *fakeStore) WithTx(ctx context.Context, fn func(repository.InventoryStore) error) error {
	s.txStarted = true
	staged := newFakeDatabase(s.db.snapshot()...)
	staged.tableExists = true
	tx := &fakeStore{db: staged, failOn: s.failOn, failAfter: s.failAfter}
	if err := fn(tx); err != nil {
		return err
	}
	s.db.mu.Lock()
	s.db.rows = staged.rows
	s.db.mu.Unlock()
	return nil
}

func (s *fakeStore) Close() error {
	s.closeCount++
	if s.failOn["close"] {
		return errInjected
	}
	return nil
}

// fakeConnector hands out stores keyed by endpoint host.
type fakeConnector struct {
	databases map[string]*fakeDatabase
	failOpen  map[string]bool
	failOn    map[string]map[string]bool
	failAfter map[string]int
	opened    []*fakeStore
	byHost    map[string]*fakeStore
	hosts     []string
	tables    []string
}

func newFakeConnector() *fakeConnector {
	return &fakeConnector{
		databases: make(map[string]*fakeDatabase),
		failOpen:  make(map[string]bool),
		failOn:    make(map[string]map[string]bool),
		failAfter: make(map[string]int),
		byHost:    make(map[string]*fakeStore),
	}
}

func (c *fakeConnector) Open(ctx context.Context, endpoint config.Endpoint, table string) (repository.InventoryStore, error) {
	c.hosts = append(c.hosts, endpoint.Host)
	c.tables = append(c.tables, table)
	if c.failOpen[endpoint.Host] {
		return nil, domain.NewDatabaseError("connect "+endpoint.Host, errInjected)
	}
	db, ok := c.databases[endpoint.Host]
	if !ok {
		db = newFakeDatabase()
		c.databases[endpoint.Host] = db
	}
	store := &fakeStore{db: db, failOn: c.failOn[endpoint.Host], failAfter: c.failAfter[endpoint.Host]}
	c.opened = append(c.opened, store)
	c.byHost[endpoint.Host] = store
	return store, nil
}

func (c *fakeConnector) storeFor(host string) *fakeStore {
	return c.byHost[host]
}

func testDatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		User:     "app",
		Password: "secret",
		Source:   config.Endpoint{Host: "source", Port: "5432", DBName: "primary"},
		Target:   config.Endpoint{Host: "target", Port: "5432", DBName: "backup"},
	}
}

func row(id int64, name string, qty int64) domain.InventoryRow {
	return domain.InventoryRow{
		ItemID:    id,
		ItemName:  name,
		Quantity:  qty,
		UpdatedAt: time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
	}
}
