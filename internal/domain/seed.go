package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SeedSource tells where a seed list came from
type SeedSource int

const (
	SeedSourceDefault SeedSource = iota
	SeedSourceOverride
)

func (s SeedSource) String() string {
	if s == SeedSourceOverride {
		return "override"
	}
	return "default"
}

// SeedRows is the outcome of resolving the seed list. When an override was
// supplied but could not be used, Source is SeedSourceDefault and Warning
// explains why.
type SeedRows struct {
	Rows    []SeedRow
	Source  SeedSource
	Warning error
}

// DefaultSeedRows returns a fresh copy of the built-in seed list
func DefaultSeedRows() []SeedRow {
	return []SeedRow{
		{ItemID: 1, ItemName: "Widget Alpha", Quantity: 25},
		{ItemID: 2, ItemName: "Widget Beta", Quantity: 12},
		{ItemID: 3, ItemName: "Widget Gamma", Quantity: 7},
	}
}

// ParseSeedRows resolves the SEED_ROWS override. It never fails: anything that
// is not a non-empty JSON array of rows falls back to the defaults.
func ParseSeedRows(raw string) SeedRows {
	if strings.TrimSpace(raw) == "" {
		return SeedRows{Rows: DefaultSeedRows(), Source: SeedSourceDefault}
	}

	var rows []SeedRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return SeedRows{
			Rows:    DefaultSeedRows(),
			Source:  SeedSourceDefault,
			Warning: fmt.Errorf("failed to parse SEED_ROWS: %w", err),
		}
	}
	if len(rows) == 0 {
		return SeedRows{
			Rows:    DefaultSeedRows(),
			Source:  SeedSourceDefault,
			Warning: fmt.Errorf("SEED_ROWS is empty"),
		}
	}

	return SeedRows{Rows: rows, Source: SeedSourceOverride}
}
