package database

import (
	"context"
	"fmt"

	"github.com/zapponejosh/panchang-api/internal/festival"
)

// ImportFestivals loads a YAML or TOML festival file, or the built-in list
// when path is empty, and replaces the festivals table with it.
func (db *DB) ImportFestivals(ctx context.Context, path string) (int, error) {
	records, err := festival.Load(path)
	if err != nil {
		return 0, fmt.Errorf("import festivals: %w", err)
	}
	n, err := db.ReplaceFestivals(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("import festivals: %w", err)
	}
	return n, nil
}

// SeedFestivals imports like ImportFestivals, but only into an empty
// table. It returns 0 when festivals are already present.
func (db *DB) SeedFestivals(ctx context.Context, path string) (int, error) {
	stats, err := db.GetFestivalStats(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed festivals: %w", err)
	}
	if stats.Total > 0 {
		return 0, nil
	}
	return db.ImportFestivals(ctx, path)
}
