// Command import loads a festival file into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -file data/festivals.yaml -db data/panchang.db
//
// This tool:
// 1. Parses the YAML or TOML festival file (the built-in 2025 list without -file)
// 2. Creates/opens the SQLite database
// 3. Runs migrations to ensure schema is current
// 4. Replaces the festivals table in a single transaction (-upsert merges instead)
//
// A file that repeats a date and name fails a replace and leaves the table
// untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/festival"
)

func main() {
	// Parse command line flags
	filePath := flag.String("file", "", "YAML or TOML festival file (default: built-in list)")
	dbPath := flag.String("db", "data/panchang.db", "Path to SQLite database")
	dryRun := flag.Bool("dry-run", false, "Parse and validate only")
	upsert := flag.Bool("upsert", false, "Merge into existing festivals instead of replacing them")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Run import
	if err := run(*filePath, *dbPath, *dryRun, *upsert, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(filePath, dbPath string, dryRun, upsert bool, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Parse festival file
	// =========================================================================
	source := filePath
	if source == "" {
		source = "built-in"
	}
	logger.Info("reading festivals", slog.String("source", source))

	records, err := festival.Load(filePath)
	if err != nil {
		return err
	}
	for _, r := range records {
		logger.Debug("parsed festival",
			slog.String("date", r.Date),
			slog.String("name", r.Name),
			slog.String("type", string(r.Type)),
		)
	}
	logger.Info("parsed festivals", slog.Int("count", len(records)))

	if dryRun {
		return nil
	}

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Replace festivals in a transaction, or merge them
	// =========================================================================
	if upsert {
		if _, err := db.UpsertFestivals(ctx, records); err != nil {
			return fmt.Errorf("merge festivals: %w", err)
		}
	} else if _, err := db.ReplaceFestivals(ctx, records); err != nil {
		return fmt.Errorf("import festivals: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	stats, err := db.GetFestivalStats(ctx)
	if err != nil {
		return fmt.Errorf("festival stats: %w", err)
	}

	elapsed := time.Since(startTime)

	logger.Info("import verified",
		slog.Int("total", stats.Total),
		slog.Int("festivals", stats.Festivals),
		slog.Int("vrats", stats.Vrats),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Festivals imported:  %d\n", stats.Festivals)
	fmt.Printf("Vrats imported:      %d\n", stats.Vrats)
	if stats.FirstDate != nil && stats.LastDate != nil {
		fmt.Printf("Date span:           %s to %s\n", *stats.FirstDate, *stats.LastDate)
	}
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}
