package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zapponejosh/panchang-api/internal/festival"
)

// testDB creates a migrated in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedFestivals loads the built-in dataset.
func seedFestivals(t *testing.T, db *DB) {
	t.Helper()
	if _, err := db.ReplaceFestivals(context.Background(), festival.Default()); err != nil {
		t.Fatalf("seed festivals: %v", err)
	}
}

func names(fs []Festival) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

// -----------------------------------------------------------------
// DB tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)
	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)

	count, err := db.Migrate(context.Background())
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

// -----------------------------------------------------------------
// Festival tests
// -----------------------------------------------------------------

func TestGetFestivalsByDate(t *testing.T) {
	db := testDB(t)
	seedFestivals(t, db)
	ctx := context.Background()

	got, err := db.GetFestivalsByDate(ctx, "2025-10-03")
	if err != nil {
		t.Fatalf("GetFestivalsByDate() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("GetFestivalsByDate() returned %d rows, want 1", len(got))
	}
	if got[0].Name != "Navratri Begins" || got[0].Type != festival.TypeFestival {
		t.Errorf("GetFestivalsByDate() = %+v", got[0])
	}
	if got[0].ID == 0 || got[0].CreatedAt.IsZero() {
		t.Errorf("row metadata not populated: %+v", got[0])
	}

	none, err := db.GetFestivalsByDate(ctx, "2025-01-01")
	if err != nil {
		t.Fatalf("GetFestivalsByDate() error = %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("GetFestivalsByDate() = %#v, want empty slice", none)
	}
}

func TestGetFestivalsByMonth(t *testing.T) {
	db := testDB(t)
	seedFestivals(t, db)
	ctx := context.Background()

	got, err := db.GetFestivalsByMonth(ctx, 2025, time.November)
	if err != nil {
		t.Fatalf("GetFestivalsByMonth() error = %v", err)
	}
	want := []string{"Govardhan Puja", "Bhai Dooj", "Kartik Purnima"}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("GetFestivalsByMonth() mismatch (-want +got):\n%s", diff)
	}

	anyYear, err := db.GetFestivalsByMonth(ctx, 0, time.March)
	if err != nil {
		t.Fatalf("GetFestivalsByMonth(any year) error = %v", err)
	}
	if len(anyYear) != 6 {
		t.Errorf("GetFestivalsByMonth(any year, March) returned %d rows, want 6", len(anyYear))
	}

	if _, err := db.GetFestivalsByMonth(ctx, 2025, 13); err == nil {
		t.Error("GetFestivalsByMonth(13) expected error")
	}
}

func TestGetFestivalsInRange(t *testing.T) {
	db := testDB(t)
	seedFestivals(t, db)

	got, err := db.GetFestivalsInRange(context.Background(), "2025-08-08", "2025-08-27")
	if err != nil {
		t.Fatalf("GetFestivalsInRange() error = %v", err)
	}
	want := []string{"Nag Panchami", "Raksha Bandhan", "Krishna Janmashtami"}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("GetFestivalsInRange() mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertFestival_Duplicate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	f := &Festival{Date: "2026-01-14", Name: "Makar Sankranti", Type: festival.TypeFestival}
	if err := db.InsertFestival(ctx, f); err != nil {
		t.Fatalf("InsertFestival() error = %v", err)
	}
	if f.ID == 0 {
		t.Error("InsertFestival() did not set ID")
	}

	dup := &Festival{Date: "2026-01-14", Name: "Makar Sankranti", Type: festival.TypeVrat}
	if err := db.InsertFestival(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("InsertFestival() duplicate error = %v, want ErrDuplicate", err)
	}

	// A different observance on the same date is fine.
	other := &Festival{Date: "2026-01-14", Name: "Pongal", Type: festival.TypeFestival}
	if err := db.InsertFestival(ctx, other); err != nil {
		t.Errorf("InsertFestival() second name error = %v", err)
	}
}

func TestUpsertFestival(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	f := &Festival{Date: "2026-01-14", Name: "Makar Sankranti", Type: festival.TypeFestival, Description: "old"}
	if err := db.UpsertFestival(ctx, f); err != nil {
		t.Fatalf("UpsertFestival() error = %v", err)
	}
	f.Description = "new"
	if err := db.UpsertFestival(ctx, f); err != nil {
		t.Fatalf("UpsertFestival() second error = %v", err)
	}

	got, err := db.GetFestivalsByDate(ctx, "2026-01-14")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Description != "new" {
		t.Errorf("after upsert = %+v", got)
	}
}

func TestReplaceFestivals(t *testing.T) {
	db := testDB(t)
	seedFestivals(t, db)
	ctx := context.Background()

	n, err := db.ReplaceFestivals(ctx, []festival.Record{
		{Date: "2026-03-04", Name: "Holi", Type: festival.TypeFestival},
	})
	if err != nil {
		t.Fatalf("ReplaceFestivals() error = %v", err)
	}
	if n != 1 {
		t.Errorf("ReplaceFestivals() = %d, want 1", n)
	}

	all, err := db.ListFestivals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Holi"}, names(all)); diff != "" {
		t.Errorf("ListFestivals() mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceFestivals_RollsBackOnDuplicate(t *testing.T) {
	db := testDB(t)
	seedFestivals(t, db)
	ctx := context.Background()

	rec := festival.Record{Date: "2026-03-04", Name: "Holi", Type: festival.TypeFestival}
	if _, err := db.ReplaceFestivals(ctx, []festival.Record{rec, rec}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("ReplaceFestivals() error = %v, want ErrDuplicate", err)
	}

	stats, err := db.GetFestivalStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 23 {
		t.Errorf("table has %d rows after failed replace, want 23", stats.Total)
	}
}

func TestGetFestivalStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	empty, err := db.GetFestivalStats(ctx)
	if err != nil {
		t.Fatalf("GetFestivalStats() error = %v", err)
	}
	if empty.Total != 0 || empty.FirstDate != nil {
		t.Errorf("empty stats = %+v", empty)
	}

	seedFestivals(t, db)
	stats, err := db.GetFestivalStats(ctx)
	if err != nil {
		t.Fatalf("GetFestivalStats() error = %v", err)
	}
	if stats.Total != 23 || stats.Vrats != 3 || stats.Festivals != 20 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.FirstDate == nil || *stats.FirstDate != "2025-02-28" {
		t.Errorf("first date = %v", stats.FirstDate)
	}
	if stats.LastDate == nil || *stats.LastDate != "2025-12-25" {
		t.Errorf("last date = %v", stats.LastDate)
	}
}

func TestDeleteFestival(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	f := &Festival{Date: "2026-01-14", Name: "Pongal", Type: festival.TypeFestival}
	if err := db.InsertFestival(ctx, f); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteFestival(ctx, f.ID); err != nil {
		t.Errorf("DeleteFestival() error = %v", err)
	}
	if err := db.DeleteFestival(ctx, f.ID); !IsNotFound(err) {
		t.Errorf("DeleteFestival() again error = %v, want not found", err)
	}
}

// -----------------------------------------------------------------
// Saved location tests
// -----------------------------------------------------------------

func TestSavedLocation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.GetSavedLocation(ctx, "client-1"); !IsNotFound(err) {
		t.Fatalf("GetSavedLocation() error = %v, want not found", err)
	}

	loc := &SavedLocation{ClientID: "client-1", Latitude: 35.6762, Longitude: 139.6503, Name: "Tokyo"}
	if err := db.SaveLocation(ctx, loc); err != nil {
		t.Fatalf("SaveLocation() error = %v", err)
	}

	loc.Latitude, loc.Longitude, loc.Name = 28.6139, 77.2090, "New Delhi"
	if err := db.SaveLocation(ctx, loc); err != nil {
		t.Fatalf("SaveLocation() overwrite error = %v", err)
	}

	got, err := db.GetSavedLocation(ctx, "client-1")
	if err != nil {
		t.Fatalf("GetSavedLocation() error = %v", err)
	}
	if got.Latitude != 28.6139 || got.Longitude != 77.2090 || got.Name != "New Delhi" {
		t.Errorf("GetSavedLocation() = %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not populated")
	}

	if err := db.DeleteSavedLocation(ctx, "client-1"); err != nil {
		t.Errorf("DeleteSavedLocation() error = %v", err)
	}
	if err := db.DeleteSavedLocation(ctx, "client-1"); !IsNotFound(err) {
		t.Errorf("DeleteSavedLocation() again error = %v, want not found", err)
	}
}

func TestSaveLocation_Validation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.SaveLocation(ctx, &SavedLocation{Latitude: 1, Longitude: 1}); err == nil {
		t.Error("SaveLocation() without client id expected error")
	}
	if err := db.SaveLocation(ctx, &SavedLocation{ClientID: "c", Latitude: 95, Longitude: 1}); err == nil {
		t.Error("SaveLocation() with latitude 95 expected check constraint error")
	}
}

// -----------------------------------------------------------------
// Transaction tests
// -----------------------------------------------------------------

func TestWithTx(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		return tx.InsertFestival(ctx, &Festival{Date: "2026-02-15", Name: "Maha Shivaratri", Type: festival.TypeVrat})
	})
	if err != nil {
		t.Fatalf("WithTx() success case error = %v", err)
	}

	got, err := db.GetFestivalsByDate(ctx, "2026-02-15")
	if err != nil || len(got) != 1 {
		t.Errorf("festival not created: %v %v", got, err)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		if err := tx.InsertFestival(ctx, &Festival{Date: "2026-02-16", Name: "Test", Type: festival.TypeVrat}); err != nil {
			return err
		}
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Fatalf("WithTx() rollback case error = %v, want ErrNotFound", err)
	}

	got, err := db.GetFestivalsByDate(ctx, "2026-02-16")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("festival should not exist after rollback, got %v", got)
	}
}

func TestImportFestivals(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "festivals.toml")
	data := "[[festivals]]\ndate = \"2026-03-04\"\nname = \"Holi\"\ntype = \"Festival\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := db.ImportFestivals(ctx, path)
	if err != nil {
		t.Fatalf("ImportFestivals() error = %v", err)
	}
	if n != 1 {
		t.Errorf("ImportFestivals() = %d, want 1", n)
	}

	if _, err := db.ImportFestivals(ctx, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("ImportFestivals() with missing file should fail")
	}
	all, err := db.ListFestivals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Holi"}, names(all)); diff != "" {
		t.Errorf("failed import changed the table (-want +got):\n%s", diff)
	}
}

func TestSeedFestivals(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	n, err := db.SeedFestivals(ctx, "")
	if err != nil {
		t.Fatalf("SeedFestivals() error = %v", err)
	}
	if n != 23 {
		t.Errorf("SeedFestivals() on empty table = %d, want 23", n)
	}

	n, err = db.SeedFestivals(ctx, "")
	if err != nil {
		t.Fatalf("SeedFestivals() second call error = %v", err)
	}
	if n != 0 {
		t.Errorf("SeedFestivals() on seeded table = %d, want 0", n)
	}
}
