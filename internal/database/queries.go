package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zapponejosh/panchang-api/internal/festival"
)

// parseTimestamp parses a timestamp from SQLite TEXT format, returning the
// zero time when it cannot.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// =============================================================================
// Festival Queries
// =============================================================================

const festivalColumns = `id, date, name, type, description, created_at, updated_at`

func scanFestivals(rows *sql.Rows) ([]Festival, error) {
	defer rows.Close()

	festivals := []Festival{}
	for rows.Next() {
		var f Festival
		var created, updated string
		if err := rows.Scan(&f.ID, &f.Date, &f.Name, &f.Type, &f.Description, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan festival: %w", err)
		}
		f.CreatedAt = parseTimestamp(created)
		f.UpdatedAt = parseTimestamp(updated)
		festivals = append(festivals, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate festivals: %w", err)
	}
	return festivals, nil
}

func listFestivals(ctx context.Context, q querier, where string, args ...any) ([]Festival, error) {
	query := `SELECT ` + festivalColumns + ` FROM festivals`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY date, name`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query festivals: %w", err)
	}
	return scanFestivals(rows)
}

// ListFestivals returns every festival ordered by date.
func (db *DB) ListFestivals(ctx context.Context) ([]Festival, error) {
	return listFestivals(ctx, db, "")
}

// GetFestivalsByDate returns the festivals on a YYYY-MM-DD date.
func (db *DB) GetFestivalsByDate(ctx context.Context, date string) ([]Festival, error) {
	return listFestivals(ctx, db, "date = ?", date)
}

// GetFestivalsByMonth returns the festivals in month (1-12) of year. A year
// of 0 matches every year.
func (db *DB) GetFestivalsByMonth(ctx context.Context, year int, month time.Month) ([]Festival, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("month %d outside 1-12", month)
	}
	mm := fmt.Sprintf("%02d", int(month))
	if year == 0 {
		return listFestivals(ctx, db, "substr(date, 6, 2) = ?", mm)
	}
	return listFestivals(ctx, db, "date LIKE ?", fmt.Sprintf("%04d-%s-%%", year, mm))
}

// GetFestivalsInRange returns the festivals between two YYYY-MM-DD dates,
// inclusive.
func (db *DB) GetFestivalsInRange(ctx context.Context, startDate, endDate string) ([]Festival, error) {
	return listFestivals(ctx, db, "date BETWEEN ? AND ?", startDate, endDate)
}

func insertFestival(ctx context.Context, q querier, f *Festival) error {
	res, err := q.ExecContext(ctx,
		`INSERT INTO festivals (date, name, type, description) VALUES (?, ?, ?, ?)`,
		f.Date, f.Name, string(f.Type), f.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("festival %s on %s: %w", f.Name, f.Date, ErrDuplicate)
		}
		return fmt.Errorf("insert festival: %w", err)
	}
	f.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get festival id: %w", err)
	}
	return nil
}

// InsertFestival adds a festival and sets its ID. It returns ErrDuplicate
// when the date already has a festival of the same name.
func (db *DB) InsertFestival(ctx context.Context, f *Festival) error {
	return insertFestival(ctx, db, f)
}

// InsertFestival adds a festival within the transaction.
func (tx *Tx) InsertFestival(ctx context.Context, f *Festival) error {
	return insertFestival(ctx, tx, f)
}

// UpsertFestival inserts a festival or updates the type and description of
// the existing (date, name) entry.
func (db *DB) UpsertFestival(ctx context.Context, f *Festival) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO festivals (date, name, type, description, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(date, name) DO UPDATE SET
			type = excluded.type,
			description = excluded.description,
			updated_at = datetime('now')
	`, f.Date, f.Name, string(f.Type), f.Description)
	if err != nil {
		return fmt.Errorf("upsert festival: %w", err)
	}
	return nil
}

// UpsertFestivals merges records into the table, leaving festivals that
// records do not mention in place.
func (db *DB) UpsertFestivals(ctx context.Context, records []festival.Record) (int, error) {
	for i, r := range records {
		f := FestivalFromRecord(r)
		if err := db.UpsertFestival(ctx, &f); err != nil {
			return i, err
		}
	}
	db.logger.Info("festivals merged", "count", len(records))
	return len(records), nil
}

// DeleteAllFestivals empties the festivals table within the transaction.
func (tx *Tx) DeleteAllFestivals(ctx context.Context) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM festivals`)
	if err != nil {
		return 0, fmt.Errorf("delete festivals: %w", err)
	}
	return res.RowsAffected()
}

// ReplaceFestivals swaps the whole table for records in one transaction.
// A record repeated within records fails the import with ErrDuplicate and
// leaves the table untouched.
func (db *DB) ReplaceFestivals(ctx context.Context, records []festival.Record) (int, error) {
	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.DeleteAllFestivals(ctx); err != nil {
			return err
		}
		for _, r := range records {
			f := FestivalFromRecord(r)
			if err := tx.InsertFestival(ctx, &f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	db.logger.Info("festivals replaced", "count", len(records))
	return len(records), nil
}

// DeleteFestival removes one festival by ID.
func (db *DB) DeleteFestival(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM festivals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete festival: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetFestivalStats summarizes the festivals table.
func (db *DB) GetFestivalStats(ctx context.Context) (*FestivalStats, error) {
	var stats FestivalStats
	var first, last sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN type = 'Festival' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'Vrat' THEN 1 ELSE 0 END), 0),
			MIN(date),
			MAX(date)
		FROM festivals
	`).Scan(&stats.Total, &stats.Festivals, &stats.Vrats, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("query festival stats: %w", err)
	}
	if first.Valid {
		stats.FirstDate = &first.String
	}
	if last.Valid {
		stats.LastDate = &last.String
	}
	return &stats, nil
}

// =============================================================================
// Saved Location Queries
// =============================================================================

// SaveLocation stores the location for a client, replacing any previous one.
func (db *DB) SaveLocation(ctx context.Context, loc *SavedLocation) error {
	if strings.TrimSpace(loc.ClientID) == "" {
		return errors.New("save location: client id is required")
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO saved_locations (client_id, latitude, longitude, name, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(client_id) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			name = excluded.name,
			updated_at = datetime('now')
	`, loc.ClientID, loc.Latitude, loc.Longitude, loc.Name)
	if err != nil {
		return fmt.Errorf("save location: %w", err)
	}
	return nil
}

// GetSavedLocation returns the location a client saved, or ErrNotFound.
func (db *DB) GetSavedLocation(ctx context.Context, clientID string) (*SavedLocation, error) {
	var loc SavedLocation
	var updated string
	err := db.QueryRowContext(ctx, `
		SELECT client_id, latitude, longitude, name, updated_at
		FROM saved_locations
		WHERE client_id = ?
	`, clientID).Scan(&loc.ClientID, &loc.Latitude, &loc.Longitude, &loc.Name, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query saved location: %w", err)
	}
	loc.UpdatedAt = parseTimestamp(updated)
	return &loc, nil
}

// DeleteSavedLocation forgets a client's location.
func (db *DB) DeleteSavedLocation(ctx context.Context, clientID string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM saved_locations WHERE client_id = ?`, clientID)
	if err != nil {
		return fmt.Errorf("delete saved location: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
