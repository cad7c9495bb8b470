package database

import (
	"time"

	"github.com/zapponejosh/panchang-api/internal/festival"
)

// Festival is a stored festival record.
type Festival struct {
	ID          int64         `json:"id"`
	Date        string        `json:"date"` // YYYY-MM-DD
	Name        string        `json:"name"`
	Type        festival.Type `json:"type"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// FestivalFromRecord converts a parsed record for storage.
func FestivalFromRecord(r festival.Record) Festival {
	return Festival{
		Date:        r.Date,
		Name:        r.Name,
		Type:        r.Type,
		Description: r.Description,
	}
}

// Record converts back to the reference-data type.
func (f Festival) Record() festival.Record {
	return festival.Record{
		Date:        f.Date,
		Name:        f.Name,
		Type:        f.Type,
		Description: f.Description,
	}
}

// FestivalStats summarizes the festivals table.
type FestivalStats struct {
	Total     int     `json:"total"`
	Festivals int     `json:"festivals"`
	Vrats     int     `json:"vrats"`
	FirstDate *string `json:"first_date"`
	LastDate  *string `json:"last_date"`
}

// SavedLocation is the location a client last chose.
type SavedLocation struct {
	ClientID  string    `json:"client_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Name      string    `json:"name,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
