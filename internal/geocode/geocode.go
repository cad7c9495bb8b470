// Package geocode turns place names into coordinates and coordinates into
// place names using a Nominatim-compatible service.
package geocode

import (
	"context"
	"errors"
)

var (
	// ErrNoResults is returned when the service finds nothing.
	ErrNoResults = errors.New("no matching place")

	// ErrUpstream wraps transport and status failures of the service.
	ErrUpstream = errors.New("geocoding service error")
)

// Place is a geocoding result.
type Place struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Geocoder looks places up by name and by coordinates.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Place, error)
	Reverse(ctx context.Context, latitude, longitude float64) (Place, error)
}
