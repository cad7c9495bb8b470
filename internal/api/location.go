package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/zapponejosh/panchang-api/internal/calendar"
	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/logger"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// Location sources reported in responses.
const (
	SourceQuery   = "query"
	SourcePlace   = "place"
	SourceSaved   = "saved"
	SourceDefault = "default"
)

// ResolvedLocation is the location a response was computed for.
type ResolvedLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Source    string  `json:"source"`
	Zone      string  `json:"zone"`
}

// Point returns the coordinates as a calculation input.
func (l ResolvedLocation) Point() panchang.Location {
	return panchang.Location{Latitude: l.Latitude, Longitude: l.Longitude}
}

func newResolved(lat, lon float64, name, source string) ResolvedLocation {
	loc := ResolvedLocation{Latitude: lat, Longitude: lon, Name: name, Source: source}
	loc.Zone = panchang.EstimateZone(loc.Point()).String()
	return loc
}

func (h *Handlers) defaultLocation() ResolvedLocation {
	return newResolved(h.cfg.DefaultLatitude, h.cfg.DefaultLongitude, h.cfg.DefaultPlaceName, SourceDefault)
}

// resolveLocation picks the request location: lat/lon parameters, then a
// place name to geocode, then the client's saved location, then the
// configured default. Geocoder and store failures fall back to the default
// and return a warning. Only malformed coordinates are an error.
func (h *Handlers) resolveLocation(r *http.Request) (ResolvedLocation, string, error) {
	ctx := r.Context()
	q := r.URL.Query()

	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr != "" || lonStr != "" {
		if latStr == "" || lonStr == "" {
			return ResolvedLocation{}, "", errors.New("both lat and lon are required")
		}
		lat, err := calendar.ParseCoordinate(latStr, 90)
		if err != nil {
			return ResolvedLocation{}, "", fmt.Errorf("invalid lat: %w", err)
		}
		lon, err := calendar.ParseCoordinate(lonStr, 180)
		if err != nil {
			return ResolvedLocation{}, "", fmt.Errorf("invalid lon: %w", err)
		}
		return newResolved(lat, lon, q.Get("name"), SourceQuery), "", nil
	}

	if place := q.Get("place"); place != "" {
		return h.geocodePlace(ctx, place)
	}

	if clientID := logger.ClientID(ctx); clientID != "" {
		saved, err := h.db.GetSavedLocation(ctx, clientID)
		switch {
		case err == nil:
			return newResolved(saved.Latitude, saved.Longitude, saved.Name, SourceSaved), "", nil
		case errors.Is(err, database.ErrNotFound):
		default:
			logger.Warn(ctx, "saved location unavailable, using default", slog.Any("error", err))
			return h.defaultLocation(), "Saved location could not be loaded; using the default location", nil
		}
	}

	return h.defaultLocation(), "", nil
}

func (h *Handlers) geocodePlace(ctx context.Context, place string) (ResolvedLocation, string, error) {
	if h.geocoder == nil {
		return h.defaultLocation(), "Place search is not available; using the default location", nil
	}
	places, err := h.geocoder.Search(ctx, place)
	if err == nil && len(places) == 0 {
		err = errors.New("empty result")
	}
	if err != nil {
		logger.Warn(ctx, "place lookup failed, using default",
			slog.String("place", place),
			slog.Any("error", err))
		return h.defaultLocation(), fmt.Sprintf("Could not find %q; using the default location", place), nil
	}
	first := places[0]
	name := first.Name
	if name == "" {
		name = first.DisplayName
	}
	return newResolved(first.Latitude, first.Longitude, name, SourcePlace), "", nil
}
