package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zapponejosh/panchang-api/internal/calendar"
	"github.com/zapponejosh/panchang-api/internal/config"
	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/feed"
	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/geocode"
	"github.com/zapponejosh/panchang-api/internal/logger"
	"github.com/zapponejosh/panchang-api/internal/panchang"
	"github.com/zapponejosh/panchang-api/internal/scheduler"
)

// StatusReporter exposes the active-window monitor's last tick.
type StatusReporter interface {
	Status() scheduler.Status
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	geocoder geocode.Geocoder
	monitor  StatusReporter
	cfg      *config.Config
	logger   *slog.Logger
	calcOpts []panchang.Option
	now      func() time.Time
}

// Option configures optional Handlers dependencies.
type Option func(*Handlers)

// WithGeocoder enables place search and place-based location resolution.
func WithGeocoder(g geocode.Geocoder) Option {
	return func(h *Handlers) { h.geocoder = g }
}

// WithMonitor reports the monitor status on /health.
func WithMonitor(m StatusReporter) Option {
	return func(h *Handlers) { h.monitor = m }
}

// WithCalculationOptions passes options to every panchang calculation.
func WithCalculationOptions(opts ...panchang.Option) Option {
	return func(h *Handlers) { h.calcOpts = append(h.calcOpts, opts...) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Handlers) { h.now = now }
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, cfg *config.Config, logger *slog.Logger, opts ...Option) *Handlers {
	h := &Handlers{
		db:     db,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// PanchangResponse is the body of the single-day endpoints.
type PanchangResponse struct {
	Location  ResolvedLocation    `json:"location"`
	Warning   string              `json:"warning,omitempty"`
	Panchang  *panchang.Snapshot  `json:"panchang"`
	Festivals []database.Festival `json:"festivals"`
}

// RangeResponse is the body of the range endpoint. Unavailable lists the
// days without sunrise or sunset at the location.
type RangeResponse struct {
	Location    ResolvedLocation     `json:"location"`
	Warning     string               `json:"warning,omitempty"`
	Days        []*panchang.Snapshot `json:"days"`
	Unavailable []string             `json:"unavailable,omitempty"`
}

// NowResponse is today's panchang with the windows containing Now.
type NowResponse struct {
	Location ResolvedLocation        `json:"location"`
	Warning  string                  `json:"warning,omitempty"`
	Now      time.Time               `json:"now"`
	Panchang *panchang.Snapshot      `json:"panchang"`
	Active   []panchang.ActiveWindow `json:"active"`
}

// UpcomingResponse lists festivals from From through To.
type UpcomingResponse struct {
	From      string              `json:"from"`
	To        string              `json:"to"`
	Festivals []database.Festival `json:"festivals"`
}

// LocationResponse reports a client's location.
type LocationResponse struct {
	ClientID string           `json:"client_id,omitempty"`
	Location ResolvedLocation `json:"location"`
	Warning  string           `json:"warning,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check database health
	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	resp := map[string]any{"status": "healthy"}
	if h.monitor != nil {
		resp["monitor"] = h.monitor.Status()
	}
	WriteSuccess(w, resp)
}

// =============================================================================
// Panchang
// =============================================================================

// GetTodayPanchang handles GET /api/v1/panchang/today
func (h *Handlers) GetTodayPanchang(w http.ResponseWriter, r *http.Request) {
	loc, warning, err := h.resolveLocation(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	h.writePanchang(w, r, h.now(), loc, warning)
}

// GetDatePanchang handles GET /api/v1/panchang/date/{date}
func (h *Handlers) GetDatePanchang(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	if dateStr == "" {
		WriteBadRequest(w, "Date parameter is required")
		return
	}

	loc, warning, err := h.resolveLocation(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	date, err := calendar.ParseDateString(dateStr, panchang.EstimateZone(loc.Point()))
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	h.writePanchang(w, r, date, loc, warning)
}

func (h *Handlers) writePanchang(w http.ResponseWriter, r *http.Request, date time.Time, loc ResolvedLocation, warning string) {
	ctx := r.Context()

	snap, err := panchang.Calculate(date, loc.Point(), h.calcOpts...)
	if err != nil {
		h.writeCalculationError(ctx, w, err)
		return
	}

	WriteSuccess(w, PanchangResponse{
		Location:  loc,
		Warning:   warning,
		Panchang:  snap,
		Festivals: h.festivalsOn(ctx, snap.Date),
	})
}

// GetRangePanchang handles GET /api/v1/panchang/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRangePanchang(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	loc, warning, err := h.resolveLocation(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	days, ok := h.parseDays(w, r, loc, false)
	if !ok {
		return
	}

	resp := RangeResponse{Location: loc, Warning: warning, Days: []*panchang.Snapshot{}}
	for _, day := range days {
		snap, err := panchang.Calculate(day, loc.Point(), h.calcOpts...)
		if errors.Is(err, panchang.ErrNoSunrise) {
			resp.Unavailable = append(resp.Unavailable, calendar.FormatDate(day))
			continue
		}
		if err != nil {
			h.writeCalculationError(ctx, w, err)
			return
		}
		resp.Days = append(resp.Days, snap)
	}

	WriteSuccess(w, resp)
}

// GetNowPanchang handles GET /api/v1/panchang/now
func (h *Handlers) GetNowPanchang(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	loc, warning, err := h.resolveLocation(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	now := h.now().In(panchang.EstimateZone(loc.Point()))
	snap, err := panchang.Calculate(now, loc.Point(), h.calcOpts...)
	if err != nil {
		h.writeCalculationError(ctx, w, err)
		return
	}

	active := panchang.ActiveWindows(snap, now)
	if active == nil {
		active = []panchang.ActiveWindow{}
	}

	WriteSuccess(w, NowResponse{
		Location: loc,
		Warning:  warning,
		Now:      now,
		Panchang: snap,
		Active:   active,
	})
}

// parseDays reads start and end in the location's zone and expands them
// into days. With defaults set, a missing start is today and a missing end
// is 29 days after start.
func (h *Handlers) parseDays(w http.ResponseWriter, r *http.Request, loc ResolvedLocation, defaults bool) ([]time.Time, bool) {
	zone := panchang.EstimateZone(loc.Point())
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if !defaults && (startStr == "" || endStr == "") {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return nil, false
	}

	start := calendar.Midnight(h.now().In(zone))
	if startStr != "" {
		d, err := calendar.ParseDateString(startStr, zone)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startStr))
			return nil, false
		}
		start = d
	}

	end := start.AddDate(0, 0, 29)
	if endStr != "" {
		d, err := calendar.ParseDateString(endStr, zone)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", endStr))
			return nil, false
		}
		end = d
	}

	days, err := calendar.Days(start, end, h.cfg.MaxRangeDays)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return nil, false
	}
	return days, true
}

func (h *Handlers) writeCalculationError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, panchang.ErrInvalidInput):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, panchang.ErrNoSunrise):
		WriteNoSunrise(w, err.Error())
	default:
		logger.Error(ctx, "panchang calculation failed", err)
		WriteInternalError(w, "Failed to calculate panchang")
	}
}

// festivalsOn never fails the response; festivals are supplementary.
func (h *Handlers) festivalsOn(ctx context.Context, date string) []database.Festival {
	fs, err := h.db.GetFestivalsByDate(ctx, date)
	if err != nil {
		logger.Warn(ctx, "festival lookup failed", slog.String("date", date), slog.Any("error", err))
		return []database.Festival{}
	}
	return fs
}

// =============================================================================
// Festivals
// =============================================================================

// ListFestivals handles GET /api/v1/festivals
//
// Filters: month=1-12 (optionally with year=YYYY), or start and end as
// YYYY-MM-DD. Without filters every festival is returned.
func (h *Handlers) ListFestivals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		fs  []database.Festival
		err error
	)
	switch {
	case q.Get("month") != "":
		month, convErr := strconv.Atoi(q.Get("month"))
		if convErr != nil || month < 1 || month > 12 {
			WriteBadRequest(w, "month must be between 1 and 12")
			return
		}
		year := 0
		if ys := q.Get("year"); ys != "" {
			year, convErr = strconv.Atoi(ys)
			if convErr != nil || year < 1 || year > 9999 {
				WriteBadRequest(w, "year must be between 1 and 9999")
				return
			}
		}
		fs, err = h.db.GetFestivalsByMonth(ctx, year, time.Month(month))

	case q.Get("start") != "" || q.Get("end") != "":
		start, parseErr := calendar.ParseDateString(q.Get("start"), nil)
		if parseErr != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", q.Get("start")))
			return
		}
		end, parseErr := calendar.ParseDateString(q.Get("end"), nil)
		if parseErr != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", q.Get("end")))
			return
		}
		if start.After(end) {
			WriteBadRequest(w, "Start date must be before or equal to end date")
			return
		}
		fs, err = h.db.GetFestivalsInRange(ctx, calendar.FormatDate(start), calendar.FormatDate(end))

	default:
		fs, err = h.db.ListFestivals(ctx)
	}
	if err != nil {
		logger.Error(ctx, "failed to list festivals", err)
		WriteInternalError(w, "Failed to retrieve festivals")
		return
	}

	WriteSuccess(w, fs)
}

// GetDateFestivals handles GET /api/v1/festivals/date/{date}
func (h *Handlers) GetDateFestivals(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	date, err := calendar.ParseDateString(dateStr, nil)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	fs, err := h.db.GetFestivalsByDate(r.Context(), calendar.FormatDate(date))
	if err != nil {
		logger.Error(r.Context(), "failed to get festivals for date", err, slog.String("date", dateStr))
		WriteInternalError(w, "Failed to retrieve festivals")
		return
	}

	WriteSuccess(w, fs)
}

// GetUpcomingFestivals handles GET /api/v1/festivals/upcoming?days=N&from=YYYY-MM-DD
//
// The window runs from today in the default location's zone through the
// following N days (UPCOMING_DAYS when unset).
func (h *Handlers) GetUpcomingFestivals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	days := h.cfg.UpcomingDays
	if ds := q.Get("days"); ds != "" {
		n, err := strconv.Atoi(ds)
		if err != nil || n < 1 || n > 366 {
			WriteBadRequest(w, "days must be between 1 and 366")
			return
		}
		days = n
	}

	zone := panchang.EstimateZone(h.defaultLocation().Point())
	from := calendar.Midnight(h.now().In(zone))
	if fromStr := q.Get("from"); fromStr != "" {
		d, err := calendar.ParseDateString(fromStr, zone)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid from date format: %s. Use YYYY-MM-DD", fromStr))
			return
		}
		from = d
	}
	to := from.AddDate(0, 0, days)

	festivals, err := h.db.GetFestivalsInRange(ctx, calendar.FormatDate(from), calendar.FormatDate(to))
	if err != nil {
		logger.Error(ctx, "failed to get upcoming festivals", err)
		WriteInternalError(w, "Failed to retrieve festivals")
		return
	}

	WriteSuccess(w, UpcomingResponse{
		From:      calendar.FormatDate(from),
		To:        calendar.FormatDate(to),
		Festivals: festivals,
	})
}

// =============================================================================
// Geocoding
// =============================================================================

// SearchPlaces handles GET /api/v1/geocode/search?q=
func (h *Handlers) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteBadRequest(w, "q parameter is required")
		return
	}
	if h.geocoder == nil {
		WriteError(w, http.StatusServiceUnavailable, "Place search is not configured", "UNAVAILABLE")
		return
	}

	places, err := h.geocoder.Search(r.Context(), query)
	if err != nil {
		h.writeGeocodeError(r.Context(), w, err)
		return
	}

	WriteSuccess(w, places)
}

// ReversePlace handles GET /api/v1/geocode/reverse?lat=&lon=
func (h *Handlers) ReversePlace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := calendar.ParseCoordinate(q.Get("lat"), 90)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("invalid lat: %v", err))
		return
	}
	lon, err := calendar.ParseCoordinate(q.Get("lon"), 180)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("invalid lon: %v", err))
		return
	}
	if h.geocoder == nil {
		WriteError(w, http.StatusServiceUnavailable, "Place search is not configured", "UNAVAILABLE")
		return
	}

	place, err := h.geocoder.Reverse(r.Context(), lat, lon)
	if err != nil {
		h.writeGeocodeError(r.Context(), w, err)
		return
	}

	WriteSuccess(w, place)
}

func (h *Handlers) writeGeocodeError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, geocode.ErrNoResults) {
		WriteNotFound(w, "No matching place found")
		return
	}
	logger.Error(ctx, "geocoding failed", err)
	WriteUpstreamError(w, "Geocoding service unavailable")
}

// =============================================================================
// Saved location
// =============================================================================

// GetLocation handles GET /api/v1/location
func (h *Handlers) GetLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := logger.ClientID(ctx)

	resp := LocationResponse{ClientID: clientID, Location: h.defaultLocation()}
	if clientID == "" {
		WriteSuccess(w, resp)
		return
	}

	saved, err := h.db.GetSavedLocation(ctx, clientID)
	switch {
	case err == nil:
		resp.Location = newResolved(saved.Latitude, saved.Longitude, saved.Name, SourceSaved)
	case errors.Is(err, database.ErrNotFound):
	default:
		logger.Warn(ctx, "saved location unavailable, using default", slog.Any("error", err))
		resp.Warning = "Saved location could not be loaded; using the default location"
	}

	WriteSuccess(w, resp)
}

// DeleteLocation handles DELETE /api/v1/location
//
// Forgets the saved location of the X-Client-ID client; later requests use
// the default location.
func (h *Handlers) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := logger.ClientID(ctx)
	if clientID == "" {
		WriteBadRequest(w, ClientIDHeader+" header is required")
		return
	}

	err := h.db.DeleteSavedLocation(ctx, clientID)
	switch {
	case err == nil:
	case errors.Is(err, database.ErrNotFound):
		WriteNotFound(w, "No saved location for this client")
		return
	default:
		logger.Error(ctx, "failed to delete location", err)
		WriteInternalError(w, "Failed to delete location")
		return
	}

	logger.Info(ctx, "saved location deleted")
	WriteSuccess(w, LocationResponse{ClientID: clientID, Location: h.defaultLocation()})
}

type saveLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Name      string   `json:"name"`
}

// PutLocation handles PUT /api/v1/location
//
// The location is stored under X-Client-ID. A new client id is generated
// when the header is absent and returned in the X-Client-ID response header.
// Without a name the place is looked up by coordinates.
func (h *Handlers) PutLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req saveLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		WriteBadRequest(w, "latitude and longitude are required")
		return
	}
	point := panchang.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := point.Validate(); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	clientID := logger.ClientID(ctx)
	if clientID == "" {
		clientID = uuid.NewString()
		ctx = logger.WithClientID(ctx, clientID)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" && h.geocoder != nil {
		if place, err := h.geocoder.Reverse(ctx, point.Latitude, point.Longitude); err == nil {
			name = place.Name
		} else {
			logger.Warn(ctx, "reverse lookup failed, saving without a name", slog.Any("error", err))
		}
	}

	saved := &database.SavedLocation{
		ClientID:  clientID,
		Latitude:  point.Latitude,
		Longitude: point.Longitude,
		Name:      name,
	}
	if err := h.db.SaveLocation(ctx, saved); err != nil {
		logger.Error(ctx, "failed to save location", err)
		WriteInternalError(w, "Failed to save location")
		return
	}

	w.Header().Set(ClientIDHeader, clientID)
	WriteSuccess(w, LocationResponse{
		ClientID: clientID,
		Location: newResolved(saved.Latitude, saved.Longitude, saved.Name, SourceSaved),
	})
}

// =============================================================================
// Calendar feed
// =============================================================================

// GetCalendarFeed handles GET /api/v1/calendar.ics?start=&end=&muhurats=true
//
// Without start and end the feed covers 30 days from today.
func (h *Handlers) GetCalendarFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	loc, _, err := h.resolveLocation(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	muhurats := false
	if ms := r.URL.Query().Get("muhurats"); ms != "" {
		muhurats, err = strconv.ParseBool(ms)
		if err != nil {
			WriteBadRequest(w, "muhurats must be true or false")
			return
		}
	}

	days, ok := h.parseDays(w, r, loc, true)
	if !ok {
		return
	}

	snaps := make([]*panchang.Snapshot, 0, len(days))
	for _, day := range days {
		snap, err := panchang.Calculate(day, loc.Point(), h.calcOpts...)
		if errors.Is(err, panchang.ErrNoSunrise) {
			continue
		}
		if err != nil {
			h.writeCalculationError(ctx, w, err)
			return
		}
		snaps = append(snaps, snap)
	}

	fs, err := h.db.GetFestivalsInRange(ctx, calendar.FormatDate(days[0]), calendar.FormatDate(days[len(days)-1]))
	if err != nil {
		logger.Error(ctx, "failed to get festivals for feed", err)
		WriteInternalError(w, "Failed to retrieve festivals")
		return
	}
	records := make([]festival.Record, len(fs))
	for i, f := range fs {
		records[i] = f.Record()
	}

	name := "Panchang"
	if loc.Name != "" {
		name += " - " + loc.Name
	}
	body := feed.Serialize(feed.Options{
		Name:      name,
		Place:     loc.Name,
		Festivals: records,
		Days:      snaps,
		Muhurats:  muhurats,
		Stamp:     h.now(),
	})

	WriteCalendar(w, "panchang.ics", body)
}

// =============================================================================
// Admin
// =============================================================================

// ReloadFestivals handles POST /api/v1/admin/festivals/reload
func (h *Handlers) ReloadFestivals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := h.db.ImportFestivals(ctx, h.cfg.FestivalsPath)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			WriteConflict(w, err.Error())
			return
		}
		logger.Error(ctx, "failed to reload festivals", err)
		WriteInternalError(w, "Failed to reload festivals")
		return
	}

	source := h.cfg.FestivalsPath
	if source == "" {
		source = "embedded"
	}
	logger.Info(ctx, "festivals reloaded", slog.Int("count", n), slog.String("source", source))

	WriteSuccess(w, map[string]any{
		"imported": n,
		"source":   source,
	})
}

// DeleteFestival handles DELETE /api/v1/admin/festivals/{id}
func (h *Handlers) DeleteFestival(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		WriteBadRequest(w, "Festival id must be a positive integer")
		return
	}

	err = h.db.DeleteFestival(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, database.ErrNotFound):
		WriteNotFound(w, fmt.Sprintf("Festival %d not found", id))
		return
	default:
		logger.Error(ctx, "failed to delete festival", err)
		WriteInternalError(w, "Failed to delete festival")
		return
	}

	logger.Info(ctx, "festival deleted", slog.Int64("id", id))
	WriteSuccess(w, map[string]any{"deleted": id})
}

// decodeJSON decodes JSON request body.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(v)
}
