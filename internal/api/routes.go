package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/panchang-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET  /health
//	GET  /api/v1/panchang/{today,now,range,date/{date}}
//	GET  /api/v1/festivals[/date/{date},/upcoming]
//	GET  /api/v1/geocode/{search,reverse}
//	GET  /api/v1/location, PUT /api/v1/location, DELETE /api/v1/location
//	GET  /api/v1/calendar.ics
//	POST /api/v1/admin/festivals/reload (API key)
//	DELETE /api/v1/admin/festivals/{id} (API key)
//
// Panchang, location and feed routes take the location from lat/lon, place,
// the X-Client-ID saved location, or the default, in that order.
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		ClientIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/panchang", func(r chi.Router) {
			r.Get("/today", handlers.GetTodayPanchang)
			r.Get("/now", handlers.GetNowPanchang)
			r.Get("/range", handlers.GetRangePanchang)
			r.Get("/date/{date}", handlers.GetDatePanchang)
		})

		r.Route("/festivals", func(r chi.Router) {
			r.Get("/", handlers.ListFestivals)
			r.Get("/upcoming", handlers.GetUpcomingFestivals)
			r.Get("/date/{date}", handlers.GetDateFestivals)
		})

		r.Get("/geocode/search", handlers.SearchPlaces)
		r.Get("/geocode/reverse", handlers.ReversePlace)

		r.Get("/location", handlers.GetLocation)
		r.Put("/location", handlers.PutLocation)
		r.Delete("/location", handlers.DeleteLocation)

		r.Get("/calendar.ics", handlers.GetCalendarFeed)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))
			r.Post("/admin/festivals/reload", handlers.ReloadFestivals)
			r.Delete("/admin/festivals/{id}", handlers.DeleteFestival)
		})
	})

	return r
}
