package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tempus/internal/state"
	"github.com/starford/tempus/internal/tracker"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *tracker.Service, selection *state.Store, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, selection)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Days and their checkings.
	r.Route("/days/{date}", func(r chi.Router) {
		r.Get("/", h.GetDay)
		r.Post("/checkings", h.AddChecking)
		r.Put("/checkings/{id}", h.UpdateChecking)
		r.Delete("/checkings/{id}", h.RemoveChecking)
		r.Put("/info", h.SetDayInfo)
		r.Delete("/info", h.ClearDayInfo)
	})
	r.Post("/punch", h.Punch)

	// Aggregated views.
	r.Get("/weeks/{date}", h.GetWeek)
	r.Get("/months/{year}/{month}", h.GetMonth)
	r.Get("/years", h.ListYears)
	r.Get("/years/{year}", h.GetYear)

	// Settings.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	// Shared selection.
	r.Get("/selection", h.GetSelection)
	r.Put("/selection", h.Select)
	r.Post("/selection/step", h.StepSelection)
	r.Post("/selection/today", h.SelectToday)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
