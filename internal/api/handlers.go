package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/starford/tempus/internal/checking"
	"github.com/starford/tempus/internal/state"
	"github.com/starford/tempus/internal/tracker"
)

// Handler holds API route handlers.
type Handler struct {
	svc       *tracker.Service
	selection *state.Store
}

// NewHandler creates a new Handler.
func NewHandler(svc *tracker.Service, selection *state.Store) *Handler {
	return &Handler{svc: svc, selection: selection}
}

// pathDate parses the {date} URL parameter, writing a 400 on failure.
func (h *Handler) pathDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	d, err := h.svc.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("date must be YYYY-MM-DD"))
		return time.Time{}, false
	}
	return d, true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid checking id"))
		return uuid.Nil, false
	}
	return id, true
}

// GetDay handles GET /api/days/{date}.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	day, err := h.svc.Day(r.Context(), date)
	if err != nil {
		writeError(w, "get day", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// AddChecking handles POST /api/days/{date}/checkings.
func (h *Handler) AddChecking(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	var req CheckingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, dir, ok := h.checkingFields(w, date, req)
	if !ok {
		return
	}
	day, err := h.svc.AddCheckingOn(r.Context(), date, t, dir)
	if err != nil {
		writeError(w, "add checking", err)
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

// UpdateChecking handles PUT /api/days/{date}/checkings/{id}.
func (h *Handler) UpdateChecking(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req CheckingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, dir, ok := h.checkingFields(w, date, req)
	if !ok {
		return
	}
	day, err := h.svc.UpdateChecking(r.Context(), date, id, t, dir)
	if err != nil {
		writeError(w, "update checking", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// RemoveChecking handles DELETE /api/days/{date}/checkings/{id}.
func (h *Handler) RemoveChecking(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	day, err := h.svc.RemoveChecking(r.Context(), date, id)
	if err != nil {
		writeError(w, "remove checking", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (h *Handler) checkingFields(w http.ResponseWriter, date time.Time, req CheckingRequest) (time.Time, checking.Direction, bool) {
	t, err := h.svc.ParseTimeOn(date, req.Time)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("time must be HH:MM[:SS] or RFC 3339"))
		return time.Time{}, 0, false
	}
	dir, err := checking.ParseDirection(req.Direction)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return time.Time{}, 0, false
	}
	return t, dir, true
}

// SetDayInfo handles PUT /api/days/{date}/info.
func (h *Handler) SetDayInfo(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	var req DayInfoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	day, err := h.svc.SetDayInfo(r.Context(), date, req.info())
	if err != nil {
		writeError(w, "set day info", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// ClearDayInfo handles DELETE /api/days/{date}/info.
func (h *Handler) ClearDayInfo(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	day, err := h.svc.SetDayInfo(r.Context(), date, nil)
	if err != nil {
		writeError(w, "clear day info", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// Punch handles POST /api/punch. The body is optional.
func (h *Handler) Punch(w http.ResponseWriter, r *http.Request) {
	var req PunchRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	dir, err := checking.ParseDirection(req.Direction)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	day, err := h.svc.Punch(r.Context(), dir)
	if err != nil {
		writeError(w, "punch", err)
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

// GetWeek handles GET /api/weeks/{date}.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	week, err := h.svc.Week(r.Context(), date)
	if err != nil {
		writeError(w, "get week", err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

// GetMonth handles GET /api/months/{year}/{month}. month is 1-12.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid year"))
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid month"))
		return
	}
	m, err := h.svc.Month(r.Context(), year, time.Month(month))
	if err != nil {
		writeError(w, "get month", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ListYears handles GET /api/years.
func (h *Handler) ListYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.svc.Years(r.Context())
	if err != nil {
		writeError(w, "list years", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": years})
}

// GetYear handles GET /api/years/{year}.
func (h *Handler) GetYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid year"))
		return
	}
	y, err := h.svc.Year(r.Context(), year)
	if err != nil {
		writeError(w, "get year", err)
		return
	}
	writeJSON(w, http.StatusOK, y)
}
