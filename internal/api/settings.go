package api

import (
	"net/http"
	"time"

	"github.com/starford/tempus/internal/settings"
	"github.com/starford/tempus/internal/state"
)

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Settings(r.Context())
	if err != nil {
		writeError(w, "get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// UpdateSettings handles PUT /api/settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	st, err := h.svc.UpdateSettings(r.Context(), settings.Settings{FirstDayOfWeek: time.Weekday(*req.FirstDayOfWeek)})
	if err != nil {
		writeError(w, "update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// selectionView renders the selection with its date in YYYY-MM-DD form.
type selectionView struct {
	Date string     `json:"date"`
	Unit state.Unit `json:"unit"`
}

func toSelectionView(s state.Selection) selectionView {
	return selectionView{Date: s.Date.Format(time.DateOnly), Unit: s.Unit}
}

// GetSelection handles GET /api/selection.
func (h *Handler) GetSelection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toSelectionView(h.selection.Current()))
}

// Select handles PUT /api/selection.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	date, err := h.svc.ParseDate(req.Date)
	if err != nil {
		writeError(w, "select", err)
		return
	}
	unit, err := state.ParseUnit(req.Unit)
	if err != nil {
		writeError(w, "select", err)
		return
	}
	sel, err := h.selection.Select(date, unit)
	if err != nil {
		writeError(w, "select", err)
		return
	}
	writeJSON(w, http.StatusOK, toSelectionView(sel))
}

// StepSelection handles POST /api/selection/step.
func (h *Handler) StepSelection(w http.ResponseWriter, r *http.Request) {
	var req StepRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, toSelectionView(h.selection.Step(req.Delta)))
}

// SelectToday handles POST /api/selection/today.
func (h *Handler) SelectToday(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toSelectionView(h.selection.Today()))
}
