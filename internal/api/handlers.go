package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkovac/journal-insights/internal/insight"
	"github.com/mkovac/journal-insights/internal/models"
	"github.com/mkovac/journal-insights/internal/store"
)

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// HealthChecker is the slice of the backend client the health endpoint pings
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	store  *store.Store
	orch   *insight.Orchestrator
	health HealthChecker
}

func NewHandlers(s *store.Store, orch *insight.Orchestrator, health HealthChecker) *Handlers {
	return &Handlers{
		store:  s,
		orch:   orch,
		health: health,
	}
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:  "ok",
		Backend: h.checkBackend(),
		Version: "1.0.0",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (h *Handlers) checkBackend() string {
	if h.health == nil {
		return "not configured"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.health.HealthCheck(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "connected"
}

// CreateEntry handles POST /api/v1/entries
func (h *Handlers) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req models.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "BAD_REQUEST")
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required", "BAD_REQUEST")
		return
	}
	mood := models.Mood(req.Mood)
	if !models.ValidMood(mood) {
		writeError(w, http.StatusBadRequest, "unknown mood", "BAD_REQUEST")
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be RFC3339", "BAD_REQUEST")
			return
		}
		date = parsed.UTC()
	}

	entry := models.JournalEntry{
		ID:   "ent_" + uuid.NewString(),
		Date: date,
		Text: req.Text,
		Mood: mood,
	}

	if err := h.store.AddEntry(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "storing entry failed", "STORE_ERROR")
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.EntryResponse{ID: entry.ID, Status: "stored"})
}

// ListEntries handles GET /api/v1/entries?since=RFC3339
func (h *Handlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	var entries []models.JournalEntry
	var err error

	if since := r.URL.Query().Get("since"); since != "" {
		start, perr := time.Parse(time.RFC3339, since)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "since must be RFC3339", "BAD_REQUEST")
			return
		}
		entries, err = h.store.ListInRange(r.Context(), start, time.Now().UTC().Add(time.Hour))
	} else {
		entries, err = h.store.ListAll(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing entries failed", "STORE_ERROR")
		return
	}

	json.NewEncoder(w).Encode(models.EntriesResponse{Entries: entries})
}

// GetInsight handles GET /api/v1/insights/{type}
func (h *Handlers) GetInsight(w http.ResponseWriter, r *http.Request) {
	insightType := chi.URLParam(r, "type")

	rec, err := h.store.Latest(r.Context(), insightType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading insight failed", "STORE_ERROR")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "insight not yet available", "NOT_AVAILABLE")
		return
	}

	json.NewEncoder(w).Encode(models.InsightResponse{
		Type:         rec.Type,
		GeneratedAt:  rec.GeneratedAt,
		Payload:      rec.Payload,
		CoveredRange: rec.CoveredRange,
	})
}

// RefreshInsight handles POST /api/v1/insights/{type}/refresh. This is
// the manual "regenerate" action, so it forces past the interval and
// no-new-data checks.
func (h *Handlers) RefreshInsight(w http.ResponseWriter, r *http.Request) {
	insightType := chi.URLParam(r, "type")

	outcome := h.orch.Run(r.Context(), insightType, true)
	json.NewEncoder(w).Encode(refreshResponse(outcome))
}

// RefreshAll handles POST /api/v1/insights/refresh. This is the "app
// came to the foreground" trigger: every type is offered a run and the
// staleness evaluator decides.
func (h *Handlers) RefreshAll(w http.ResponseWriter, r *http.Request) {
	outcomes := h.orch.RunAll(r.Context(), false)

	resp := make([]models.RefreshResponse, 0, len(outcomes))
	for _, outcome := range outcomes {
		resp = append(resp, refreshResponse(outcome))
	}
	json.NewEncoder(w).Encode(resp)
}

func refreshResponse(outcome insight.RunOutcome) models.RefreshResponse {
	resp := models.RefreshResponse{
		Type:    outcome.Type,
		Outcome: outcome.Status.String(),
	}
	switch outcome.Status {
	case insight.StatusSkipped:
		resp.Reason = outcome.Skip.String()
	case insight.StatusFailed:
		resp.Reason = outcome.Err.Error()
	}
	return resp
}
