package optimize

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cloudforge/stack-advisor/pkg/adapters"
	"github.com/cloudforge/stack-advisor/pkg/models/api"
	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/render"
	"github.com/cloudforge/stack-advisor/pkg/services/tracker"
	"github.com/cloudforge/stack-advisor/pkg/store"
)

type Handler struct {
	tracker *tracker.Tracker
}

func NewHandler(t *tracker.Tracker) *Handler {
	return &Handler{tracker: t}
}

// Submit accepts an optimization request and returns its id immediately.
// The pipeline runs in the background; clients poll for the outcome.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Budget < 0 {
		writeError(w, http.StatusBadRequest, "budget must not be negative")
		return
	}

	id, err := h.tracker.Submit(ctx, adapters.MapApiRequestToDomainRequirement(req))
	if err != nil {
		logger.Error().Err(err).Msg("failed to submit optimization")
		writeError(w, http.StatusInternalServerError, "failed to submit optimization")
		return
	}

	writeJSON(w, http.StatusAccepted, api.SubmitResponse{
		ID:     id,
		Status: "processing",
	})
}

// Poll reports the current state of a request, with the result attached once
// it completes. Unknown ids answer 404 with status "not_found".
func (h *Handler) Poll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "id")

	record, err := h.tracker.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, api.StatusResponse{
				Status: string(domain.StatusNotFound),
			})
			return
		}
		logger.Error().Err(err).Str("id", id).Msg("failed to load optimization")
		writeError(w, http.StatusInternalServerError, "failed to load optimization")
		return
	}

	resp, err := adapters.MapStoreRecordToStatusResponse(record)
	if err != nil {
		logger.Error().Err(err).Str("id", id).Msg("failed to decode stored result")
		writeError(w, http.StatusInternalServerError, "failed to decode stored result")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Terraform renders a completed optimization as an HCL starting point.
func (h *Handler) Terraform(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "id")

	record, err := h.tracker.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "optimization not found")
			return
		}
		logger.Error().Err(err).Str("id", id).Msg("failed to load optimization")
		writeError(w, http.StatusInternalServerError, "failed to load optimization")
		return
	}
	if record.Status != string(domain.StatusCompleted) || len(record.ResultJSON) == 0 {
		writeError(w, http.StatusConflict, "optimization is not completed yet")
		return
	}

	var result api.OptimizationResult
	if err := json.Unmarshal(record.ResultJSON, &result); err != nil {
		logger.Error().Err(err).Str("id", id).Msg("failed to decode stored result")
		writeError(w, http.StatusInternalServerError, "failed to decode stored result")
		return
	}

	config, err := render.Terraform(adapters.MapResultApiToDomain(result))
	if err != nil {
		logger.Error().Err(err).Str("id", id).Msg("failed to render terraform config")
		writeError(w, http.StatusInternalServerError, "failed to render terraform config")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(config)); err != nil {
		logger.Error().Err(err).Str("id", id).Msg("failed to write terraform config")
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
