package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mlisovenko/vitrina/backend/internal/domain/enums"
	ratesvc "github.com/mlisovenko/vitrina/backend/internal/services/rate"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
	httperrors "github.com/mlisovenko/vitrina/backend/internal/transport/http/errors"
)

type InteractionRecorder interface {
	InsertInteraction(ctx context.Context, profileID int64, kind string, at time.Time) error
}

// InteractionHandler records contact clicks (phone, whatsapp, viber,
// social) fired from a public card. Anonymous traffic, throttled per
// client address.
type InteractionHandler struct {
	recorder InteractionRecorder
	limiter  *ratesvc.Limiter
	now      func() time.Time
}

func NewInteractionHandler(recorder InteractionRecorder, limiter *ratesvc.Limiter) *InteractionHandler {
	return &InteractionHandler{
		recorder: recorder,
		limiter:  limiter,
		now:      time.Now,
	}
}

func (h *InteractionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseIDParam(chi.URLParam(r, "profileID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile id")
		return
	}

	var req dto.InteractionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	kind, ok := enums.ParseInteractionKind(req.Kind)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "unknown interaction kind")
		return
	}

	if h.limiter != nil {
		retryAfter, allowed, err := h.limiter.AllowInteraction(r.Context(), clientKey(r))
		if err != nil {
			writeInternal(w, "INTERNAL_ERROR", "failed to check rate limit")
			return
		}
		if !allowed {
			writeRateLimited(w, retryAfter)
			return
		}
	}

	if err := h.recorder.InsertInteraction(r.Context(), profileID, string(kind), h.now().UTC()); err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to record interaction")
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.OKResponse{OK: true})
}
