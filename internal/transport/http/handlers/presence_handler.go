package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/mlisovenko/vitrina/backend/internal/services/auth"
	presencesvc "github.com/mlisovenko/vitrina/backend/internal/services/presence"
	profilesvc "github.com/mlisovenko/vitrina/backend/internal/services/profiles"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
	httperrors "github.com/mlisovenko/vitrina/backend/internal/transport/http/errors"
)

type PresenceHandler struct {
	presence *presencesvc.Service
	profiles *profilesvc.Service
}

func NewPresenceHandler(presence *presencesvc.Service, profiles *profilesvc.Service) *PresenceHandler {
	return &PresenceHandler{presence: presence, profiles: profiles}
}

// Lookup resolves presence for a batch of profile ids in one call, so a
// catalogue page refreshes every card without per-card requests.
func (h *PresenceHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req dto.PresenceLookupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	statuses, err := h.presence.Lookup(r.Context(), req.ProfileIDs)
	if err != nil {
		if errors.Is(err, presencesvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid profile id set")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to resolve presence")
		return
	}

	out := make([]dto.PresenceStatusResponse, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, dto.PresenceStatusResponse{
			ProfileID:  status.ProfileID,
			LastActive: status.LastActive,
			Presence:   toPresenceResponse(status.Presence),
		})
	}

	httperrors.Write(w, http.StatusOK, dto.PresenceLookupResponse{Statuses: out})
}

// Heartbeat marks the caller's own card active now.
func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	detail, err := h.profiles.GetOwn(r.Context(), identity.UserID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	if err := h.presence.Touch(r.Context(), detail.ID); err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to record heartbeat")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}
