package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/mlisovenko/vitrina/backend/internal/services/auth"
	profilesvc "github.com/mlisovenko/vitrina/backend/internal/services/profiles"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
	httperrors "github.com/mlisovenko/vitrina/backend/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get serves a public card to any visitor and records the view. The viewer
// id is the session user when present, otherwise the client address.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseIDParam(chi.URLParam(r, "profileID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile id")
		return
	}

	viewerID := clientKey(r)
	if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
		if identity.IsAdmin() {
			// Admins see lapsed cards too, and their looks are not counted.
			detail, err := h.service.GetAdmin(r.Context(), profileID)
			if err != nil {
				handleProfileError(w, err)
				return
			}
			httperrors.Write(w, http.StatusOK, toProfileResponse(detail))
			return
		}
		viewerID = "user:" + identity.SID
	}

	detail, err := h.service.GetPublic(r.Context(), profileID, viewerID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(detail))
}

func (h *ProfileHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	detail, err := h.service.GetOwn(r.Context(), identity.UserID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(detail))
}

func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.UpsertProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	detail, err := h.service.Upsert(r.Context(), identity.UserID, profilesvc.UpsertInput{
		DisplayName: req.DisplayName,
		About:       req.About,
		CityID:      req.CityID,
		District:    req.District,
		Gender:      req.Gender,
		Phone:       req.Phone,
	})
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(detail))
}

func handleProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profilesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "profile validation failed")
	case errors.Is(err, profilesvc.ErrProfileNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func toProfileResponse(detail profilesvc.Detail) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:          detail.ID,
		DisplayName: detail.DisplayName,
		About:       detail.About,
		CityID:      detail.CityID,
		City:        detail.City,
		District:    detail.District,
		Gender:      detail.Gender,
		Phone:       detail.Phone,
		PhotosCount: detail.PhotosCount,
		Status:      toStatusResponse(detail.Status),
		Presence:    toPresenceResponse(detail.Presence),
		CreatedAt:   detail.CreatedAt,
	}
}
