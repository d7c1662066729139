package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	profilesvc "github.com/mlisovenko/vitrina/backend/internal/services/profiles"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
	httperrors "github.com/mlisovenko/vitrina/backend/internal/transport/http/errors"
)

type AdminProfileHandler struct {
	service *profilesvc.Service
}

func NewAdminProfileHandler(service *profilesvc.Service) *AdminProfileHandler {
	return &AdminProfileHandler{service: service}
}

func (h *AdminProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseIDParam(chi.URLParam(r, "profileID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile id")
		return
	}

	detail, err := h.service.GetAdmin(r.Context(), profileID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(detail))
}

// SetTiers replaces all five expiry axes at once. Omitted fields clear
// their axis, so a grant always states the full intended state.
func (h *AdminProfileHandler) SetTiers(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseIDParam(chi.URLParam(r, "profileID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile id")
		return
	}

	var req dto.TierGrantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	err := h.service.SetTiers(r.Context(), profileID, profilesvc.TierGrant{
		Gold:           req.GoldExpiresAt,
		Silver:         req.SilverExpiresAt,
		Featured:       req.FeaturedExpiresAt,
		VerifiedPhotos: req.VerifiedPhotosExpiresAt,
		Public:         req.PublicExpiresAt,
	})
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseIDParam(chi.URLParam(r, "profileID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile id")
		return
	}

	if err := h.service.Delete(r.Context(), profileID); err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}
