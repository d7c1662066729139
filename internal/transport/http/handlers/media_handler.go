package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/mlisovenko/vitrina/backend/internal/services/auth"
	mediasvc "github.com/mlisovenko/vitrina/backend/internal/services/media"
	profilesvc "github.com/mlisovenko/vitrina/backend/internal/services/profiles"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
	httperrors "github.com/mlisovenko/vitrina/backend/internal/transport/http/errors"
)

const maxUploadMemory = 12 << 20

type MediaHandler struct {
	media    *mediasvc.Service
	profiles *profilesvc.Service
}

func NewMediaHandler(media *mediasvc.Service, profiles *profilesvc.Service) *MediaHandler {
	return &MediaHandler{media: media, profiles: profiles}
}

// Upload accepts one multipart photo for the caller's own card.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "photo file is required")
		return
	}
	defer func() { _ = file.Close() }()

	photo, err := h.media.Upload(r.Context(), detail.ID, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, toPhotoResponse(photo))
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseIDParam(chi.URLParam(r, "profileID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile id")
		return
	}

	photos, err := h.media.List(r.Context(), profileID)
	if err != nil {
		handleMediaError(w, err)
		return
	}

	out := make([]dto.PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		out = append(out, toPhotoResponse(photo))
	}

	httperrors.Write(w, http.StatusOK, dto.PhotosResponse{Photos: out})
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	photoID, ok := parseIDParam(chi.URLParam(r, "photoID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid photo id")
		return
	}

	detail, err := h.profiles.GetOwn(r.Context(), identity.UserID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	if err := h.media.Delete(r.Context(), detail.ID, photoID); err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func handleMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "media validation failed")
	case errors.Is(err, mediasvc.ErrPhotoNotFound):
		writeNotFound(w, "PHOTO_NOT_FOUND", "photo not found")
	case errors.Is(err, mediasvc.ErrPhotoLimitReached):
		writeConflict(w, "PHOTO_LIMIT_REACHED", "photo limit reached")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func toPhotoResponse(photo mediasvc.Photo) dto.PhotoResponse {
	return dto.PhotoResponse{
		ID:        photo.ID,
		Position:  photo.Position,
		URL:       photo.URL,
		CreatedAt: photo.CreatedAt,
	}
}
