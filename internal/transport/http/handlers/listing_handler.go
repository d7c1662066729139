package handlers

import (
	"net/http"
	"strings"

	listingsvc "github.com/mlisovenko/vitrina/backend/internal/services/listing"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
	httperrors "github.com/mlisovenko/vitrina/backend/internal/transport/http/errors"
)

type ListingHandler struct {
	service *listingsvc.Service
}

func NewListingHandler(service *listingsvc.Service) *ListingHandler {
	return &ListingHandler{service: service}
}

// Handle serves the public catalogue. All filters are optional and
// malformed values fall back to defaults rather than failing the request.
func (h *ListingHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "LISTING_SERVICE_UNAVAILABLE", "listing service is unavailable")
		return
	}

	q := r.URL.Query()
	filters := listingsvc.Filters{
		Search:         strings.TrimSpace(q.Get("search")),
		CityID:         strings.TrimSpace(q.Get("city")),
		District:       strings.TrimSpace(q.Get("district")),
		Gender:         strings.TrimSpace(q.Get("gender")),
		Gold:           parseBoolParam(q.Get("gold")),
		Silver:         parseBoolParam(q.Get("silver")),
		Featured:       parseBoolParam(q.Get("featured")),
		VerifiedPhotos: parseBoolParam(q.Get("verified_photos")),
		New:            parseBoolParam(q.Get("new")),
		Online:         parseBoolParam(q.Get("online")),
		Limit:          parseIntOrDefault(q.Get("limit"), 0),
		Offset:         parseIntOrDefault(q.Get("offset"), 0),
	}

	result, err := h.service.List(r.Context(), filters)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load listing")
		return
	}

	items := make([]dto.ListingItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, dto.ListingItemResponse{
			ID:          item.ID,
			DisplayName: item.DisplayName,
			About:       item.About,
			CityID:      item.CityID,
			City:        item.City,
			District:    item.District,
			Gender:      item.Gender,
			PhotosCount: item.PhotosCount,
			Status:      toStatusResponse(item.Status),
			Presence:    toPresenceResponse(item.Presence),
			CreatedAt:   item.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.ListingResponse{
		Items: items,
		Pagination: dto.PaginationResponse{
			Total:           result.Pagination.Total,
			Limit:           result.Pagination.Limit,
			Offset:          result.Pagination.Offset,
			CurrentPage:     result.Pagination.CurrentPage,
			TotalPages:      result.Pagination.TotalPages,
			HasNextPage:     result.Pagination.HasNextPage,
			HasPreviousPage: result.Pagination.HasPreviousPage,
		},
		Meta: dto.ListingMetaResponse{
			Timestamp: result.Timestamp,
			Filters: dto.ListingFiltersEcho{
				Search:         result.Filters.Search,
				CityID:         result.Filters.CityID,
				District:       result.Filters.District,
				Gender:         result.Filters.Gender,
				Gold:           result.Filters.Gold,
				Silver:         result.Filters.Silver,
				Featured:       result.Filters.Featured,
				VerifiedPhotos: result.Filters.VerifiedPhotos,
				New:            result.Filters.New,
				Online:         result.Filters.Online,
			},
		},
	})
}
