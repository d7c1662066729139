package dto

import "time"

type TierStatusResponse struct {
	IsPublic         bool `json:"is_public"`
	IsGold           bool `json:"is_gold"`
	IsSilver         bool `json:"is_silver"`
	IsFeatured       bool `json:"is_featured"`
	IsVerifiedPhotos bool `json:"is_verified_photos"`
}

type PresenceResponse struct {
	Known    bool   `json:"known"`
	IsOnline bool   `json:"is_online"`
	Label    string `json:"label,omitempty"`
}

type ListingItemResponse struct {
	ID          int64              `json:"id"`
	DisplayName string             `json:"display_name"`
	About       string             `json:"about,omitempty"`
	CityID      string             `json:"city_id"`
	City        string             `json:"city"`
	District    string             `json:"district,omitempty"`
	Gender      string             `json:"gender"`
	PhotosCount int                `json:"photos_count"`
	Status      TierStatusResponse `json:"status"`
	Presence    PresenceResponse   `json:"presence"`
	CreatedAt   time.Time          `json:"created_at"`
}

type PaginationResponse struct {
	Total           int64 `json:"total"`
	Limit           int   `json:"limit"`
	Offset          int   `json:"offset"`
	CurrentPage     int   `json:"current_page"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

type ListingFiltersEcho struct {
	Search         string `json:"search,omitempty"`
	CityID         string `json:"city_id,omitempty"`
	District       string `json:"district,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Gold           bool   `json:"gold,omitempty"`
	Silver         bool   `json:"silver,omitempty"`
	Featured       bool   `json:"featured,omitempty"`
	VerifiedPhotos bool   `json:"verified_photos,omitempty"`
	New            bool   `json:"new,omitempty"`
	Online         bool   `json:"online,omitempty"`
}

type ListingMetaResponse struct {
	Timestamp time.Time          `json:"timestamp"`
	Filters   ListingFiltersEcho `json:"filters"`
}

type ListingResponse struct {
	Items      []ListingItemResponse `json:"items"`
	Pagination PaginationResponse    `json:"pagination"`
	Meta       ListingMetaResponse   `json:"meta"`
}
