package dto

import "time"

type UpsertProfileRequest struct {
	DisplayName string `json:"display_name"`
	About       string `json:"about"`
	CityID      string `json:"city_id"`
	District    string `json:"district"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
}

type ProfileResponse struct {
	ID          int64              `json:"id"`
	DisplayName string             `json:"display_name"`
	About       string             `json:"about,omitempty"`
	CityID      string             `json:"city_id"`
	City        string             `json:"city"`
	District    string             `json:"district,omitempty"`
	Gender      string             `json:"gender"`
	Phone       string             `json:"phone,omitempty"`
	PhotosCount int                `json:"photos_count"`
	Status      TierStatusResponse `json:"status"`
	Presence    PresenceResponse   `json:"presence"`
	CreatedAt   time.Time          `json:"created_at"`
}

type TierGrantRequest struct {
	GoldExpiresAt           *time.Time `json:"gold_expires_at"`
	SilverExpiresAt         *time.Time `json:"silver_expires_at"`
	FeaturedExpiresAt       *time.Time `json:"featured_expires_at"`
	VerifiedPhotosExpiresAt *time.Time `json:"verified_photos_expires_at"`
	PublicExpiresAt         *time.Time `json:"public_expires_at"`
}

type CityResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

type CitiesResponse struct {
	Cities []CityResponse `json:"cities"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
