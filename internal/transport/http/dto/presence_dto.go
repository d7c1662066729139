package dto

import "time"

type PresenceLookupRequest struct {
	ProfileIDs []int64 `json:"profile_ids"`
}

type PresenceStatusResponse struct {
	ProfileID  int64            `json:"profile_id"`
	LastActive *time.Time       `json:"last_active"`
	Presence   PresenceResponse `json:"presence"`
}

type PresenceLookupResponse struct {
	Statuses []PresenceStatusResponse `json:"statuses"`
}
