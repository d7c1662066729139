package dto

import "time"

type KindShareResponse struct {
	Kind    string  `json:"kind"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

type ProfileRollupResponse struct {
	ProfileID    int64  `json:"profile_id"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email"`
	Views        int64  `json:"views"`
	Interactions int64  `json:"interactions"`
	IsPublic     bool   `json:"is_public"`
}

type DashboardResponse struct {
	Window         string                  `json:"window"`
	TotalViews     int64                   `json:"total_views"`
	TotalClicks    int64                   `json:"total_interactions"`
	TotalProfiles  int64                   `json:"total_profiles"`
	PublicProfiles int64                   `json:"public_profiles"`
	Breakdown      []KindShareResponse     `json:"breakdown"`
	Profiles       []ProfileRollupResponse `json:"profiles"`
	Top            []ProfileRollupResponse `json:"top"`
	GeneratedAt    time.Time               `json:"generated_at"`
}

type WindowCountsResponse struct {
	Today int64 `json:"today"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
	All   int64 `json:"all"`
}

type DrilldownResponse struct {
	ProfileID   int64                           `json:"profile_id"`
	ByKind      map[string]WindowCountsResponse `json:"by_kind"`
	Totals      WindowCountsResponse            `json:"totals"`
	GeneratedAt time.Time                       `json:"generated_at"`
}
