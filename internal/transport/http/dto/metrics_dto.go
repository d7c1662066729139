package dto

type DailyMetricResponse struct {
	Day          string `json:"day"`
	Views        int64  `json:"views"`
	Interactions int64  `json:"interactions"`
	NewProfiles  int64  `json:"new_profiles"`
}

type DailyMetricsResponse struct {
	Items []DailyMetricResponse `json:"items"`
}
