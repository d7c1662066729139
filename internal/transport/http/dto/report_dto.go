package dto

import "time"

type CreateReportRequest struct {
	ProfileID     *int64 `json:"profile_id"`
	Reason        string `json:"reason"`
	Description   string `json:"description"`
	ReporterName  string `json:"reporter_name"`
	ReporterEmail string `json:"reporter_email"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status"`
}

type ReportResponse struct {
	ID            int64     `json:"id"`
	ProfileID     *int64    `json:"profile_id"`
	Reason        string    `json:"reason"`
	Description   string    `json:"description,omitempty"`
	ReporterName  string    `json:"reporter_name,omitempty"`
	ReporterEmail string    `json:"reporter_email,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReportListResponse struct {
	Items []ReportResponse `json:"items"`
	Total int64            `json:"total"`
}
