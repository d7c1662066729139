package model

import (
	"time"

	"github.com/mlisovenko/vitrina/backend/internal/domain/enums"
)

// Report optionally references a profile. The reference is nulled, not the
// report deleted, when the profile goes away: moderation history persists.
type Report struct {
	ID            int64              `json:"id"`
	ProfileID     *int64             `json:"profile_id"`
	Reason        enums.ReportReason `json:"reason"`
	Description   string             `json:"description"`
	ReporterName  string             `json:"reporter_name"`
	ReporterEmail string             `json:"reporter_email"`
	Status        enums.ReportStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
