package enums

import "strings"

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

func ParseReportStatus(raw string) (ReportStatus, bool) {
	switch ReportStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ReportStatusPending:
		return ReportStatusPending, true
	case ReportStatusReviewed:
		return ReportStatusReviewed, true
	case ReportStatusResolved:
		return ReportStatusResolved, true
	case ReportStatusDismissed:
		return ReportStatusDismissed, true
	}
	return "", false
}

// CanTransitionTo encodes the admin-only report lifecycle. Reports are never
// hard-deleted; a terminal status can still be flipped between resolved and
// dismissed while moderators review appeals.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	if s == next {
		return false
	}
	switch s {
	case ReportStatusPending:
		return next == ReportStatusReviewed || next == ReportStatusResolved || next == ReportStatusDismissed
	case ReportStatusReviewed:
		return next == ReportStatusResolved || next == ReportStatusDismissed
	case ReportStatusResolved:
		return next == ReportStatusDismissed
	case ReportStatusDismissed:
		return next == ReportStatusResolved
	}
	return false
}
