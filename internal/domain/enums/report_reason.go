package enums

import "strings"

type ReportReason string

const (
	ReportReasonFakePhotos  ReportReason = "fake_photos"
	ReportReasonScam        ReportReason = "scam"
	ReportReasonUnderage    ReportReason = "underage"
	ReportReasonWrongNumber ReportReason = "wrong_number"
	ReportReasonOther       ReportReason = "other"
)

func ParseReportReason(raw string) (ReportReason, bool) {
	switch ReportReason(strings.ToLower(strings.TrimSpace(raw))) {
	case ReportReasonFakePhotos:
		return ReportReasonFakePhotos, true
	case ReportReasonScam:
		return ReportReasonScam, true
	case ReportReasonUnderage:
		return ReportReasonUnderage, true
	case ReportReasonWrongNumber:
		return ReportReasonWrongNumber, true
	case ReportReasonOther:
		return ReportReasonOther, true
	}
	return "", false
}
