package handlers

import (
	"context"
	"net/http"
	"time"

	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
	httperrors "github.com/mlisovenko/vitrina/backend/internal/transport/http/errors"
)

const defaultMetricsRangeDays = 30

type MetricsSeries interface {
	ListRange(ctx context.Context, from, to time.Time) ([]pgrepo.DailyMetricRow, error)
}

// MetricsHandler serves the per-day rollup series produced by the metrics
// job. All bounds are whole days in UTC.
type MetricsHandler struct {
	series MetricsSeries
	now    func() time.Time
}

func NewMetricsHandler(series MetricsSeries) *MetricsHandler {
	return &MetricsHandler{series: series, now: time.Now}
}

func (h *MetricsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	now := h.now().UTC()
	to := now.Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -defaultMetricsRangeDays+1)

	if raw := q.Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid from date")
			return
		}
		from = parsed
	}
	if raw := q.Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid to date")
			return
		}
		to = parsed
	}
	if to.Before(from) {
		writeBadRequest(w, "VALIDATION_ERROR", "to precedes from")
		return
	}

	rows, err := h.series.ListRange(r.Context(), from, to)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load metrics")
		return
	}

	items := make([]dto.DailyMetricResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.DailyMetricResponse{
			Day:          row.Day.UTC().Format("2006-01-02"),
			Views:        row.Views,
			Interactions: row.Interactions,
			NewProfiles:  row.NewProfiles,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.DailyMetricsResponse{Items: items})
}
