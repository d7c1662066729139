package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DailyMetricsRepo stores the per-day rollup rows produced by the metrics
// job. Raw events stay untouched; this table is a convenience series for the
// admin dashboard trend.
type DailyMetricsRepo struct {
	pool *pgxpool.Pool
}

func NewDailyMetricsRepo(pool *pgxpool.Pool) *DailyMetricsRepo {
	return &DailyMetricsRepo{pool: pool}
}

type DailyMetricRow struct {
	Day          time.Time
	Views        int64
	Interactions int64
	NewProfiles  int64
}

func (r *DailyMetricsRepo) Upsert(ctx context.Context, row DailyMetricRow) error {
	if row.Day.IsZero() {
		return fmt.Errorf("metric day is required")
	}
	if r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO daily_metrics (day, views, interactions, new_profiles, updated_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (day) DO UPDATE SET
	views = EXCLUDED.views,
	interactions = EXCLUDED.interactions,
	new_profiles = EXCLUDED.new_profiles,
	updated_at = NOW()
`, row.Day.UTC().Truncate(24*time.Hour), row.Views, row.Interactions, row.NewProfiles); err != nil {
		return fmt.Errorf("upsert daily metric: %w", err)
	}

	return nil
}

func (r *DailyMetricsRepo) ListRange(ctx context.Context, from, to time.Time) ([]DailyMetricRow, error) {
	if r.pool == nil {
		return []DailyMetricRow{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT day, views, interactions, new_profiles
FROM daily_metrics
WHERE day >= $1 AND day <= $2
ORDER BY day
`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("list daily metrics: %w", err)
	}
	defer rows.Close()

	var items []DailyMetricRow
	for rows.Next() {
		var item DailyMetricRow
		if err := rows.Scan(&item.Day, &item.Views, &item.Interactions, &item.NewProfiles); err != nil {
			return nil, fmt.Errorf("scan daily metric: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate daily metrics: %w", rows.Err())
	}

	return items, nil
}
