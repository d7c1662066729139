package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepo persists the append-only view and interaction logs. Rows are
// immutable once written; they cascade away with their profile.
type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

type ViewEventRow struct {
	ProfileID  int64
	ViewerID   string
	OccurredAt time.Time
}

type InteractionEventRow struct {
	ProfileID  int64
	Kind       string
	OccurredAt time.Time
}

func (r *EventRepo) InsertView(ctx context.Context, profileID int64, viewerID string, at time.Time) error {
	if profileID <= 0 {
		return fmt.Errorf("invalid profile id")
	}
	if r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO view_events (profile_id, viewer_id, occurred_at)
VALUES ($1, $2, $3)
`, profileID, viewerID, at.UTC()); err != nil {
		return fmt.Errorf("insert view event: %w", err)
	}

	return nil
}

func (r *EventRepo) InsertInteraction(ctx context.Context, profileID int64, kind string, at time.Time) error {
	if profileID <= 0 || kind == "" {
		return fmt.Errorf("invalid interaction payload")
	}
	if r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO interaction_events (profile_id, kind, occurred_at)
VALUES ($1, $2, $3)
`, profileID, kind, at.UTC()); err != nil {
		return fmt.Errorf("insert interaction event: %w", err)
	}

	return nil
}

// ListViews returns view events at or after since. A zero since means the
// full log.
func (r *EventRepo) ListViews(ctx context.Context, since time.Time) ([]ViewEventRow, error) {
	if r.pool == nil {
		return []ViewEventRow{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT profile_id, COALESCE(viewer_id, ''), occurred_at
FROM view_events
WHERE $1::boolean = FALSE OR occurred_at >= $2::timestamptz
ORDER BY occurred_at
`, !since.IsZero(), since.UTC())
	if err != nil {
		return nil, fmt.Errorf("list view events: %w", err)
	}
	defer rows.Close()

	var items []ViewEventRow
	for rows.Next() {
		var item ViewEventRow
		if err := rows.Scan(&item.ProfileID, &item.ViewerID, &item.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan view event: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate view events: %w", rows.Err())
	}

	return items, nil
}

func (r *EventRepo) ListInteractions(ctx context.Context, since time.Time) ([]InteractionEventRow, error) {
	if r.pool == nil {
		return []InteractionEventRow{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT profile_id, kind, occurred_at
FROM interaction_events
WHERE $1::boolean = FALSE OR occurred_at >= $2::timestamptz
ORDER BY occurred_at
`, !since.IsZero(), since.UTC())
	if err != nil {
		return nil, fmt.Errorf("list interaction events: %w", err)
	}
	defer rows.Close()

	var items []InteractionEventRow
	for rows.Next() {
		var item InteractionEventRow
		if err := rows.Scan(&item.ProfileID, &item.Kind, &item.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan interaction event: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate interaction events: %w", rows.Err())
	}

	return items, nil
}

// ListInteractionsForProfile feeds the admin drill-down; it reads the full
// per-profile log so the service can bucket it into cumulative windows.
func (r *EventRepo) ListInteractionsForProfile(ctx context.Context, profileID int64) ([]InteractionEventRow, error) {
	if profileID <= 0 {
		return nil, fmt.Errorf("invalid profile id")
	}
	if r.pool == nil {
		return []InteractionEventRow{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT profile_id, kind, occurred_at
FROM interaction_events
WHERE profile_id = $1
ORDER BY occurred_at
`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list profile interactions: %w", err)
	}
	defer rows.Close()

	var items []InteractionEventRow
	for rows.Next() {
		var item InteractionEventRow
		if err := rows.Scan(&item.ProfileID, &item.Kind, &item.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan profile interaction: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profile interactions: %w", rows.Err())
	}

	return items, nil
}

// CountInWindow returns total views and interactions inside [from, to), used
// by the daily metrics rollup.
func (r *EventRepo) CountInWindow(ctx context.Context, from, to time.Time) (views int64, interactions int64, err error) {
	if r.pool == nil {
		return 0, 0, nil
	}

	err = r.pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM view_events WHERE occurred_at >= $1 AND occurred_at < $2),
	(SELECT COUNT(*) FROM interaction_events WHERE occurred_at >= $1 AND occurred_at < $2)
`, from.UTC(), to.UTC()).Scan(&views, &interactions)
	if err != nil {
		return 0, 0, fmt.Errorf("count events in window: %w", err)
	}

	return views, interactions, nil
}
