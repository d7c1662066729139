package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

type ReportRow struct {
	ID            int64
	ProfileID     *int64
	Reason        string
	Description   string
	ReporterName  string
	ReporterEmail string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ReportWrite struct {
	ProfileID     *int64
	Reason        string
	Description   string
	ReporterName  string
	ReporterEmail string
}

const reportColumnsSQL = `
	id,
	profile_id,
	reason,
	COALESCE(description, ''),
	COALESCE(reporter_name, ''),
	COALESCE(reporter_email, ''),
	status,
	created_at,
	updated_at
`

func (r *ReportRepo) Create(ctx context.Context, w ReportWrite, at time.Time) (ReportRow, error) {
	if w.Reason == "" {
		return ReportRow{}, fmt.Errorf("report reason is required")
	}
	if r.pool == nil {
		return ReportRow{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO reports (
	profile_id,
	reason,
	description,
	reporter_name,
	reporter_email,
	status,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, 'pending', $6, $6)
RETURNING `+reportColumnsSQL,
		w.ProfileID, w.Reason, w.Description, w.ReporterName, w.ReporterEmail, at.UTC())

	item, err := scanReportRow(row)
	if err != nil {
		return ReportRow{}, fmt.Errorf("create report: %w", err)
	}

	return item, nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id int64) (ReportRow, error) {
	if id <= 0 || r.pool == nil {
		return ReportRow{}, ErrReportNotFound
	}

	row := r.pool.QueryRow(ctx, "SELECT "+reportColumnsSQL+" FROM reports WHERE id = $1 LIMIT 1", id)
	item, err := scanReportRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReportRow{}, ErrReportNotFound
		}
		return ReportRow{}, fmt.Errorf("get report: %w", err)
	}

	return item, nil
}

// List filters by status when status is non-empty and pages newest first.
func (r *ReportRepo) List(ctx context.Context, status string, limit, offset int) ([]ReportRow, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if r.pool == nil {
		return []ReportRow{}, 0, nil
	}

	applyStatus := status != ""

	var total int64
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM reports
WHERE $1::boolean = FALSE OR status = $2
`, applyStatus, status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+reportColumnsSQL+`
FROM reports
WHERE $1::boolean = FALSE OR status = $2
ORDER BY created_at DESC, id DESC
LIMIT $3 OFFSET $4
`, applyStatus, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	items := make([]ReportRow, 0, limit)
	for rows.Next() {
		item, err := scanReportRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan report: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate reports: %w", rows.Err())
	}

	return items, total, nil
}

// ListPending feeds the moderation bot; after is an id cursor so already
// announced reports are not re-sent.
func (r *ReportRepo) ListPending(ctx context.Context, afterID int64, limit int) ([]ReportRow, error) {
	if limit <= 0 {
		limit = 10
	}
	if r.pool == nil {
		return []ReportRow{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+reportColumnsSQL+`
FROM reports
WHERE status = 'pending' AND id > $1
ORDER BY id
LIMIT $2
`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending reports: %w", err)
	}
	defer rows.Close()

	items := make([]ReportRow, 0, limit)
	for rows.Next() {
		item, err := scanReportRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending report: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate pending reports: %w", rows.Err())
	}

	return items, nil
}

func (r *ReportRepo) UpdateStatus(ctx context.Context, id int64, status string, at time.Time) (ReportRow, error) {
	if id <= 0 || status == "" {
		return ReportRow{}, ErrReportNotFound
	}
	if r.pool == nil {
		return ReportRow{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
UPDATE reports SET status = $2, updated_at = $3
WHERE id = $1
RETURNING `+reportColumnsSQL, id, status, at.UTC())

	item, err := scanReportRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReportRow{}, ErrReportNotFound
		}
		return ReportRow{}, fmt.Errorf("update report status: %w", err)
	}

	return item, nil
}

func (r *ReportRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	if r.pool == nil {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM reports GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count reports by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan report status count: %w", err)
		}
		out[status] = count
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate report status counts: %w", rows.Err())
	}

	return out, nil
}

func scanReportRow(row pgx.Row) (ReportRow, error) {
	var item ReportRow
	err := row.Scan(
		&item.ID,
		&item.ProfileID,
		&item.Reason,
		&item.Description,
		&item.ReporterName,
		&item.ReporterEmail,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}
