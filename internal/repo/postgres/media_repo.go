package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrPhotoLimitReached = errors.New("photo limit reached")
)

type MediaRepo struct {
	pool      *pgxpool.Pool
	maxPhotos int
}

func NewMediaRepo(pool *pgxpool.Pool, maxPhotos int) *MediaRepo {
	if maxPhotos <= 0 {
		maxPhotos = 10
	}
	return &MediaRepo{pool: pool, maxPhotos: maxPhotos}
}

type PhotoRow struct {
	ID        int64
	ProfileID int64
	Position  int
	ObjectKey string
	CreatedAt time.Time
}

// CreatePhoto inserts a photo row, enforcing the per-profile limit inside a
// single statement so concurrent uploads cannot overshoot it.
func (r *MediaRepo) CreatePhoto(ctx context.Context, profileID int64, objectKey string, at time.Time) (PhotoRow, error) {
	if profileID <= 0 || objectKey == "" {
		return PhotoRow{}, fmt.Errorf("invalid photo payload")
	}
	if r.pool == nil {
		return PhotoRow{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO photos (profile_id, position, object_key, created_at)
SELECT $1, COALESCE(MAX(position), 0) + 1, $2, $3
FROM photos
WHERE profile_id = $1
HAVING COUNT(*) < $4
RETURNING id, profile_id, position, object_key, created_at
`, profileID, objectKey, at.UTC(), r.maxPhotos)

	var item PhotoRow
	err := row.Scan(&item.ID, &item.ProfileID, &item.Position, &item.ObjectKey, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PhotoRow{}, ErrPhotoLimitReached
		}
		return PhotoRow{}, fmt.Errorf("create photo: %w", err)
	}

	return item, nil
}

func (r *MediaRepo) ListPhotos(ctx context.Context, profileID int64) ([]PhotoRow, error) {
	if profileID <= 0 {
		return nil, fmt.Errorf("invalid profile id")
	}
	if r.pool == nil {
		return []PhotoRow{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, profile_id, position, object_key, created_at
FROM photos
WHERE profile_id = $1
ORDER BY position
`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var items []PhotoRow
	for rows.Next() {
		var item PhotoRow
		if err := rows.Scan(&item.ID, &item.ProfileID, &item.Position, &item.ObjectKey, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate photos: %w", rows.Err())
	}

	return items, nil
}

// DeletePhoto removes the row and returns its object key so the caller can
// drop the stored object too.
func (r *MediaRepo) DeletePhoto(ctx context.Context, profileID, photoID int64) (string, error) {
	if profileID <= 0 || photoID <= 0 {
		return "", ErrPhotoNotFound
	}
	if r.pool == nil {
		return "", fmt.Errorf("postgres pool is nil")
	}

	var objectKey string
	err := r.pool.QueryRow(ctx, `
DELETE FROM photos
WHERE id = $1 AND profile_id = $2
RETURNING object_key
`, photoID, profileID).Scan(&objectKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrPhotoNotFound
		}
		return "", fmt.Errorf("delete photo: %w", err)
	}

	return objectKey, nil
}
