package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrPhotoLimitReached = errors.New("photo limit reached")
)

const (
	signedURLTTL = 5 * time.Minute
	maxPhotoSize = 10 << 20
)

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Store interface {
	CreatePhoto(ctx context.Context, profileID int64, objectKey string, at time.Time) (pgrepo.PhotoRow, error)
	ListPhotos(ctx context.Context, profileID int64) ([]pgrepo.PhotoRow, error)
	DeletePhoto(ctx context.Context, profileID, photoID int64) (string, error)
}

type PhotoCounter interface {
	IncrementPhotosCount(ctx context.Context, profileID int64, delta int) error
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Photo struct {
	ID        int64     `json:"id"`
	Position  int       `json:"position"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	store   Store
	counter PhotoCounter
	storage ObjectStorage
	now     func() time.Time
}

func NewService(store Store, counter PhotoCounter, storage ObjectStorage) *Service {
	return &Service{
		store:   store,
		counter: counter,
		storage: storage,
		now:     time.Now,
	}
}

// Upload stores the object first, then the row. The row insert enforces
// the per-profile limit, so a rejected upload removes the orphan object.
func (s *Service) Upload(ctx context.Context, profileID int64, fileName, contentType string, body io.Reader, size int64) (Photo, error) {
	if profileID <= 0 || body == nil || size <= 0 {
		return Photo{}, ErrValidation
	}
	if size > maxPhotoSize {
		return Photo{}, fmt.Errorf("%w: file too large", ErrValidation)
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return Photo{}, fmt.Errorf("%w: unsupported content type %q", ErrValidation, contentType)
	}
	if nameExt := strings.ToLower(path.Ext(strings.TrimSpace(fileName))); nameExt != "" {
		ext = nameExt
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return Photo{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey := fmt.Sprintf("profiles/%d/photos/%s%s", profileID, uuid.NewString(), ext)

	if err := s.storage.Put(ctx, objectKey, body, size, contentType); err != nil {
		return Photo{}, fmt.Errorf("put object: %w", err)
	}

	row, err := s.store.CreatePhoto(ctx, profileID, objectKey, s.now().UTC())
	if err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		if errors.Is(err, pgrepo.ErrPhotoLimitReached) {
			return Photo{}, ErrPhotoLimitReached
		}
		return Photo{}, fmt.Errorf("create photo record: %w", err)
	}

	if err := s.counter.IncrementPhotosCount(ctx, profileID, 1); err != nil {
		return Photo{}, fmt.Errorf("bump photos count: %w", err)
	}

	url, err := s.storage.PresignGet(ctx, row.ObjectKey, signedURLTTL)
	if err != nil {
		return Photo{}, fmt.Errorf("presign photo url: %w", err)
	}

	return Photo{
		ID:        row.ID,
		Position:  row.Position,
		URL:       url,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (s *Service) List(ctx context.Context, profileID int64) ([]Photo, error) {
	if profileID <= 0 {
		return nil, ErrValidation
	}

	rows, err := s.store.ListPhotos(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list photo records: %w", err)
	}

	photos := make([]Photo, 0, len(rows))
	for _, row := range rows {
		url, err := s.storage.PresignGet(ctx, row.ObjectKey, signedURLTTL)
		if err != nil {
			return nil, fmt.Errorf("presign photo url: %w", err)
		}
		photos = append(photos, Photo{
			ID:        row.ID,
			Position:  row.Position,
			URL:       url,
			CreatedAt: row.CreatedAt,
		})
	}
	return photos, nil
}

func (s *Service) Delete(ctx context.Context, profileID, photoID int64) error {
	if profileID <= 0 || photoID <= 0 {
		return ErrValidation
	}

	objectKey, err := s.store.DeletePhoto(ctx, profileID, photoID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPhotoNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("delete photo record: %w", err)
	}

	if err := s.counter.IncrementPhotosCount(ctx, profileID, -1); err != nil {
		return fmt.Errorf("bump photos count: %w", err)
	}

	if err := s.storage.Delete(ctx, objectKey); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
