package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
)

type storeStub struct {
	nextID  int64
	rows    map[int64]pgrepo.PhotoRow
	limit   int
	deleted []int64
}

func newStoreStub(limit int) *storeStub {
	return &storeStub{rows: map[int64]pgrepo.PhotoRow{}, limit: limit}
}

func (s *storeStub) CreatePhoto(_ context.Context, profileID int64, objectKey string, at time.Time) (pgrepo.PhotoRow, error) {
	count := 0
	for _, row := range s.rows {
		if row.ProfileID == profileID {
			count++
		}
	}
	if count >= s.limit {
		return pgrepo.PhotoRow{}, pgrepo.ErrPhotoLimitReached
	}
	s.nextID++
	row := pgrepo.PhotoRow{ID: s.nextID, ProfileID: profileID, Position: count + 1, ObjectKey: objectKey, CreatedAt: at}
	s.rows[row.ID] = row
	return row, nil
}

func (s *storeStub) ListPhotos(_ context.Context, profileID int64) ([]pgrepo.PhotoRow, error) {
	var out []pgrepo.PhotoRow
	for _, row := range s.rows {
		if row.ProfileID == profileID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *storeStub) DeletePhoto(_ context.Context, profileID, photoID int64) (string, error) {
	row, ok := s.rows[photoID]
	if !ok || row.ProfileID != profileID {
		return "", pgrepo.ErrPhotoNotFound
	}
	delete(s.rows, photoID)
	s.deleted = append(s.deleted, photoID)
	return row.ObjectKey, nil
}

type counterStub struct {
	deltas []int
}

func (c *counterStub) IncrementPhotosCount(_ context.Context, _ int64, delta int) error {
	c.deltas = append(c.deltas, delta)
	return nil
}

type storageStub struct {
	objects map[string]bool
	deleted []string
}

func newStorageStub() *storageStub {
	return &storageStub{objects: map[string]bool{}}
}

func (s *storageStub) EnsureBucket(_ context.Context) error { return nil }

func (s *storageStub) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
	s.objects[key] = true
	return nil
}

func (s *storageStub) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func (s *storageStub) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func TestUploadValidatesAndStores(t *testing.T) {
	store := newStoreStub(10)
	counter := &counterStub{}
	storage := newStorageStub()
	svc := NewService(store, counter, storage)

	photo, err := svc.Upload(context.Background(), 1, "selfie.jpg", "image/jpeg", strings.NewReader("data"), 4)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if photo.URL == "" {
		t.Fatal("upload must return a presigned url")
	}
	if len(storage.objects) != 1 {
		t.Fatalf("objects = %d, want 1", len(storage.objects))
	}
	if len(counter.deltas) != 1 || counter.deltas[0] != 1 {
		t.Fatalf("count deltas = %v, want [1]", counter.deltas)
	}

	if _, err := svc.Upload(context.Background(), 1, "x.exe", "application/octet-stream", strings.NewReader("data"), 4); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad content type err = %v, want ErrValidation", err)
	}
	if _, err := svc.Upload(context.Background(), 1, "big.jpg", "image/jpeg", strings.NewReader("data"), maxPhotoSize+1); !errors.Is(err, ErrValidation) {
		t.Fatalf("oversized err = %v, want ErrValidation", err)
	}
}

func TestUploadLimitRemovesOrphan(t *testing.T) {
	store := newStoreStub(1)
	storage := newStorageStub()
	svc := NewService(store, &counterStub{}, storage)

	if _, err := svc.Upload(context.Background(), 1, "a.jpg", "image/jpeg", strings.NewReader("data"), 4); err != nil {
		t.Fatalf("first upload: %v", err)
	}

	_, err := svc.Upload(context.Background(), 1, "b.jpg", "image/jpeg", strings.NewReader("data"), 4)
	if !errors.Is(err, ErrPhotoLimitReached) {
		t.Fatalf("err = %v, want ErrPhotoLimitReached", err)
	}
	if len(storage.objects) != 1 {
		t.Fatalf("objects = %d, want rejected upload cleaned up", len(storage.objects))
	}
}

func TestDeleteRemovesRowAndObject(t *testing.T) {
	store := newStoreStub(10)
	counter := &counterStub{}
	storage := newStorageStub()
	svc := NewService(store, counter, storage)

	photo, err := svc.Upload(context.Background(), 1, "a.jpg", "image/jpeg", strings.NewReader("data"), 4)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(context.Background(), 1, photo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(storage.objects) != 0 {
		t.Fatal("object must be removed with the row")
	}
	if len(counter.deltas) != 2 || counter.deltas[1] != -1 {
		t.Fatalf("count deltas = %v, want [1 -1]", counter.deltas)
	}

	if err := svc.Delete(context.Background(), 1, 99); !errors.Is(err, ErrPhotoNotFound) {
		t.Fatalf("missing photo err = %v, want ErrPhotoNotFound", err)
	}
	if err := svc.Delete(context.Background(), 2, photo.ID); !errors.Is(err, ErrPhotoNotFound) {
		t.Fatalf("foreign photo err = %v, want ErrPhotoNotFound", err)
	}
}
