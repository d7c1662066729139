package presence

import (
	"context"
	"errors"
	"time"

	"github.com/mlisovenko/vitrina/backend/internal/domain/rules"
)

var ErrValidation = errors.New("validation error")

const maxBulkIDs = 200

type Repository interface {
	TouchLastActive(ctx context.Context, profileID int64, at time.Time) error
	LastActiveByIDs(ctx context.Context, ids []int64) (map[int64]*time.Time, error)
}

type Status struct {
	ProfileID  int64          `json:"profile_id"`
	LastActive *time.Time     `json:"last_active"`
	Presence   rules.Presence `json:"presence"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Touch records a heartbeat for the profile. Called on every authenticated
// request by the escort owning the card, so a stale last_active_at means
// the person is genuinely gone.
func (s *Service) Touch(ctx context.Context, profileID int64) error {
	return s.repo.TouchLastActive(ctx, profileID, s.now().UTC())
}

// Lookup computes presence for the given profile ids in one round trip.
// Ids absent from storage come back with unknown presence rather than an
// error, so a feed with a just-deleted card still renders.
func (s *Service) Lookup(ctx context.Context, ids []int64) ([]Status, error) {
	if len(ids) == 0 {
		return nil, ErrValidation
	}
	if len(ids) > maxBulkIDs {
		return nil, ErrValidation
	}

	ids = dedupe(ids)

	lastActive, err := s.repo.LastActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	out := make([]Status, 0, len(ids))
	for _, id := range ids {
		out = append(out, Status{
			ProfileID:  id,
			LastActive: lastActive[id],
			Presence:   rules.ComputePresence(lastActive[id], now),
		})
	}
	return out, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
