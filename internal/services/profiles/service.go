package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mlisovenko/vitrina/backend/internal/config"
	"github.com/mlisovenko/vitrina/backend/internal/domain/enums"
	"github.com/mlisovenko/vitrina/backend/internal/domain/rules"
	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrProfileNotFound = errors.New("profile not found")
)

const (
	maxDisplayNameLen = 80
	maxAboutLen       = 2000
	maxDistrictLen    = 80
	maxPhoneLen       = 32
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (pgrepo.ProfileRow, error)
	GetByUserID(ctx context.Context, userID int64) (pgrepo.ProfileRow, error)
	Upsert(ctx context.Context, w pgrepo.ProfileWrite, at time.Time) (pgrepo.ProfileRow, error)
	SetTierExpiries(ctx context.Context, profileID int64, w pgrepo.TierExpiryWrite, at time.Time) error
	Delete(ctx context.Context, profileID int64) error
}

type ViewRecorder interface {
	InsertView(ctx context.Context, profileID int64, viewerID string, at time.Time) error
}

type CityDirectory interface {
	Get(id string) (config.CityConfig, bool)
}

type UpsertInput struct {
	DisplayName string
	About       string
	CityID      string
	District    string
	Gender      string
	Phone       string
}

type Detail struct {
	ID          int64            `json:"id"`
	DisplayName string           `json:"display_name"`
	About       string           `json:"about"`
	CityID      string           `json:"city_id"`
	City        string           `json:"city"`
	District    string           `json:"district"`
	Gender      string           `json:"gender"`
	Phone       string           `json:"phone"`
	PhotosCount int              `json:"photos_count"`
	Status      rules.TierStatus `json:"status"`
	Presence    rules.Presence   `json:"presence"`
	CreatedAt   time.Time        `json:"created_at"`
}

type Service struct {
	repo   Repository
	views  ViewRecorder
	cities CityDirectory
	now    func() time.Time
}

func NewService(repo Repository, views ViewRecorder, cities CityDirectory) *Service {
	return &Service{
		repo:   repo,
		views:  views,
		cities: cities,
		now:    time.Now,
	}
}

// Upsert creates or replaces the caller's own card. The card stays
// invisible until an admin grants a public window.
func (s *Service) Upsert(ctx context.Context, userID int64, in UpsertInput) (Detail, error) {
	write, err := s.validateUpsert(userID, in)
	if err != nil {
		return Detail{}, err
	}

	now := s.now().UTC()
	row, err := s.repo.Upsert(ctx, write, now)
	if err != nil {
		return Detail{}, fmt.Errorf("upsert profile: %w", err)
	}
	return s.toDetail(row, now, true), nil
}

// GetOwn returns the caller's card regardless of visibility.
func (s *Service) GetOwn(ctx context.Context, userID int64) (Detail, error) {
	row, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Detail{}, ErrProfileNotFound
		}
		return Detail{}, err
	}
	return s.toDetail(row, s.now().UTC(), true), nil
}

// GetPublic returns a visible card and records the view. A card whose
// public window has lapsed reads as not found to visitors, same as a card
// that never existed.
func (s *Service) GetPublic(ctx context.Context, profileID int64, viewerID string) (Detail, error) {
	row, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Detail{}, ErrProfileNotFound
		}
		return Detail{}, err
	}

	now := s.now().UTC()
	detail := s.toDetail(row, now, false)
	if !detail.Status.IsPublic {
		return Detail{}, ErrProfileNotFound
	}

	if s.views != nil {
		if err := s.views.InsertView(ctx, profileID, viewerID, now); err != nil {
			return Detail{}, fmt.Errorf("record view: %w", err)
		}
	}
	return detail, nil
}

// GetAdmin returns any card with full contact data, visible or not.
func (s *Service) GetAdmin(ctx context.Context, profileID int64) (Detail, error) {
	row, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Detail{}, ErrProfileNotFound
		}
		return Detail{}, err
	}
	return s.toDetail(row, s.now().UTC(), true), nil
}

type TierGrant struct {
	Gold           *time.Time
	Silver         *time.Time
	Featured       *time.Time
	VerifiedPhotos *time.Time
	Public         *time.Time
}

// SetTiers overwrites the five expiry axes. Nil clears an axis; a past
// timestamp is accepted and simply reads as expired.
func (s *Service) SetTiers(ctx context.Context, profileID int64, grant TierGrant) error {
	err := s.repo.SetTierExpiries(ctx, profileID, pgrepo.TierExpiryWrite{
		GoldExpiresAt:           grant.Gold,
		SilverExpiresAt:         grant.Silver,
		FeaturedExpiresAt:       grant.Featured,
		VerifiedPhotosExpiresAt: grant.VerifiedPhotos,
		PublicExpiresAt:         grant.Public,
	}, s.now().UTC())
	if errors.Is(err, pgrepo.ErrProfileNotFound) {
		return ErrProfileNotFound
	}
	return err
}

func (s *Service) Delete(ctx context.Context, profileID int64) error {
	err := s.repo.Delete(ctx, profileID)
	if errors.Is(err, pgrepo.ErrProfileNotFound) {
		return ErrProfileNotFound
	}
	return err
}

func (s *Service) validateUpsert(userID int64, in UpsertInput) (pgrepo.ProfileWrite, error) {
	if userID <= 0 {
		return pgrepo.ProfileWrite{}, ErrValidation
	}

	name := strings.TrimSpace(in.DisplayName)
	if name == "" || len(name) > maxDisplayNameLen {
		return pgrepo.ProfileWrite{}, fmt.Errorf("%w: display name", ErrValidation)
	}

	about := strings.TrimSpace(in.About)
	if len(about) > maxAboutLen {
		return pgrepo.ProfileWrite{}, fmt.Errorf("%w: about too long", ErrValidation)
	}

	cityID := strings.TrimSpace(in.CityID)
	city, ok := s.cities.Get(cityID)
	if !ok {
		return pgrepo.ProfileWrite{}, fmt.Errorf("%w: unknown city", ErrValidation)
	}

	district := strings.TrimSpace(in.District)
	if len(district) > maxDistrictLen {
		return pgrepo.ProfileWrite{}, fmt.Errorf("%w: district too long", ErrValidation)
	}

	gender, ok := enums.ParseGender(in.Gender)
	if !ok {
		return pgrepo.ProfileWrite{}, fmt.Errorf("%w: unknown gender", ErrValidation)
	}

	phone := strings.TrimSpace(in.Phone)
	if phone == "" || len(phone) > maxPhoneLen {
		return pgrepo.ProfileWrite{}, fmt.Errorf("%w: phone", ErrValidation)
	}

	return pgrepo.ProfileWrite{
		UserID:      userID,
		DisplayName: name,
		About:       about,
		CityID:      city.ID,
		City:        city.Name,
		District:    district,
		Gender:      string(gender),
		Phone:       phone,
	}, nil
}

func (s *Service) toDetail(row pgrepo.ProfileRow, now time.Time, withContact bool) Detail {
	d := Detail{
		ID:          row.ID,
		DisplayName: row.DisplayName,
		About:       row.About,
		CityID:      row.CityID,
		City:        row.City,
		District:    row.District,
		Gender:      row.Gender,
		PhotosCount: row.PhotosCount,
		Status: rules.EvaluateTiers(rules.TierExpiries{
			Gold:           row.GoldExpiresAt,
			Silver:         row.SilverExpiresAt,
			Featured:       row.FeaturedExpiresAt,
			VerifiedPhotos: row.VerifiedPhotosExpiresAt,
			Public:         row.PublicExpiresAt,
		}, now),
		Presence:  rules.ComputePresence(row.LastActiveAt, now),
		CreatedAt: row.CreatedAt,
	}
	if withContact || d.Status.IsPublic {
		d.Phone = row.Phone
	}
	return d
}
