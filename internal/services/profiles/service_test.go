package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mlisovenko/vitrina/backend/internal/config"
	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
)

type repoStub struct {
	rows        map[int64]pgrepo.ProfileRow
	byUser      map[int64]pgrepo.ProfileRow
	upserted    *pgrepo.ProfileWrite
	tierWrites  map[int64]pgrepo.TierExpiryWrite
	deleted     []int64
	upsertedRow pgrepo.ProfileRow
}

func newRepoStub() *repoStub {
	return &repoStub{
		rows:       map[int64]pgrepo.ProfileRow{},
		byUser:     map[int64]pgrepo.ProfileRow{},
		tierWrites: map[int64]pgrepo.TierExpiryWrite{},
	}
}

func (r *repoStub) GetByID(_ context.Context, id int64) (pgrepo.ProfileRow, error) {
	row, ok := r.rows[id]
	if !ok {
		return pgrepo.ProfileRow{}, pgrepo.ErrProfileNotFound
	}
	return row, nil
}

func (r *repoStub) GetByUserID(_ context.Context, userID int64) (pgrepo.ProfileRow, error) {
	row, ok := r.byUser[userID]
	if !ok {
		return pgrepo.ProfileRow{}, pgrepo.ErrProfileNotFound
	}
	return row, nil
}

func (r *repoStub) Upsert(_ context.Context, w pgrepo.ProfileWrite, _ time.Time) (pgrepo.ProfileRow, error) {
	r.upserted = &w
	return r.upsertedRow, nil
}

func (r *repoStub) SetTierExpiries(_ context.Context, profileID int64, w pgrepo.TierExpiryWrite, _ time.Time) error {
	if _, ok := r.rows[profileID]; !ok {
		return pgrepo.ErrProfileNotFound
	}
	r.tierWrites[profileID] = w
	return nil
}

func (r *repoStub) Delete(_ context.Context, profileID int64) error {
	if _, ok := r.rows[profileID]; !ok {
		return pgrepo.ErrProfileNotFound
	}
	r.deleted = append(r.deleted, profileID)
	return nil
}

type viewsStub struct {
	views []int64
}

func (v *viewsStub) InsertView(_ context.Context, profileID int64, _ string, _ time.Time) error {
	v.views = append(v.views, profileID)
	return nil
}

type citiesStub struct{}

func (citiesStub) Get(id string) (config.CityConfig, bool) {
	if id == "riga" {
		return config.CityConfig{ID: "riga", Name: "Riga"}, true
	}
	return config.CityConfig{}, false
}

func newTestService(repo *repoStub, views *viewsStub, now time.Time) *Service {
	svc := NewService(repo, views, citiesStub{})
	svc.now = func() time.Time { return now }
	return svc
}

func validInput() UpsertInput {
	return UpsertInput{
		DisplayName: "Anna",
		About:       "short bio",
		CityID:      "riga",
		District:    "Centrs",
		Gender:      "female",
		Phone:       "+37120000000",
	}
}

func TestUpsertValidation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newRepoStub()
	svc := newTestService(repo, &viewsStub{}, now)

	cases := []struct {
		name   string
		mutate func(*UpsertInput)
	}{
		{"empty name", func(in *UpsertInput) { in.DisplayName = "   " }},
		{"unknown city", func(in *UpsertInput) { in.CityID = "narnia" }},
		{"unknown gender", func(in *UpsertInput) { in.Gender = "other" }},
		{"empty phone", func(in *UpsertInput) { in.Phone = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.Upsert(context.Background(), 1, in); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}

	if _, err := svc.Upsert(context.Background(), 1, validInput()); err != nil {
		t.Fatalf("valid upsert: %v", err)
	}
	if repo.upserted == nil {
		t.Fatal("upsert not forwarded to repository")
	}
	if repo.upserted.City != "Riga" || repo.upserted.CityID != "riga" {
		t.Fatalf("city resolved to %q/%q, want riga/Riga", repo.upserted.CityID, repo.upserted.City)
	}
}

func TestGetPublicHidesLapsedCards(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	repo := newRepoStub()
	repo.rows[1] = pgrepo.ProfileRow{ID: 1, Phone: "+371", PublicExpiresAt: &past}
	repo.rows[2] = pgrepo.ProfileRow{ID: 2, Phone: "+371", PublicExpiresAt: &future}
	views := &viewsStub{}
	svc := newTestService(repo, views, now)

	if _, err := svc.GetPublic(context.Background(), 1, "v1"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("lapsed card err = %v, want ErrProfileNotFound", err)
	}
	if len(views.views) != 0 {
		t.Fatal("lapsed card must not record a view")
	}

	detail, err := svc.GetPublic(context.Background(), 2, "v1")
	if err != nil {
		t.Fatalf("visible card: %v", err)
	}
	if !detail.Status.IsPublic {
		t.Fatal("visible card must carry the public flag")
	}
	if detail.Phone == "" {
		t.Fatal("visible card must expose contact")
	}
	if len(views.views) != 1 || views.views[0] != 2 {
		t.Fatalf("views = %v, want [2]", views.views)
	}
}

func TestGetPublicExpiryBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newRepoStub()
	exact := now
	repo.rows[1] = pgrepo.ProfileRow{ID: 1, PublicExpiresAt: &exact}
	svc := newTestService(repo, &viewsStub{}, now)

	// Expiry equal to the evaluation instant means expired.
	if _, err := svc.GetPublic(context.Background(), 1, "v1"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("boundary err = %v, want ErrProfileNotFound", err)
	}
}

func TestGetOwnReturnsInvisibleCard(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newRepoStub()
	repo.byUser[9] = pgrepo.ProfileRow{ID: 4, UserID: 9, Phone: "+371"}
	svc := newTestService(repo, &viewsStub{}, now)

	detail, err := svc.GetOwn(context.Background(), 9)
	if err != nil {
		t.Fatalf("get own: %v", err)
	}
	if detail.Status.IsPublic {
		t.Fatal("card without a public window must not read as public")
	}
	if detail.Phone == "" {
		t.Fatal("owner must see their own contact")
	}
}

func TestSetTiersAndDelete(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	repo := newRepoStub()
	repo.rows[3] = pgrepo.ProfileRow{ID: 3}
	svc := newTestService(repo, &viewsStub{}, now)

	err := svc.SetTiers(context.Background(), 3, TierGrant{Gold: &future, Public: &future})
	if err != nil {
		t.Fatalf("set tiers: %v", err)
	}
	w := repo.tierWrites[3]
	if w.GoldExpiresAt == nil || w.PublicExpiresAt == nil {
		t.Fatalf("tier write = %+v, want gold and public set", w)
	}
	if w.SilverExpiresAt != nil {
		t.Fatal("unset axis must be cleared")
	}

	if err := svc.SetTiers(context.Background(), 99, TierGrant{}); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("missing profile err = %v, want ErrProfileNotFound", err)
	}

	if err := svc.Delete(context.Background(), 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), 99); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("delete missing err = %v, want ErrProfileNotFound", err)
	}
}
