package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
	listingsvc "github.com/mlisovenko/vitrina/backend/internal/services/listing"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
)

type listingRepoStub struct {
	total    int64
	rows     []pgrepo.ProfileRow
	lastList pgrepo.ListingQuery
}

func (r *listingRepoStub) CountListed(_ context.Context, q pgrepo.ListingQuery) (int64, error) {
	return r.total, nil
}

func (r *listingRepoStub) ListProfiles(_ context.Context, q pgrepo.ListingQuery) ([]pgrepo.ProfileRow, error) {
	r.lastList = q
	return r.rows, nil
}

type noCities struct{}

func (noCities) Resolve(string) (string, bool) { return "", false }

func TestListingHandlerEnvelope(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(time.Hour)

	repo := &listingRepoStub{
		total: 1,
		rows: []pgrepo.ProfileRow{{
			ID:              5,
			DisplayName:     "Anna",
			CityID:          "riga",
			City:            "Riga",
			Gender:          "female",
			GoldExpiresAt:   &future,
			PublicExpiresAt: &future,
			CreatedAt:       now.Add(-time.Hour),
		}},
	}
	handler := NewListingHandler(listingsvc.NewService(repo, noCities{}, 20, 100))

	req := httptest.NewRequest(http.MethodGet, "/profiles?gold=true&limit=10", nil)
	rr := httptest.NewRecorder()
	handler.Handle(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload dto.ListingResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(payload.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(payload.Items))
	}
	if !payload.Items[0].Status.IsGold || !payload.Items[0].Status.IsPublic {
		t.Fatalf("item status = %+v, want gold and public", payload.Items[0].Status)
	}
	if payload.Pagination.Total != 1 || payload.Pagination.Limit != 10 {
		t.Fatalf("pagination = %+v, want total 1 limit 10", payload.Pagination)
	}
	if !payload.Meta.Filters.Gold {
		t.Fatalf("meta filters = %+v, want gold echoed", payload.Meta.Filters)
	}
	if payload.Meta.Timestamp.IsZero() {
		t.Fatal("meta timestamp must be set")
	}

	// The gold filter switched the ordering branch.
	if repo.lastList.Order != pgrepo.OrderNewestFirst {
		t.Fatalf("order = %v, want newest first under an active filter", repo.lastList.Order)
	}
}

func TestListingHandlerDefaultsMalformedParams(t *testing.T) {
	repo := &listingRepoStub{}
	handler := NewListingHandler(listingsvc.NewService(repo, noCities{}, 20, 100))

	req := httptest.NewRequest(http.MethodGet, "/profiles?limit=abc&offset=-5", nil)
	rr := httptest.NewRecorder()
	handler.Handle(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("malformed params must not fail: got %d", rr.Code)
	}

	var payload dto.ListingResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Pagination.Limit != 20 || payload.Pagination.Offset != 0 {
		t.Fatalf("pagination = %+v, want defaults 20/0", payload.Pagination)
	}
	if repo.lastList.Order != pgrepo.OrderTiersFirst {
		t.Fatalf("order = %v, want tiers first without filters", repo.lastList.Order)
	}
}
