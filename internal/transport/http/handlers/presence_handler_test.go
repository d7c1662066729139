package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	presencesvc "github.com/mlisovenko/vitrina/backend/internal/services/presence"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
)

type presenceRepoStub struct {
	lastActive map[int64]*time.Time
}

func (r *presenceRepoStub) TouchLastActive(_ context.Context, _ int64, _ time.Time) error {
	return nil
}

func (r *presenceRepoStub) LastActiveByIDs(_ context.Context, _ []int64) (map[int64]*time.Time, error) {
	return r.lastActive, nil
}

func TestPresenceLookupReturnsLastActive(t *testing.T) {
	seen := time.Now().UTC().Add(-5 * time.Second).Truncate(time.Second)
	repo := &presenceRepoStub{lastActive: map[int64]*time.Time{1: &seen}}
	handler := NewPresenceHandler(presencesvc.NewService(repo), nil)

	body := strings.NewReader(`{"profile_ids": [1, 2]}`)
	req := httptest.NewRequest(http.MethodPost, "/presence/lookup", body)
	rr := httptest.NewRecorder()
	handler.Lookup(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var resp dto.PresenceLookupResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(resp.Statuses))
	}

	if resp.Statuses[0].LastActive == nil || !resp.Statuses[0].LastActive.Equal(seen) {
		t.Fatalf("id 1 last_active = %v, want %v", resp.Statuses[0].LastActive, seen)
	}
	if !resp.Statuses[0].Presence.IsOnline {
		t.Fatalf("id 1 presence = %+v, want online", resp.Statuses[0].Presence)
	}
	if resp.Statuses[1].LastActive != nil {
		t.Fatalf("id 2 last_active = %v, want null", resp.Statuses[1].LastActive)
	}
}
