package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	ratesvc "github.com/mlisovenko/vitrina/backend/internal/services/rate"
)

type recorderStub struct {
	kinds []string
}

func (r *recorderStub) InsertInteraction(_ context.Context, _ int64, kind string, _ time.Time) error {
	r.kinds = append(r.kinds, kind)
	return nil
}

type windowStoreStub struct {
	counts map[string]int64
}

func (s *windowStoreStub) IncrementWindow(_ context.Context, key string, _ time.Duration) (int64, time.Duration, error) {
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	return s.counts[key], 30 * time.Second, nil
}

func postInteraction(t *testing.T, handler *InteractionHandler, profileID, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/profiles/"+profileID+"/interactions", strings.NewReader(body))
	req.RemoteAddr = "10.1.2.3:5000"

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("profileID", profileID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.Handle(rr, req)
	return rr
}

func TestInteractionHandlerRecordsClick(t *testing.T) {
	recorder := &recorderStub{}
	handler := NewInteractionHandler(recorder, nil)

	rr := postInteraction(t, handler, "5", `{"kind":"whatsapp"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d, body %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if len(recorder.kinds) != 1 || recorder.kinds[0] != "whatsapp" {
		t.Fatalf("recorded = %v, want [whatsapp]", recorder.kinds)
	}
}

func TestInteractionHandlerRejectsUnknownKind(t *testing.T) {
	recorder := &recorderStub{}
	handler := NewInteractionHandler(recorder, nil)

	rr := postInteraction(t, handler, "5", `{"kind":"carrier-pigeon"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
	if len(recorder.kinds) != 0 {
		t.Fatal("invalid kind must not be recorded")
	}

	rr = postInteraction(t, handler, "abc", `{"kind":"phone"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad profile id status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestInteractionHandlerRateLimits(t *testing.T) {
	recorder := &recorderStub{}
	limiter := ratesvc.NewLimiter(&windowStoreStub{}, 0, 2)
	handler := NewInteractionHandler(recorder, limiter)

	for i := 0; i < 2; i++ {
		if rr := postInteraction(t, handler, "5", `{"kind":"phone"}`); rr.Code != http.StatusCreated {
			t.Fatalf("click %d status: got %d want %d", i+1, rr.Code, http.StatusCreated)
		}
	}

	rr := postInteraction(t, handler, "5", `{"kind":"phone"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third click status: got %d want %d", rr.Code, http.StatusTooManyRequests)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("429 must carry Retry-After")
	}
	if len(recorder.kinds) != 2 {
		t.Fatalf("recorded = %d, want throttled click dropped", len(recorder.kinds))
	}
}
