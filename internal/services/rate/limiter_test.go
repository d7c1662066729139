package rate

import (
	"context"
	"testing"
	"time"
)

type storeStub struct {
	counts map[string]int64
	ttl    time.Duration
}

func newStoreStub() *storeStub {
	return &storeStub{counts: map[string]int64{}, ttl: 30 * time.Second}
}

func (s *storeStub) IncrementWindow(_ context.Context, key string, _ time.Duration) (int64, time.Duration, error) {
	s.counts[key]++
	return s.counts[key], s.ttl, nil
}

func TestAllowReportWithinLimit(t *testing.T) {
	store := newStoreStub()
	limiter := NewLimiter(store, 2, 0)

	for i := 0; i < 2; i++ {
		retry, ok, err := limiter.AllowReport(context.Background(), "10.0.0.1")
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !ok || retry != 0 {
			t.Fatalf("attempt %d: ok=%v retry=%d, want allowed", i+1, ok, retry)
		}
	}

	retry, ok, err := limiter.AllowReport(context.Background(), "10.0.0.1")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok {
		t.Fatal("third report in window must be denied")
	}
	if retry != 30 {
		t.Fatalf("retry = %d, want 30", retry)
	}
}

func TestAllowIsPerClient(t *testing.T) {
	store := newStoreStub()
	limiter := NewLimiter(store, 1, 1)

	if _, ok, _ := limiter.AllowReport(context.Background(), "a"); !ok {
		t.Fatal("first client must be allowed")
	}
	if _, ok, _ := limiter.AllowReport(context.Background(), "b"); !ok {
		t.Fatal("second client must not share the first client's window")
	}
	if _, ok, _ := limiter.AllowInteraction(context.Background(), "a"); !ok {
		t.Fatal("interaction window must not share the report window")
	}
}

func TestZeroLimitDisablesCheck(t *testing.T) {
	limiter := NewLimiter(nil, 0, 0)

	for i := 0; i < 5; i++ {
		if _, ok, err := limiter.AllowReport(context.Background(), "a"); err != nil || !ok {
			t.Fatalf("disabled limiter must always allow, ok=%v err=%v", ok, err)
		}
	}
}

func TestCeilSeconds(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int64
	}{
		{0, 1},
		{400 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{time.Minute, 60},
	}
	for _, tc := range cases {
		if got := ceilSeconds(tc.d); got != tc.want {
			t.Fatalf("ceilSeconds(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}
