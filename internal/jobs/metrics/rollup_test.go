package metrics

import (
	"context"
	"testing"
	"time"

	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
)

type eventCounterStub struct {
	views        int64
	interactions int64
	lastFrom     time.Time
	lastTo       time.Time
}

func (s *eventCounterStub) CountInWindow(_ context.Context, from, to time.Time) (int64, int64, error) {
	s.lastFrom = from
	s.lastTo = to
	return s.views, s.interactions, nil
}

type profileCounterStub struct {
	created int64
}

func (s *profileCounterStub) CountCreatedIn(_ context.Context, _, _ time.Time) (int64, error) {
	return s.created, nil
}

type sinkStub struct {
	rows []pgrepo.DailyMetricRow
}

func (s *sinkStub) Upsert(_ context.Context, row pgrepo.DailyMetricRow) error {
	s.rows = append(s.rows, row)
	return nil
}

func TestRollupUsesLocalDayStart(t *testing.T) {
	events := &eventCounterStub{views: 12, interactions: 4}
	profiles := &profileCounterStub{created: 2}
	sink := &sinkStub{}

	job, err := NewRollupJob(events, profiles, sink, "Europe/Riga", nil)
	if err != nil {
		t.Fatalf("NewRollupJob: %v", err)
	}
	// 01:00 UTC on June 1st is already June 1st in Riga (UTC+3), so the day
	// starts at 21:00 UTC the previous evening.
	job.now = func() time.Time {
		return time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantFrom := time.Date(2025, 5, 31, 21, 0, 0, 0, time.UTC)
	if !events.lastFrom.Equal(wantFrom) {
		t.Fatalf("window start: got %v want %v", events.lastFrom, wantFrom)
	}
	if !events.lastTo.Equal(time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC)) {
		t.Fatalf("window end: got %v", events.lastTo)
	}

	if len(sink.rows) != 1 {
		t.Fatalf("expected one rollup row, got %d", len(sink.rows))
	}
	row := sink.rows[0]
	if !row.Day.Equal(wantFrom) {
		t.Fatalf("row day: got %v want %v", row.Day, wantFrom)
	}
	if row.Views != 12 || row.Interactions != 4 || row.NewProfiles != 2 {
		t.Fatalf("row counts: got %+v", row)
	}
}

func TestRollupRejectsUnknownTimezone(t *testing.T) {
	if _, err := NewRollupJob(&eventCounterStub{}, &profileCounterStub{}, &sinkStub{}, "Mars/Olympus", nil); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}
