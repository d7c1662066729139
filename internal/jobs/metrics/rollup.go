package metrics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
)

type EventCounter interface {
	CountInWindow(ctx context.Context, from, to time.Time) (views int64, interactions int64, err error)
}

type ProfileCounter interface {
	CountCreatedIn(ctx context.Context, from, to time.Time) (int64, error)
}

type MetricSink interface {
	Upsert(ctx context.Context, row pgrepo.DailyMetricRow) error
}

// Job recomputes the current day's rollup row from raw events. It runs on an
// interval and overwrites the row each time, so partial days converge as the
// day fills in.
type Job struct {
	events   EventCounter
	profiles ProfileCounter
	sink     MetricSink
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewRollupJob(
	events EventCounter,
	profiles ProfileCounter,
	sink MetricSink,
	timezone string,
	logger *zap.Logger,
) (*Job, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load metrics timezone %q: %w", timezone, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		events:   events,
		profiles: profiles,
		sink:     sink,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}, nil
}

func (j *Job) Run(ctx context.Context) error {
	now := j.now().In(j.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, j.loc)
	from := dayStart.UTC()
	to := now.UTC()

	views, interactions, err := j.events.CountInWindow(ctx, from, to)
	if err != nil {
		return fmt.Errorf("count events for rollup: %w", err)
	}

	newProfiles, err := j.profiles.CountCreatedIn(ctx, from, to)
	if err != nil {
		return fmt.Errorf("count new profiles for rollup: %w", err)
	}

	row := pgrepo.DailyMetricRow{
		Day:          from,
		Views:        views,
		Interactions: interactions,
		NewProfiles:  newProfiles,
	}
	if err := j.sink.Upsert(ctx, row); err != nil {
		return fmt.Errorf("store daily rollup: %w", err)
	}

	j.logger.Info("daily metrics rollup completed",
		zap.Time("day", row.Day),
		zap.Int64("views", views),
		zap.Int64("interactions", interactions),
		zap.Int64("new_profiles", newProfiles),
	)

	return nil
}

// Loop runs the rollup once immediately and then on every tick until the
// context is cancelled.
func (j *Job) Loop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Hour
	}

	if err := j.Run(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				return err
			}
		}
	}
}
