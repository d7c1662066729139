package rate

import (
	"context"
	"fmt"
	"time"
)

const (
	reportWindow      = time.Hour
	interactionWindow = time.Minute
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// Limiter throttles anonymous write traffic per client key, normally the
// caller's IP. Fixed windows backed by redis counters.
type Limiter struct {
	store          WindowStore
	reportsPerHour int
	clicksPerMin   int
}

func NewLimiter(store WindowStore, reportsPerHour, clicksPerMin int) *Limiter {
	if reportsPerHour < 0 {
		reportsPerHour = 0
	}
	if clicksPerMin < 0 {
		clicksPerMin = 0
	}

	return &Limiter{
		store:          store,
		reportsPerHour: reportsPerHour,
		clicksPerMin:   clicksPerMin,
	}
}

// AllowReport returns whether the client may file another report and, when
// denied, how many seconds to wait. A zero limit disables the check.
func (l *Limiter) AllowReport(ctx context.Context, clientKey string) (int64, bool, error) {
	return l.allow(ctx, "rate:reports:1h:"+clientKey, reportWindow, l.reportsPerHour)
}

func (l *Limiter) AllowInteraction(ctx context.Context, clientKey string) (int64, bool, error) {
	return l.allow(ctx, "rate:clicks:1m:"+clientKey, interactionWindow, l.clicksPerMin)
}

func (l *Limiter) allow(ctx context.Context, key string, window time.Duration, limit int) (int64, bool, error) {
	if key == "" {
		return 0, false, fmt.Errorf("empty rate key")
	}
	if limit <= 0 {
		return 0, true, nil
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}

	count, ttl, err := l.store.IncrementWindow(ctx, key, window)
	if err != nil {
		return 0, false, err
	}
	if count > int64(limit) {
		return ceilSeconds(ttl), false, nil
	}

	return 0, true, nil
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 1
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
