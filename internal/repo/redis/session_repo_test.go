package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	authsvc "github.com/mlisovenko/vitrina/backend/internal/services/auth"
)

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}

func TestSessionRoundTrip(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := NewSessionRepo(client)
	ctx := context.Background()

	session := authsvc.SessionRecord{
		SID:       "sid-1",
		UserID:    42,
		Role:      "escort",
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
	if err := repo.Create(ctx, session, "refresh-1"); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := repo.GetSession(ctx, "sid-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.UserID != 42 || got.Role != "escort" {
		t.Fatalf("session = %+v, want user 42 role escort", got)
	}

	byToken, err := repo.GetByRefreshToken(ctx, "refresh-1")
	if err != nil {
		t.Fatalf("get by refresh token: %v", err)
	}
	if byToken.SID != "sid-1" {
		t.Fatalf("sid = %q, want sid-1", byToken.SID)
	}
}

func TestSessionRotateRefresh(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := NewSessionRepo(client)
	ctx := context.Background()

	session := authsvc.SessionRecord{
		SID:       "sid-1",
		UserID:    7,
		Role:      "visitor",
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
	if err := repo.Create(ctx, session, "old-token"); err != nil {
		t.Fatalf("create session: %v", err)
	}

	newExpiry := time.Now().Add(2 * time.Hour).UTC()
	if err := repo.RotateRefresh(ctx, "sid-1", "old-token", "new-token", newExpiry); err != nil {
		t.Fatalf("rotate refresh: %v", err)
	}

	if _, err := repo.GetByRefreshToken(ctx, "old-token"); !errors.Is(err, authsvc.ErrSessionNotFound) {
		t.Fatalf("old token err = %v, want ErrSessionNotFound", err)
	}
	got, err := repo.GetByRefreshToken(ctx, "new-token")
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if got.SID != "sid-1" {
		t.Fatalf("sid = %q, want sid-1", got.SID)
	}
}

func TestSessionDelete(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := NewSessionRepo(client)
	ctx := context.Background()

	for _, sid := range []string{"sid-1", "sid-2"} {
		session := authsvc.SessionRecord{
			SID:       sid,
			UserID:    7,
			Role:      "visitor",
			ExpiresAt: time.Now().Add(time.Hour).UTC(),
		}
		if err := repo.Create(ctx, session, "refresh-"+sid); err != nil {
			t.Fatalf("create %s: %v", sid, err)
		}
	}

	if err := repo.DeleteSession(ctx, "sid-1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := repo.GetSession(ctx, "sid-1"); !errors.Is(err, authsvc.ErrSessionNotFound) {
		t.Fatalf("deleted session err = %v, want ErrSessionNotFound", err)
	}

	if err := repo.DeleteAllForUser(ctx, 7); err != nil {
		t.Fatalf("delete all for user: %v", err)
	}
	if _, err := repo.GetSession(ctx, "sid-2"); !errors.Is(err, authsvc.ErrSessionNotFound) {
		t.Fatalf("remaining session err = %v, want ErrSessionNotFound", err)
	}
}

func TestRateRepoWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := NewRateRepo(client)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, ttl, err := repo.IncrementWindow(ctx, "rate:test", time.Minute)
		if err != nil {
			t.Fatalf("increment #%d: %v", want, err)
		}
		if count != want {
			t.Fatalf("count = %d, want %d", count, want)
		}
		if ttl <= 0 || ttl > time.Minute {
			t.Fatalf("ttl = %v, want within the window", ttl)
		}
	}

	mr.FastForward(time.Minute + time.Second)
	count, _, err := repo.IncrementWindow(ctx, "rate:test", time.Minute)
	if err != nil {
		t.Fatalf("increment after expiry: %v", err)
	}
	if count != 1 {
		t.Fatalf("count after window expiry = %d, want 1", count)
	}
}
