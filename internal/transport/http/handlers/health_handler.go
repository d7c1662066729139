package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	httperrors "github.com/mlisovenko/vitrina/backend/internal/transport/http/errors"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	pool  *pgxpool.Pool
	redis *goredis.Client
}

func NewHealthHandler(pool *pgxpool.Pool, redis *goredis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redis}
}

type healthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Get reports liveness plus per-dependency state. The endpoint answers
// 200 even when a dependency is down, so orchestration can tell a
// degraded process from a dead one.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	components := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}
	status := "ok"

	if h.pool == nil {
		components["postgres"] = "not configured"
		status = "degraded"
	} else if err := h.pool.Ping(ctx); err != nil {
		components["postgres"] = "unreachable"
		status = "degraded"
	}

	if h.redis == nil {
		components["redis"] = "not configured"
		status = "degraded"
	} else if err := h.redis.Ping(ctx).Err(); err != nil {
		components["redis"] = "unreachable"
		status = "degraded"
	}

	httperrors.Write(w, http.StatusOK, healthResponse{
		Status:     status,
		Components: components,
	})
}
