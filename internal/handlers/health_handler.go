package handlers

import (
	"context"
	"net/http"
	"time"

	"estate-backend/internal/cache"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthHandler struct {
	DB *pgxpool.Pool
}

func NewHealthHandler(db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{DB: db}
}

// Health reports liveness plus dependency status. Redis being down is
// degraded, not unhealthy: the API keeps serving without it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	overall := "ok"
	deps := map[string]string{"database": "up", "redis": "up"}

	if err := h.DB.Ping(ctx); err != nil {
		deps["database"] = "down"
		overall = "degraded"
		status = http.StatusServiceUnavailable
	}

	if client := cache.GetClient(); client == nil {
		deps["redis"] = "down"
	} else if err := client.Ping(ctx).Err(); err != nil {
		deps["redis"] = "down"
	}

	respondJSON(w, status, map[string]any{
		"status":       overall,
		"dependencies": deps,
	})
}
