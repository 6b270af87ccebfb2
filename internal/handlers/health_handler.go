package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// VectorChecker verifies the precomputed search-vector contract.
type VectorChecker interface {
	HasSearchVectors(ctx context.Context) (bool, error)
}

// HealthHandler reports whether search's external dependencies are usable:
// the database, the redis counter store and the full-text vector columns.
type HealthHandler struct {
	DB       *sql.DB
	RDB      *redis.Client
	Listings VectorChecker
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{
		"database":       "ok",
		"redis":          "ok",
		"search_vectors": "ok",
	}
	healthy := true

	if err := h.DB.PingContext(ctx); err != nil {
		checks["database"] = "unreachable"
		checks["search_vectors"] = "unknown"
		healthy = false
	} else if ok, err := h.Listings.HasSearchVectors(ctx); err != nil {
		checks["search_vectors"] = "unknown"
		healthy = false
	} else if !ok {
		checks["search_vectors"] = "missing"
		healthy = false
	}

	// Redis only degrades rate limiting and count caching; it does not
	// fail the whole check.
	if h.RDB == nil {
		checks["redis"] = "not configured"
	} else if err := h.RDB.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unreachable"
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}
