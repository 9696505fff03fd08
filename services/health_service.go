package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rijnfleet/fleet-backend/logger"
)

// HealthStatus is the overall state reported by a health check.
type HealthStatus string

const (
	HealthStatusUp   HealthStatus = "up"
	HealthStatusDown HealthStatus = "down"
)

// HealthCheck is the readiness probe response body.
type HealthCheck struct {
	Status     HealthStatus            `json:"status"`
	Components map[string]HealthStatus `json:"components"`
	Version    string                  `json:"version,omitempty"`
	Uptime     string                  `json:"uptime"`
}

// HealthService reports service readiness, currently database
// connectivity.
type HealthService struct {
	pool      *pgxpool.Pool
	version   string
	startedAt time.Time
}

func NewHealthService(pool *pgxpool.Pool, version string) *HealthService {
	return &HealthService{
		pool:      pool,
		version:   version,
		startedAt: time.Now(),
	}
}

// CheckHealth pings the database with a short timeout.
func (s *HealthService) CheckHealth(ctx context.Context) HealthCheck {
	check := HealthCheck{
		Status:     HealthStatusUp,
		Components: map[string]HealthStatus{"database": HealthStatusUp},
		Version:    s.version,
		Uptime:     time.Since(s.startedAt).Round(time.Second).String(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.pool.Ping(pingCtx); err != nil {
		logger.GetLogger().Warnw("Database health check failed", "error", err)
		check.Status = HealthStatusDown
		check.Components["database"] = HealthStatusDown
	}
	return check
}
