package service

import (
	"context"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"

	"go.uber.org/zap"
)

const (
	statusUp       = "up"
	statusDown     = "down"
	statusDisabled = "disabled"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthService reports the reachability of the backing stores.
type HealthService interface {
	Check(ctx context.Context) *dto.HealthResponse
}

type healthService struct {
	db      Pinger
	cache   domain.Cache
	timeout time.Duration
}

func NewHealthService(db Pinger, c domain.Cache, timeout time.Duration) HealthService {
	return &healthService{db: db, cache: c, timeout: timeout}
}

func (s *healthService) Check(ctx context.Context) *dto.HealthResponse {
	resp := &dto.HealthResponse{Status: "ok", Services: map[string]string{}}

	resp.Services["database"] = s.ping(ctx, "database", func(c context.Context) error { return s.db.PingContext(c) })
	if s.cache == nil {
		resp.Services["redis"] = statusDisabled
	} else {
		resp.Services["redis"] = s.ping(ctx, "redis", s.cache.Ping)
	}

	for _, st := range resp.Services {
		if st == statusDown {
			resp.Status = "degraded"
		}
	}
	return resp
}

func (s *healthService) ping(ctx context.Context, name string, fn func(context.Context) error) string {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Get().Warn("health check failed", zap.String("service", name), zap.Error(err))
		return statusDown
	}
	return statusUp
}
