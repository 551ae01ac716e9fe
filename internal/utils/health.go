package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Checks    []ServiceCheck `json:"checks"`
}

type ServiceCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker probes the task store and the board snapshot cache. Either
// handle may be nil; a nil dependency is skipped, not reported down.
type HealthChecker struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "healthy", Timestamp: time.Now().UTC()}

	if h.DB != nil {
		status.add(probe(ctx, "postgres", func(ctx context.Context) error {
			sqlDB, err := h.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}))
	}

	if h.Redis != nil {
		status.add(probe(ctx, "redis", func(ctx context.Context) error {
			return h.Redis.Ping(ctx).Err()
		}))
	}

	return status
}

func (s *HealthStatus) add(check ServiceCheck) {
	if check.Status != "up" {
		s.Status = "degraded"
	}
	s.Checks = append(s.Checks, check)
}

func probe(ctx context.Context, name string, ping func(context.Context) error) ServiceCheck {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	check := ServiceCheck{Name: name, Status: "up"}
	if err := ping(ctx); err != nil {
		check.Status = "down"
		check.Message = err.Error()
	}
	return check
}
