package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const defaultPingTimeout = 2 * time.Second

// HealthChecker pings the pool backing a gorm handle.
type HealthChecker struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func (h HealthChecker) Ping(ctx context.Context) error {
	timeout := h.Timeout

	if timeout == 0 {
		timeout = defaultPingTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sqlDB, err := h.DB.DB()

	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
