package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const DEFAULT_HEALTHCHECK_INTERVAL = 15 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// MonitorCacheHealth pings the score cache on every tick and records the
// outcome in healthy until ctx is done.
func MonitorCacheHealth(ctx context.Context, cache Pinger, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = DEFAULT_HEALTHCHECK_INTERVAL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCache(ctx, cache, healthy, interval)
		}
	}
}

func checkCache(ctx context.Context, cache Pinger, healthy *atomic.Bool, timeout time.Duration) {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := cache.Ping(pingCtx)
	isHealthy := err == nil
	wasHealthy := healthy.Swap(isHealthy)

	switch {
	case !isHealthy && wasHealthy:
		slog.Warn("[HealthCheck] Score cache is unhealthy, scoring without it",
			slog.String("error", err.Error()))
	case isHealthy && !wasHealthy:
		slog.Info("[HealthCheck] Score cache recovered")
	}
}

// CacheStatus reports the state exposed by the health endpoint.
func CacheStatus(healthy *atomic.Bool) string {
	switch {
	case healthy == nil:
		return "disabled"
	case healthy.Load():
		return "healthy"
	default:
		return "unhealthy"
	}
}
