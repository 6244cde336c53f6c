package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) bool
}

// MonitorHealth polls p every interval and stores the outcome in healthy
// until ctx is done.
func MonitorHealth(ctx context.Context, name string, p Pinger, interval time.Duration, healthy *atomic.Bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, interval)
			isHealthy := p.Ping(checkCtx)
			cancel()

			if healthy.Swap(isHealthy) != isHealthy {
				if isHealthy {
					slog.Info("[HealthCheck] Dependency recovered", slog.String("dependency", name))
				} else {
					slog.Warn("[HealthCheck] Dependency is unhealthy", slog.String("dependency", name))
				}
			}
		}
	}
}
