// Package keepalive keeps the backing store warm with a periodic trivial
// query, preventing the hosted database from idling out.
package keepalive

import (
	"context"
	"log/slog"
	"time"

	"thunder-recargas/internal/metrics"
)

// Pinger is the single store operation the loop needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Run probes the store every interval until ctx is cancelled. Probe failures
// are logged and ignored; the loop never stops on its own.
func Run(ctx context.Context, store Pinger, interval time.Duration, logger *slog.Logger, m *metrics.Metrics) {
	logger = logger.With("component", "keepalive")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("keep-alive loop stopped")
			return
		case <-ticker.C:
			if store == nil {
				continue
			}
			err := store.Ping(ctx)
			status := "ok"
			if err != nil {
				status = "error"
				logger.Debug("keep-alive probe failed", "error", err)
			}
			if m != nil {
				m.KeepAliveProbes.WithLabelValues(status).Inc()
			}
		}
	}
}
