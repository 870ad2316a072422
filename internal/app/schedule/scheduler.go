package schedule

import (
	"context"
	"log/slog"
	"time"
)

// Job is a unit of periodic background work.
type Job interface {
	Name() string
	RunOnce(ctx context.Context) error
}

// Every runs job on a fixed interval until ctx is cancelled. A failed run is
// logged and retried on the next tick. A non-positive interval disables the
// job and Every returns immediately.
func Every(ctx context.Context, interval time.Duration, job Job, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		logger.Info("job disabled", "job", job.Name())
		return nil
	}
	logger.Info("job started", "job", job.Name(), "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := job.RunOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error("job run failed", "job", job.Name(), "error", err)
			}
		}
	}
}
