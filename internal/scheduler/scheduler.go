package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Every runs task right away and then on each tick until ctx is done.
// Errors are logged, never fatal.
func Every(ctx context.Context, log *zap.Logger, interval time.Duration, name string, task Task) {
	log = log.With(zap.String("task", name))

	run := func() {
		if err := task(ctx); err != nil {
			log.Error("scheduled task failed", zap.Error(err))
		}
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
