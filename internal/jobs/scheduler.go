// Package jobs runs background work next to the HTTP server: the pending
// report reminder sweep and system log pruning.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler runs named jobs on fixed intervals until their context ends.
type Scheduler struct {
	wg sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Every runs fn once per interval. The first run happens one interval after
// the call. A failing run is logged and the schedule continues.
func (s *Scheduler) Every(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		slog.Info("job scheduled", "job", name, "interval", interval.String())
		for {
			select {
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					slog.Error("job failed", "job", name, "action", name, "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Wait blocks until every scheduled job has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
