package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
	"github.com/naotimes/naotimes-cli/internal/state"
)

const (
	defaultPollInterval = 15 * time.Second
	maxBackoff          = 2 * time.Minute
)

// ProjectLister is the part of the gateway the poller needs.
type ProjectLister interface {
	FetchProjects(ctx context.Context) ([]naotimes.ProjectSummary, error)
}

// StartPoller launches a background goroutine that refreshes the store. The
// wait between polls doubles after each consecutive failure. It returns
// immediately.
func StartPoller(ctx context.Context, store *state.Store, gw ProjectLister, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, gw, logger)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff returns the wait before the next poll.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for range failures {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, gw ProjectLister, logger *slog.Logger) {
	projects, err := gw.FetchProjects(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.Update(nil, err)
		if logger != nil {
			logger.Warn("project poll failed", "error", err, "failures", store.Snapshot().ConsecutiveFailures)
		}
		return
	}
	store.Update(projects, nil)
}
