package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultRefreshInterval is the default tenant directory refresh period.
const DefaultRefreshInterval = 120 * time.Second

// Refresher drives periodic cache refreshes on a fixed interval. Ticks
// are independent: a slow or failed refresh does not delay the next
// tick, and overlapping refreshes are resolved by the cache's
// generation check.
type Refresher struct {
	cache    *Cache
	interval time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   zerolog.Logger
}

// NewRefresher creates a refresher for the given cache. A zero interval
// selects DefaultRefreshInterval; timeout bounds each refresh attempt.
func NewRefresher(cache *Cache, interval, timeout time.Duration, logger zerolog.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{
		cache:    cache,
		interval: interval,
		timeout:  timeout,
		cron:     cron.New(),
		logger:   logger.With().Str("component", "tenant_refresher").Logger(),
	}
}

// Start performs an immediate refresh to warm the cache, then schedules
// periodic refreshes. The initial refresh failure is logged but not
// fatal; the cache serves an empty snapshot until a refresh succeeds.
func (r *Refresher) Start(ctx context.Context) error {
	if err := r.refreshOnce(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("initial tenant directory refresh failed")
	}

	spec := fmt.Sprintf("@every %s", r.interval)
	if _, err := r.cron.AddFunc(spec, func() {
		if err := r.refreshOnce(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("scheduled tenant directory refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule tenant directory refresh: %w", err)
	}

	r.cron.Start()
	r.logger.Info().Dur("interval", r.interval).Msg("tenant directory refresher started")
	return nil
}

// Stop halts the schedule and waits for any running refresh to return.
func (r *Refresher) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Info().Msg("tenant directory refresher stopped")
}

func (r *Refresher) refreshOnce(ctx context.Context) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.cache.Refresh(ctx)
}
