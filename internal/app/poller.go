package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dblens/console/internal/dblens"
	"github.com/dblens/console/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// Poller refreshes the store from the API. After a failed round it waits
// exponentially longer before the next attempt.
type Poller struct {
	store    *state.Store
	fetcher  dblens.Fetcher
	interval time.Duration
	logger   *zap.Logger
	trigger  chan struct{}
}

// NewPoller builds a Poller. A non-positive interval uses the default.
func NewPoller(store *state.Store, fetcher dblens.Fetcher, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		store:    store,
		fetcher:  fetcher,
		interval: interval,
		logger:   logger.Named("poller"),
		trigger:  make(chan struct{}, 1),
	}
}

// RefreshNow asks the running loop to poll immediately. It never blocks;
// requests made while one is already pending are merged.
func (p *Poller) RefreshNow() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		case <-p.trigger:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		p.refresh(ctx)
		if ctx.Err() != nil {
			return nil
		}
		timer.Reset(calculateBackoff(p.store.Snapshot().ConsecutiveFailures, p.interval))
	}
}

// refresh fetches health, stats and connections concurrently and records the
// combined result. Any failure fails the whole round.
func (p *Poller) refresh(ctx context.Context) {
	var poll state.Poll
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := p.fetcher.FetchHealth(gctx)
		poll.Health = h
		return err
	})
	g.Go(func() error {
		s, err := p.fetcher.FetchDashboardStats(gctx)
		poll.Stats = s
		return err
	})
	g.Go(func() error {
		c, err := p.fetcher.ListConnections(gctx)
		poll.Connections = c
		return err
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.store.Update(state.Poll{}, err)
		p.logger.Warn("poll failed",
			zap.Error(err),
			zap.Int("failures", p.store.Snapshot().ConsecutiveFailures),
			zap.Bool("unauthorized", dblens.IsUnauthorized(err)),
		)
		return
	}
	p.store.Update(poll, nil)
	p.logger.Debug("poll ok", zap.Int("connections", len(poll.Connections)))
}

// calculateBackoff returns base doubled once per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
