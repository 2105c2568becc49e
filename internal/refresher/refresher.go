// Package refresher keeps the listing snapshot cache warm on a cron
// schedule, so dashboard loads rarely wait on an upstream fetch.
package refresher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/market"
)

const refreshTimeout = 45 * time.Second

// Refresher runs periodic snapshot refreshes.
type Refresher struct {
	cron   *cron.Cron
	svc    *market.Service
	logger *slog.Logger
	ctx    context.Context
}

// New creates a Refresher bound to ctx; refreshes stop when ctx is canceled.
func New(ctx context.Context, svc *market.Service, logger *slog.Logger) *Refresher {
	return &Refresher{
		cron:   cron.New(cron.WithSeconds()),
		svc:    svc,
		logger: logger,
		ctx:    ctx,
	}
}

// Start registers the refresh job and starts the cron loop.
func (r *Refresher) Start(spec string) error {
	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}
	r.cron.Start()
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

// RunNow triggers one refresh immediately, used at startup to prime the cache.
func (r *Refresher) RunNow() {
	r.refresh()
}

func (r *Refresher) refresh() {
	if r.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(r.ctx, refreshTimeout)
	defer cancel()

	if err := r.svc.Refresh(ctx); err != nil {
		r.logger.Warn("snapshot refresh failed", "error", err)
		return
	}
	r.logger.Info("snapshot refreshed")
}
