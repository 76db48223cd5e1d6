package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/tally/internal/metrics"
)

// DefaultSOLPrice is assumed until the health check reports a price, and
// again whenever it fails.
const DefaultSOLPrice = 180.0

const defaultPriceInterval = 60 * time.Second

// Quote is the SOL/USD price the dashboard converts with.
type Quote struct {
	USD       float64
	Live      bool
	UpdatedAt time.Time
}

// PriceTracker keeps the SOL price current by polling the health check.
type PriceTracker struct {
	health   HealthChecker
	interval time.Duration
	log      *zap.Logger

	mu    sync.RWMutex
	quote Quote
}

// NewPriceTracker returns a tracker quoting DefaultSOLPrice until its first
// successful refresh.
func NewPriceTracker(health HealthChecker, interval time.Duration, logger *zap.Logger) *PriceTracker {
	if interval <= 0 {
		interval = defaultPriceInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceTracker{
		health:   health,
		interval: interval,
		log:      logger,
		quote:    Quote{USD: DefaultSOLPrice},
	}
}

// Quote returns the current price.
func (p *PriceTracker) Quote() Quote {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.quote
}

// Price returns the current SOL price in USD.
func (p *PriceTracker) Price() float64 {
	return p.Quote().USD
}

// Run refreshes immediately and then on every interval until ctx ends.
func (p *PriceTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Refresh(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Refresh fetches the price once. A failed fetch reverts to DefaultSOLPrice;
// a report without a price keeps the previous quote.
func (p *PriceTracker) Refresh(ctx context.Context) {
	if p.health == nil {
		return
	}
	report, err := p.health.FetchHealthCheck(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.log.Warn("sol price update failed; using default", zap.Error(err), zap.Float64("usd", DefaultSOLPrice))
		p.set(Quote{USD: DefaultSOLPrice})
		return
	}

	price := report.SOLPrice
	if price <= 0 && report.CampaignStatus != nil {
		price = report.CampaignStatus.CurrentSOLPrice
	}
	if price <= 0 {
		return
	}
	p.set(Quote{USD: price, Live: true, UpdatedAt: time.Now()})
	p.log.Debug("sol price updated", zap.Float64("usd", price))
}

func (p *PriceTracker) set(q Quote) {
	p.mu.Lock()
	p.quote = q
	p.mu.Unlock()
	metrics.SOLPrice.Set(q.USD)
}
