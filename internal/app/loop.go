package app

import (
	"log/slog"
	"time"
)

// Ticker is a running periodic clock
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker firing every period
type TickerFactory func(period time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker is the TickerFactory backed by time.Ticker
func NewRealTicker(period time.Duration) Ticker {
	return realTicker{t: time.NewTicker(period)}
}

// LoopDriver owns the simulation ticker. At most one ticker exists at a time.
// It is used only from the session goroutine and is not safe for concurrent use.
type LoopDriver struct {
	period  time.Duration
	factory TickerFactory
	ticker  Ticker
	logger  *slog.Logger
}

// NewLoopDriver creates a stopped driver
func NewLoopDriver(period time.Duration, factory TickerFactory, logger *slog.Logger) *LoopDriver {
	if factory == nil {
		factory = NewRealTicker
	}
	return &LoopDriver{
		period:  period,
		factory: factory,
		logger:  logger,
	}
}

// Start begins ticking. A running ticker is stopped first.
func (d *LoopDriver) Start() {
	d.Stop()
	d.ticker = d.factory(d.period)
	d.logger.Debug("loop started", "period", d.period)
}

// Stop halts ticking. Stopping a stopped driver does nothing.
func (d *LoopDriver) Stop() {
	if d.ticker == nil {
		return
	}
	d.ticker.Stop()
	d.ticker = nil
	d.logger.Debug("loop stopped")
}

// Running reports whether a ticker is active
func (d *LoopDriver) Running() bool {
	return d.ticker != nil
}

// C returns the tick channel, or nil while stopped so a select never fires on it
func (d *LoopDriver) C() <-chan time.Time {
	if d.ticker == nil {
		return nil
	}
	return d.ticker.C()
}
