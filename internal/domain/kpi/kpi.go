// Package kpi computes rolling-window aggregate KPIs over money and burn
// events.
package kpi

import (
	"context"
	"time"

	"github.com/okian/crewcast/internal/domain/model"
)

// Default rolling-window configuration constants.
const (
	defaultWindowDays   = 30
	defaultFallbackRate = 1.0
	hoursPerDay         = 24
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithWindowDays sets the trailing window, in days, used to filter money
// events before aggregation.
func WithWindowDays(days int) Option {
	return func(c *Calculator) {
		if days > 0 {
			c.windowDays = days
		}
	}
}

// WithFallbackRate sets the synthetic burn rate used when the window holds
// no minutes at all.
func WithFallbackRate(rate float64) Option {
	return func(c *Calculator) {
		if rate > 0 {
			c.fallbackRate = rate
		}
	}
}

// WithClock overrides the time source. Tests use a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// Calculator aggregates windowed mint, burn and velocity figures.
type Calculator struct {
	windowDays   int
	fallbackRate float64
	now          func() time.Time
}

// New creates a KPI calculator with configuration options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		windowDays:   defaultWindowDays,
		fallbackRate: defaultFallbackRate,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute aggregates money events inside the trailing window (zero-dated
// events always pass) into mint and total minutes, then derives burn from
// the burn events: rows carrying an amount contribute it directly, rows
// carrying only minutes are costed at the window's average mint rate.
// Degenerate inputs degrade to zeros, never to errors:
//
//	net        = mint - burn
//	cost_ratio = burn / mint   (0 when mint is 0)
//	velocity   = mint / total_minutes (0 when total_minutes is 0)
func (c *Calculator) Compute(_ context.Context, money []model.MoneyEvent, burns []model.BurnEvent) model.KPIReport {
	cutoff := c.now().Add(-time.Duration(c.windowDays) * hoursPerDay * time.Hour)

	var mint, totalMinutes float64
	for _, e := range money {
		if !e.Date.IsZero() && e.Date.Before(cutoff) {
			continue
		}
		mint += e.Amount
		if e.Minutes > 0 {
			totalMinutes += e.Minutes
		} else {
			// Rows without a duration still count one minute so a
			// minute-denominated source cannot divide by zero.
			totalMinutes += 1.0
		}
	}

	avgRate := c.fallbackRate
	if totalMinutes > 0 {
		avgRate = mint / totalMinutes
	}

	var burn float64
	for _, b := range burns {
		switch {
		case b.Amount > 0:
			burn += b.Amount
		case b.Minutes > 0:
			burn += b.Minutes * avgRate
		}
	}

	report := model.KPIReport{
		Mint:         mint,
		Burn:         burn,
		Net:          mint - burn,
		TotalMinutes: totalMinutes,
	}
	if mint > 0 {
		report.CostRatio = burn / mint
	}
	if totalMinutes > 0 {
		report.Velocity = mint / totalMinutes
	}
	return report
}
