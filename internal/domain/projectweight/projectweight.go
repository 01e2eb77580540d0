// Package projectweight derives recency-weighted importance scores per
// project from money events.
package projectweight

import (
	"context"
	"time"

	"github.com/okian/crewcast/internal/domain/model"
)

// Default weighting configuration constants.
const (
	defaultWindowWeeks = 12
	daysPerWeek        = 7
	hoursPerDay        = 24
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithWindowWeeks sets the trailing window, in weeks, used to filter
// events before weighting.
func WithWindowWeeks(weeks int) Option {
	return func(c *Calculator) {
		if weeks > 0 {
			c.windowWeeks = weeks
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

// Calculator computes normalized project weights over a trailing window.
type Calculator struct {
	windowWeeks int
	now         func() time.Time
}

// New creates a project weight calculator with configuration options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		windowWeeks: defaultWindowWeeks,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute filters events to the trailing window (events with a zero date
// always pass, matching sources that carry no date column), groups the
// remainder by project, and normalizes each project's amount sum by the
// grand total. A zero grand total assigns every project weight 1.0 as a
// neutral fallback; this is deliberate policy, not an error.
func (c *Calculator) Compute(_ context.Context, events []model.MoneyEvent) map[string]float64 {
	cutoff := c.now().Add(-time.Duration(c.windowWeeks) * daysPerWeek * hoursPerDay * time.Hour)

	sums := make(map[string]float64)
	var grand float64
	for _, e := range events {
		if !e.Date.IsZero() && e.Date.Before(cutoff) {
			continue
		}
		project := e.ProjectID
		if project == "" {
			project = model.UnassignedProject
		}
		sums[project] += e.Amount
		grand += e.Amount
	}

	weights := make(map[string]float64, len(sums))
	for project, sum := range sums {
		if grand > 0 {
			weights[project] = sum / grand
		} else {
			weights[project] = 1.0
		}
	}
	return weights
}
