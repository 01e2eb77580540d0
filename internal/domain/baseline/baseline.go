// Package baseline derives per-person value rates from money events.
package baseline

import (
	"context"

	"github.com/okian/crewcast/internal/domain/model"
)

// Default baseline configuration constants.
const (
	defaultMinEvents = 3
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithMinEvents sets the minimum number of attributed events a person
// needs before a baseline row is emitted for them.
func WithMinEvents(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.minEvents = n
		}
	}
}

// Calculator accumulates per-person attribution totals and emits one
// baseline row per qualifying person.
type Calculator struct {
	minEvents int
}

// New creates a baseline calculator with configuration options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		minEvents: defaultMinEvents,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MinEvents returns the configured minimum event count.
func (c *Calculator) MinEvents() int {
	return c.minEvents
}

// Compute splits each event's amount and minutes evenly across its tagged
// participants and aggregates per person. Events with no participants are
// skipped, not rejected. A row is emitted only for people with at least
// the minimum event count and positive total minutes; the rate is total
// amount over total minutes. No qualifying people yields an empty map.
func (c *Calculator) Compute(_ context.Context, events []model.MoneyEvent) map[string]model.PersonBaseline {
	acc := make(map[string]model.PersonBaseline)
	for _, e := range events {
		n := len(e.Participants)
		if n == 0 {
			continue
		}
		amountShare := e.Amount / float64(n)
		minuteShare := e.Minutes / float64(n)
		for _, id := range e.Participants {
			row := acc[id]
			row.PersonID = id
			row.TotalAmount += amountShare
			row.TotalMinute += minuteShare
			row.EventCount++
			acc[id] = row
		}
	}

	out := make(map[string]model.PersonBaseline, len(acc))
	for id, row := range acc {
		if row.EventCount < c.minEvents || row.TotalMinute <= 0 {
			continue
		}
		row.Rate = row.TotalAmount / row.TotalMinute
		out[id] = row
	}
	return out
}
