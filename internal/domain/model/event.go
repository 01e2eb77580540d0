// Package model contains domain records passed between layers.
package model

import "time"

// UnassignedProject buckets events that carry no project tag. Weighting
// and synergy partitioning must agree on this sentinel.
const UnassignedProject = "unassigned"

// MoneyEvent represents a revenue-producing record loaded at session start.
// Fields mirror the ingestion schema; defaults are resolved at the ingestion
// boundary so downstream calculators never probe for missing columns.
type MoneyEvent struct {
	EventID      string    // unique id for idempotency
	Date         time.Time // zero when the source row carried no date
	Amount       float64   // value produced, >= 0
	Minutes      float64   // duration spent, >= 0
	Participants []string  // ordered set of tagged person IDs, may be empty
	ProjectID    string    // optional project tag; empty means unassigned
}

// Clone returns a deep copy of the event. What-if projections operate on
// copies so the source event set is never mutated.
func (e MoneyEvent) Clone() MoneyEvent {
	out := e
	out.Participants = append([]string(nil), e.Participants...)
	return out
}

// CloneMoneyEvents deep-copies a slice of money events.
func CloneMoneyEvents(events []MoneyEvent) []MoneyEvent {
	out := make([]MoneyEvent, len(events))
	for i := range events {
		out[i] = events[i].Clone()
	}
	return out
}

// BurnEvent represents a cost-producing record. At least one of Amount or
// Minutes is set on a meaningful row; empty rows are dropped at ingestion.
type BurnEvent struct {
	EventID  string
	Date     time.Time // zero when the source row carried no date
	Amount   float64   // direct cost when the source tracks spend
	Minutes  float64   // time cost when the source tracks hours only
	PersonID string    // optional person tag
}

// PersonBaseline captures a person's historical value rate derived from
// money events.
type PersonBaseline struct {
	PersonID    string
	TotalAmount float64
	TotalMinute float64
	EventCount  int
	Rate        float64 // TotalAmount / TotalMinute
}

// KPIReport is the flat rolling-window aggregate produced per pipeline run.
type KPIReport struct {
	Mint         float64 `json:"mint"`
	Burn         float64 `json:"burn"`
	Net          float64 `json:"net"`
	CostRatio    float64 `json:"cost_ratio"`
	Velocity     float64 `json:"velocity"`
	TotalMinutes float64 `json:"total_minutes"`
}
