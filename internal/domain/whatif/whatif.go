// Package whatif applies hypothetical roster and allocation edits to
// working copies, leaving the source of truth untouched.
package whatif

import (
	"context"

	"github.com/okian/crewcast/internal/domain/model"
)

// Minimum minutes an event can be floored to by an allocation edit.
const minEventMinutes = 1.0

// Projector produces edited working copies of the roster and event set.
type Projector struct{}

// New creates a projector.
func New() *Projector {
	return &Projector{}
}

// ApplySwap removes out from the roster copy and appends in unless
// already present. Applying the identical swap twice is a no-op on the
// second application, because out is already absent.
func (p *Projector) ApplySwap(_ context.Context, roster []string, swap model.SwapPayload) []string {
	out := make([]string, 0, len(roster)+1)
	present := false
	for _, id := range roster {
		if id == swap.Out {
			continue
		}
		if id == swap.In {
			present = true
		}
		out = append(out, id)
	}
	if !present && swap.In != "" {
		out = append(out, swap.In)
	}
	return out
}

// ApplyAlloc returns a deep copy of the event set with minutes perturbed.
// For each event, the deltas of every tagged participant named in the
// alloc list are summed, divided evenly across the event's tag count, and
// added to the event's minutes, floored at one minute. Amounts are never
// touched, so per-event rates shift with the new minutes. Untagged events
// pass through unchanged, as do events whose summed deltas cancel to
// exactly zero: a net-zero perturbation leaves the event as recorded
// rather than forcing it through the floor.
func (p *Projector) ApplyAlloc(_ context.Context, events []model.MoneyEvent, allocs []model.AllocDelta) []model.MoneyEvent {
	deltas := make(map[string]float64, len(allocs))
	for _, a := range allocs {
		deltas[a.PersonID] += a.DeltaMinutes
	}

	out := model.CloneMoneyEvents(events)
	for i := range out {
		n := len(out[i].Participants)
		if n == 0 {
			continue
		}
		var sum float64
		for _, id := range out[i].Participants {
			sum += deltas[id]
		}
		if sum == 0 {
			continue
		}
		minutes := out[i].Minutes + sum/float64(n)
		if minutes < minEventMinutes {
			minutes = minEventMinutes
		}
		out[i].Minutes = minutes
	}
	return out
}
