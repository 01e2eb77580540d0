package whatif_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crewcast/internal/domain/model"
	"github.com/okian/crewcast/internal/domain/whatif"
)

func TestProjector_ApplySwap(t *testing.T) {
	Convey("Given a projector and a roster", t, func() {
		p := whatif.New()
		ctx := context.Background()
		roster := []string{"p1", "p2", "p3"}

		Convey("When one member is swapped for a newcomer", func() {
			out := p.ApplySwap(ctx, roster, model.SwapPayload{Out: "p2", In: "p4"})

			Convey("Then the outgoing member is removed and the newcomer appended", func() {
				So(out, ShouldResemble, []string{"p1", "p3", "p4"})
			})

			Convey("And the source roster is untouched", func() {
				So(roster, ShouldResemble, []string{"p1", "p2", "p3"})
			})
		})

		Convey("When the same swap is applied twice", func() {
			once := p.ApplySwap(ctx, roster, model.SwapPayload{Out: "p2", In: "p4"})
			twice := p.ApplySwap(ctx, once, model.SwapPayload{Out: "p2", In: "p4"})

			Convey("Then the second application is a no-op", func() {
				So(twice, ShouldResemble, once)
			})
		})

		Convey("When the incoming member is already on the roster", func() {
			out := p.ApplySwap(ctx, roster, model.SwapPayload{Out: "p1", In: "p3"})

			Convey("Then no duplicate is appended", func() {
				So(out, ShouldResemble, []string{"p2", "p3"})
			})
		})

		Convey("When the incoming member is empty", func() {
			out := p.ApplySwap(ctx, roster, model.SwapPayload{Out: "p1"})

			Convey("Then the roster only shrinks", func() {
				So(out, ShouldResemble, []string{"p2", "p3"})
			})
		})
	})
}

func TestProjector_ApplyAlloc(t *testing.T) {
	Convey("Given a projector and an event set", t, func() {
		p := whatif.New()
		ctx := context.Background()
		events := []model.MoneyEvent{
			{EventID: "e1", Amount: 100, Minutes: 10, Participants: []string{"p1", "p2"}},
			{EventID: "e2", Amount: 50, Minutes: 5, Participants: []string{"p3"}},
			{EventID: "e3", Amount: 30, Minutes: 3},
		}

		Convey("When a positive delta targets one participant", func() {
			out := p.ApplyAlloc(ctx, events, []model.AllocDelta{{PersonID: "p1", DeltaMinutes: 10}})

			Convey("Then the delta is spread across the event's tag count", func() {
				// 10 delta / 2 tags = +5 minutes
				So(out[0].Minutes, ShouldAlmostEqual, 15.0)
			})

			Convey("And events without that participant are unchanged", func() {
				So(out[1].Minutes, ShouldAlmostEqual, 5.0)
				So(out[2].Minutes, ShouldAlmostEqual, 3.0)
			})

			Convey("And no amount moves", func() {
				var before, after float64
				for i := range events {
					before += events[i].Amount
					after += out[i].Amount
				}
				So(after, ShouldAlmostEqual, before)
			})

			Convey("And the source events are untouched", func() {
				So(events[0].Minutes, ShouldAlmostEqual, 10.0)
			})
		})

		Convey("When a large negative delta would zero the minutes", func() {
			out := p.ApplyAlloc(ctx, events, []model.AllocDelta{{PersonID: "p3", DeltaMinutes: -100}})

			Convey("Then minutes floor at one", func() {
				So(out[1].Minutes, ShouldEqual, 1.0)
			})
		})

		Convey("When the deltas on an event cancel to zero", func() {
			tiny := []model.MoneyEvent{
				{EventID: "e4", Amount: 10, Minutes: 0.5, Participants: []string{"p1", "p2"}},
			}
			out := p.ApplyAlloc(ctx, tiny, []model.AllocDelta{
				{PersonID: "p1", DeltaMinutes: 12},
				{PersonID: "p2", DeltaMinutes: -12},
			})

			Convey("Then the event keeps its recorded minutes, below the floor", func() {
				So(out[0].Minutes, ShouldAlmostEqual, 0.5)
			})
		})

		Convey("When the alloc list is empty", func() {
			out := p.ApplyAlloc(ctx, events, nil)

			Convey("Then every event passes through unchanged", func() {
				So(out, ShouldResemble, events)
			})
		})
	})
}
