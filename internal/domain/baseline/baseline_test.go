package baseline_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crewcast/internal/domain/baseline"
	"github.com/okian/crewcast/internal/domain/model"
)

func TestCalculator_Compute(t *testing.T) {
	Convey("Given a baseline calculator with min events 1", t, func() {
		calc := baseline.New(baseline.WithMinEvents(1))
		ctx := context.Background()

		Convey("When one event tags a single participant", func() {
			events := []model.MoneyEvent{
				{EventID: "e1", Amount: 120, Minutes: 60, Participants: []string{"p1"}},
			}
			baselines := calc.Compute(ctx, events)

			Convey("Then that participant receives the full amount and minutes", func() {
				So(baselines, ShouldContainKey, "p1")
				So(baselines["p1"].TotalAmount, ShouldEqual, 120.0)
				So(baselines["p1"].TotalMinute, ShouldEqual, 60.0)
				So(baselines["p1"].Rate, ShouldEqual, 2.0)
			})
		})

		Convey("When one event tags two participants", func() {
			events := []model.MoneyEvent{
				{EventID: "e1", Amount: 100, Minutes: 10, Participants: []string{"p1", "p2"}},
			}
			baselines := calc.Compute(ctx, events)

			Convey("Then both rates equal the event rate", func() {
				So(baselines["p1"].Rate, ShouldEqual, 5.0)
				So(baselines["p2"].Rate, ShouldEqual, 5.0)
			})

			Convey("And the attributed totals sum back to the event totals", func() {
				So(baselines["p1"].TotalAmount+baselines["p2"].TotalAmount, ShouldAlmostEqual, 100.0)
				So(baselines["p1"].TotalMinute+baselines["p2"].TotalMinute, ShouldAlmostEqual, 10.0)
			})
		})

		Convey("When an event has no participants", func() {
			events := []model.MoneyEvent{
				{EventID: "e1", Amount: 100, Minutes: 10},
			}

			Convey("Then it is skipped and the result is empty", func() {
				So(calc.Compute(ctx, events), ShouldBeEmpty)
			})
		})

		Convey("When there are no events at all", func() {
			Convey("Then the result is empty, not an error", func() {
				So(calc.Compute(ctx, nil), ShouldBeEmpty)
			})
		})

		Convey("When a person's total minutes are zero", func() {
			events := []model.MoneyEvent{
				{EventID: "e1", Amount: 100, Minutes: 0, Participants: []string{"p1"}},
			}

			Convey("Then no baseline row is emitted for them", func() {
				So(calc.Compute(ctx, events), ShouldNotContainKey, "p1")
			})
		})
	})

	Convey("Given a baseline calculator with min events 3", t, func() {
		calc := baseline.New(baseline.WithMinEvents(3))
		ctx := context.Background()

		Convey("When a person appears in only two events", func() {
			events := []model.MoneyEvent{
				{EventID: "e1", Amount: 50, Minutes: 5, Participants: []string{"p1"}},
				{EventID: "e2", Amount: 50, Minutes: 5, Participants: []string{"p1"}},
				{EventID: "e3", Amount: 50, Minutes: 5, Participants: []string{"p2"}},
				{EventID: "e4", Amount: 50, Minutes: 5, Participants: []string{"p2"}},
				{EventID: "e5", Amount: 60, Minutes: 5, Participants: []string{"p2"}},
			}
			baselines := calc.Compute(ctx, events)

			Convey("Then they are filtered out while qualifying people remain", func() {
				So(baselines, ShouldNotContainKey, "p1")
				So(baselines, ShouldContainKey, "p2")
				So(baselines["p2"].EventCount, ShouldEqual, 3)
			})
		})
	})
}

func TestCalculator_Options(t *testing.T) {
	Convey("Given option handling", t, func() {
		Convey("When no options are passed", func() {
			So(baseline.New().MinEvents(), ShouldEqual, 3)
		})

		Convey("When a non-positive threshold is passed", func() {
			So(baseline.New(baseline.WithMinEvents(0)).MinEvents(), ShouldEqual, 3)
		})
	})
}
