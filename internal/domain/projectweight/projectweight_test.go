package projectweight_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crewcast/internal/domain/model"
	"github.com/okian/crewcast/internal/domain/projectweight"
)

func TestCalculator_Compute(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	fixed := func() time.Time { return now }

	Convey("Given a weight calculator with a fixed clock", t, func() {
		calc := projectweight.New(
			projectweight.WithWindowWeeks(12),
			projectweight.WithClock(fixed),
		)
		ctx := context.Background()

		Convey("When events span two projects inside the window", func() {
			events := []model.MoneyEvent{
				{EventID: "e1", Date: now.AddDate(0, 0, -7), Amount: 300, ProjectID: "alpha"},
				{EventID: "e2", Date: now.AddDate(0, 0, -14), Amount: 100, ProjectID: "beta"},
			}
			weights := calc.Compute(ctx, events)

			Convey("Then each weight is the project share of the grand total", func() {
				So(weights["alpha"], ShouldAlmostEqual, 0.75)
				So(weights["beta"], ShouldAlmostEqual, 0.25)
			})

			Convey("And weights sum to 1", func() {
				var total float64
				for _, w := range weights {
					total += w
				}
				So(total, ShouldAlmostEqual, 1.0)
			})
		})

		Convey("When an event falls outside the trailing window", func() {
			events := []model.MoneyEvent{
				{EventID: "e1", Date: now.AddDate(-1, 0, 0), Amount: 500, ProjectID: "alpha"},
				{EventID: "e2", Date: now.AddDate(0, 0, -1), Amount: 100, ProjectID: "beta"},
			}
			weights := calc.Compute(ctx, events)

			Convey("Then it is excluded from the sums", func() {
				So(weights, ShouldNotContainKey, "alpha")
				So(weights["beta"], ShouldAlmostEqual, 1.0)
			})
		})

		Convey("When an event carries no date", func() {
			events := []model.MoneyEvent{
				{EventID: "e1", Amount: 100, ProjectID: "alpha"},
			}

			Convey("Then it always passes the window filter", func() {
				So(calc.Compute(ctx, events)["alpha"], ShouldAlmostEqual, 1.0)
			})
		})

		Convey("When an event carries no project", func() {
			events := []model.MoneyEvent{
				{EventID: "e1", Date: now, Amount: 100},
			}

			Convey("Then it lands in the unassigned bucket", func() {
				So(calc.Compute(ctx, events), ShouldContainKey, model.UnassignedProject)
			})
		})

		Convey("When the grand total is zero", func() {
			events := []model.MoneyEvent{
				{EventID: "e1", Date: now, Amount: 0, ProjectID: "alpha"},
				{EventID: "e2", Date: now, Amount: 0, ProjectID: "beta"},
			}
			weights := calc.Compute(ctx, events)

			Convey("Then every project gets the neutral weight 1.0", func() {
				So(weights["alpha"], ShouldEqual, 1.0)
				So(weights["beta"], ShouldEqual, 1.0)
			})
		})

		Convey("When there are no events", func() {
			So(calc.Compute(ctx, nil), ShouldBeEmpty)
		})
	})
}
