package repository_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crewcast/internal/adapters/repository"
	"github.com/okian/crewcast/internal/domain/model"
)

func sampleRecord() model.SessionRecord {
	return model.SessionRecord{
		Team: []string{"p1", "p2"},
		Nodes: map[string]model.NodeMeta{
			"p1": {X: 10, Y: 20, LabelValue: 5.0},
			"p2": {X: 30, Y: 40, LabelValue: 3.5},
		},
		LastKPI: model.KPIReport{Mint: 100, Burn: 40, Net: 60, CostRatio: 0.4, Velocity: 2.0, TotalMinutes: 50},
		Meta:    map[string]string{"last_edit_kind": "SWAP"},
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty in-memory store", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()

		Convey("When loading before any save", func() {
			_, err := store.Load(ctx)

			Convey("Then the not-initialized condition is reported", func() {
				So(err, ShouldWrap, repository.ErrNotInitialized)
			})
		})

		Convey("When a record is saved and loaded", func() {
			So(store.Save(ctx, sampleRecord()), ShouldBeNil)
			got, err := store.Load(ctx)

			Convey("Then the round trip preserves every field", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, sampleRecord())
			})

			Convey("And mutating the loaded copy does not leak back", func() {
				So(err, ShouldBeNil)
				got.Team[0] = "mutated"
				again, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(again.Team[0], ShouldEqual, "p1")
			})
		})
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given an in-memory SQLite store", t, func() {
		store, err := repository.OpenSQLite(":memory:")
		So(err, ShouldBeNil)
		defer store.Close()
		ctx := context.Background()

		Convey("When loading before any save", func() {
			_, err := store.Load(ctx)

			Convey("Then the not-initialized condition is reported", func() {
				So(err, ShouldWrap, repository.ErrNotInitialized)
			})
		})

		Convey("When a record is saved and loaded", func() {
			So(store.Save(ctx, sampleRecord()), ShouldBeNil)
			got, err := store.Load(ctx)

			Convey("Then the round trip preserves every field", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, sampleRecord())
			})
		})

		Convey("When a second save overwrites the first", func() {
			So(store.Save(ctx, sampleRecord()), ShouldBeNil)
			updated := sampleRecord()
			updated.Team = []string{"p3"}
			So(store.Save(ctx, updated), ShouldBeNil)

			got, err := store.Load(ctx)

			Convey("Then only the latest record survives", func() {
				So(err, ShouldBeNil)
				So(got.Team, ShouldResemble, []string{"p3"})
			})
		})
	})
}
