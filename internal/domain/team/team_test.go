package team_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crewcast/internal/domain/model"
	"github.com/okian/crewcast/internal/domain/synergy"
	"github.com/okian/crewcast/internal/domain/team"
)

func TestScorer_Score(t *testing.T) {
	Convey("Given a scorer and per-person, pair and group scores", t, func() {
		scorer := team.NewScorer()
		ctx := context.Background()
		in := team.Scores{
			Person: map[string]float64{"p1": 1.0, "p2": 2.0, "p3": 3.0},
			Pair: map[synergy.PairKey]float64{
				synergy.NewPairKey("p1", "p2"): 0.5,
				synergy.NewPairKey("p2", "p3"): 1.5,
			},
			Group: map[synergy.GroupKey]float64{
				synergy.NewGroupKey([]string{"p1", "p2", "p3"}): 2.0,
			},
		}

		Convey("When a full team is scored", func() {
			score := scorer.Score(ctx, []string{"p1", "p2", "p3"}, in)

			Convey("Then all three components sum", func() {
				// 6.0 individual + 2.0 pairs + 2.0 group
				So(score, ShouldAlmostEqual, 10.0)
			})
		})

		Convey("When member order is shuffled", func() {
			a := scorer.Score(ctx, []string{"p3", "p1", "p2"}, in)
			b := scorer.Score(ctx, []string{"p1", "p2", "p3"}, in)

			Convey("Then the score is order independent", func() {
				So(a, ShouldAlmostEqual, b)
			})
		})

		Convey("When the team is a subset of a scored group", func() {
			score := scorer.Score(ctx, []string{"p1", "p2"}, in)

			Convey("Then the group component does not apply", func() {
				// 3.0 individual + 0.5 pair, exact group match only
				So(score, ShouldAlmostEqual, 3.5)
			})
		})

		Convey("When the team is empty", func() {
			So(scorer.Score(ctx, nil, in), ShouldEqual, 0.0)
		})
	})
}

func TestSearch_Best(t *testing.T) {
	Convey("Given a best-team search", t, func() {
		ctx := context.Background()

		Convey("When the pool is smaller than the team size", func() {
			search := team.NewSearch(team.WithPoolSize(3), team.WithTeamSize(5))
			in := team.Scores{
				Person: map[string]float64{"p1": 3.0, "p2": 2.0, "p3": 1.0},
			}
			members, score := search.Best(ctx, in)

			Convey("Then the whole pool comes back with score zero", func() {
				So(members, ShouldResemble, []string{"p1", "p2", "p3"})
				So(score, ShouldEqual, 0.0)
			})
		})

		Convey("When pair synergy outweighs individual scores", func() {
			search := team.NewSearch(team.WithPoolSize(4), team.WithTeamSize(2))
			in := team.Scores{
				Person: map[string]float64{"p1": 5.0, "p2": 4.0, "p3": 1.0, "p4": 1.0},
				Pair: map[synergy.PairKey]float64{
					synergy.NewPairKey("p3", "p4"): 100.0,
				},
			}
			members, score := search.Best(ctx, in)

			Convey("Then the synergistic pair wins the search", func() {
				So(members, ShouldResemble, []string{"p3", "p4"})
				So(score, ShouldAlmostEqual, 102.0)
			})
		})

		Convey("When candidates tie on score", func() {
			search := team.NewSearch(team.WithPoolSize(2), team.WithTeamSize(2))
			in := team.Scores{
				Person: map[string]float64{"b": 1.0, "a": 1.0, "c": 1.0},
			}
			members, _ := search.Best(ctx, in)

			Convey("Then the pool is pruned deterministically by ID", func() {
				So(members, ShouldResemble, []string{"a", "b"})
			})
		})

		Convey("When there are no candidates at all", func() {
			search := team.NewSearch()
			members, score := search.Best(ctx, team.Scores{})

			Convey("Then the result is empty with score zero", func() {
				So(members, ShouldBeEmpty)
				So(score, ShouldEqual, 0.0)
			})
		})

		Convey("When searching from baseline rates", func() {
			search := team.NewSearch(team.WithPoolSize(3), team.WithTeamSize(2))
			baselines := map[string]model.PersonBaseline{
				"p1": {PersonID: "p1", Rate: 9.0},
				"p2": {PersonID: "p2", Rate: 7.0},
				"p3": {PersonID: "p3", Rate: 1.0},
			}
			members, score := search.BestFromBaselines(ctx, baselines, team.Scores{})

			Convey("Then rates serve as the individual scores", func() {
				So(members, ShouldResemble, []string{"p1", "p2"})
				So(score, ShouldAlmostEqual, 16.0)
			})
		})
	})
}
