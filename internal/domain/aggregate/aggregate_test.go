package aggregate_test

import (
	"testing"

	"github.com/okian/contestboard/internal/domain/aggregate"
	"github.com/okian/contestboard/internal/domain/identity"
	"github.com/okian/contestboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func contest(id string, entries ...model.RankEntry) model.ContestData {
	return model.ContestData{ContestID: id, Ranklist: entries}
}

func entry(team int, name string, rank, solved int, penalty float64) model.RankEntry {
	return model.RankEntry{TeamID: team, DisplayName: name, Rank: rank, Solved: solved, PenaltySeconds: penalty}
}

func byID(rows []aggregate.Row) map[string]aggregate.Row {
	out := make(map[string]aggregate.Row, len(rows))
	for _, r := range rows {
		out[r.TeamID] = r
	}
	return out
}

func TestBuild(t *testing.T) {
	c1 := contest("1", entry(1, "Alpha", 1, 3, 300), entry(2, "Beta", 2, 2, 100))
	c2 := contest("2", entry(1, "Alpha", 2, 1, 50), entry(2, "Beta B", 1, 2, 400))
	c3 := contest("3", entry(1, "Alpha", 1, 2, 10))
	c3.Participants = map[int]model.Participant{9: {Handle: "gamma"}}
	groups := identity.ParseTeamGroups("Alpha, (Beta, Beta B), Gamma")

	Convey("Given three contests and three teams", t, func() {
		rows := aggregate.Build([]model.ContestData{c1, c2, c3}, groups)

		Convey("Then totals sum over ranklist matches only", func() {
			got := byID(rows)
			So(got["team-group-0"].Solved, ShouldEqual, 6)
			So(got["team-group-0"].PenaltySeconds, ShouldEqual, 360)
			So(got["team-group-0"].Appearances, ShouldEqual, 3)
			So(got["team-group-1"].Solved, ShouldEqual, 4)
			So(got["team-group-1"].PenaltySeconds, ShouldEqual, 500)
			So(got["team-group-1"].Appearances, ShouldEqual, 2)
		})

		Convey("And teams without appearances stay with zero totals", func() {
			So(rows, ShouldHaveLength, 3)
			last := rows[2]
			So(last.DisplayName, ShouldEqual, "Gamma")
			So(last.Solved, ShouldEqual, 0)
			So(last.Appearances, ShouldEqual, 0)
			So(last.Rank, ShouldEqual, 3)
		})

		Convey("And rows are ordered by solved then penalty", func() {
			So(rows[0].DisplayName, ShouldEqual, "Alpha")
			So(rows[0].Rank, ShouldEqual, 1)
			So(rows[1].DisplayName, ShouldEqual, "Beta")
			So(rows[1].Rank, ShouldEqual, 2)
		})
	})

	Convey("Given teams tied on solved and penalty", t, func() {
		c := contest("1", entry(1, "zeta", 1, 1, 100), entry(2, "Eta", 1, 1, 100), entry(3, "theta", 3, 0, 0))
		rows := aggregate.Build([]model.ContestData{c}, identity.ParseTeamGroups("zeta, Eta, theta"))

		Convey("Then names order the tie but ranks are shared", func() {
			So(rows[0].DisplayName, ShouldEqual, "Eta")
			So(rows[1].DisplayName, ShouldEqual, "zeta")
			So(rows[0].Rank, ShouldEqual, 1)
			So(rows[1].Rank, ShouldEqual, 1)
			So(rows[2].Rank, ShouldEqual, 3)
		})
	})

	Convey("Given totals extended one contest at a time", t, func() {
		partial := aggregate.NewTotals(groups)
		partial.Add(c1, groups)
		partial.Add(c2, groups)
		partial.Add(c3, groups)
		direct := aggregate.Build([]model.ContestData{c3, c1, c2}, groups)

		Convey("Then sums match aggregating everything at once", func() {
			inc := byID(partial.Rows())
			for id, row := range byID(direct) {
				So(inc[id].Solved, ShouldEqual, row.Solved)
				So(inc[id].PenaltySeconds, ShouldEqual, row.PenaltySeconds)
				So(inc[id].Appearances, ShouldEqual, row.Appearances)
			}
		})
	})

	Convey("Given no contests", t, func() {
		rows := aggregate.Build(nil, groups)
		So(rows, ShouldHaveLength, 3)
		for _, r := range rows {
			So(r.Rank, ShouldEqual, 1)
		}
	})
}
