package identity_test

import (
	"testing"

	"github.com/okian/contestboard/internal/domain/identity"
	"github.com/okian/contestboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given spelling variants of one team", t, func() {
		variants := []string{"Team_Alpha", "team alpha", "TEAM-ALPHA", " team.alpha! "}

		Convey("Then they normalize to the same key", func() {
			for _, v := range variants {
				So(identity.Normalize(v), ShouldEqual, "teamalpha")
			}
		})

		Convey("And normalizing twice changes nothing", func() {
			for _, v := range variants {
				once := identity.Normalize(v)
				So(identity.Normalize(once), ShouldEqual, once)
			}
		})
	})

	Convey("Given names without ASCII letters or digits", t, func() {
		So(identity.Normalize(""), ShouldEqual, "")
		So(identity.Normalize("---"), ShouldEqual, "")
		So(identity.Normalize("Équipe 9"), ShouldEqual, "quipe9")
	})
}

func TestSplitTeamInput(t *testing.T) {
	Convey("Given a mix of plain and parenthesized names", t, func() {
		tokens := identity.SplitTeamInput("Alice, (Bob, Bobby), Carol")

		Convey("Then commas inside parentheses do not split", func() {
			So(tokens, ShouldResemble, []string{"Alice", "(Bob, Bobby)", "Carol"})
		})
	})

	Convey("Given an opening parenthesis after text", t, func() {
		So(identity.SplitTeamInput("x(y, z)"), ShouldResemble, []string{"x", "(y, z)"})
	})

	Convey("Given unbalanced parentheses", t, func() {
		Convey("A stray closing parenthesis keeps depth at zero", func() {
			So(identity.SplitTeamInput("A), B"), ShouldResemble, []string{"A)", "B"})
		})
		Convey("An unclosed group swallows the rest of the input", func() {
			So(identity.SplitTeamInput("(A, B"), ShouldResemble, []string{"(A, B"})
		})
	})

	Convey("Given blank input", t, func() {
		So(identity.SplitTeamInput(" , ,"), ShouldBeEmpty)
	})
}

func TestParseTeamGroups(t *testing.T) {
	Convey("Given team input with an alias group", t, func() {
		groups := identity.ParseTeamGroups("Alice, (Bob, Bobby, ), Carol")

		Convey("Then each token becomes one group", func() {
			So(groups, ShouldHaveLength, 3)
			So(groups[0].ID, ShouldEqual, "team-group-0")
			So(groups[0].Aliases, ShouldResemble, []string{"Alice"})
			So(groups[1].ID, ShouldEqual, "team-group-1")
			So(groups[1].DisplayName, ShouldEqual, "Bob")
			So(groups[1].Aliases, ShouldResemble, []string{"Bob", "Bobby"})
			So(groups[1].NormalizedAliases, ShouldResemble, []string{"bob", "bobby"})
			So(groups[2].DisplayName, ShouldEqual, "Carol")
		})
	})

	Convey("Given an empty parenthesized token", t, func() {
		groups := identity.ParseTeamGroups("(), Dave")
		So(groups, ShouldHaveLength, 1)
		So(groups[0].ID, ShouldEqual, "team-group-0")
		So(groups[0].DisplayName, ShouldEqual, "Dave")
	})
}

func sampleContest() ([]model.RankEntry, map[int]model.Participant) {
	ranklist := []model.RankEntry{
		{TeamID: 1, DisplayName: "Alpha", Handle: "alpha", Rank: 3, Solved: 1},
		{TeamID: 2, DisplayName: "Alpha B", Handle: "alpha_b", Rank: 1, Solved: 3, Aliases: []string{"Alpha B", "alpha_b"}},
		{TeamID: 4, DisplayName: "Unplaced", Rank: 0},
	}
	participants := map[int]model.Participant{
		1: {Handle: "alpha", DisplayName: "Alpha"},
		2: {Handle: "alpha_b", DisplayName: "Alpha B"},
		3: {Handle: "ghost_crew", DisplayName: "Ghost"},
		4: {Handle: "unplaced", DisplayName: "Unplaced"},
	}
	return ranklist, participants
}

func TestFindTeamRecord(t *testing.T) {
	Convey("Given a contest ranklist and participants", t, func() {
		ranklist, participants := sampleContest()

		Convey("When the name is on the ranklist under another spelling", func() {
			m, ok := identity.FindTeamRecord("ALPHA-b", ranklist, participants)
			So(ok, ShouldBeTrue)
			So(m.Placed(), ShouldBeTrue)
			So(m.Entry.TeamID, ShouldEqual, 2)
		})

		Convey("When only a registered participant matches", func() {
			m, ok := identity.FindTeamRecord("ghost crew", ranklist, participants)
			So(ok, ShouldBeTrue)
			So(m.Placed(), ShouldBeFalse)
			So(m.Participant.TeamID, ShouldEqual, 3)
		})

		Convey("When nothing matches", func() {
			_, ok := identity.FindTeamRecord("Nobody", ranklist, participants)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestFindBestGroupMatch(t *testing.T) {
	Convey("Given a contest ranklist and participants", t, func() {
		ranklist, participants := sampleContest()

		Convey("When several aliases are ranked the best placement wins", func() {
			g := identity.NewTeamGroup("g", []string{"Alpha", "Alpha B"})
			m := identity.FindBestGroupMatch(g, ranklist, participants)
			So(m.Entry.TeamID, ShouldEqual, 2)
			So(m.Alias, ShouldEqual, "Alpha B")
		})

		Convey("When the first hit has no rank a ranked hit replaces it", func() {
			g := identity.NewTeamGroup("g", []string{"Unplaced", "Alpha"})
			m := identity.FindBestGroupMatch(g, ranklist, participants)
			So(m.Entry.TeamID, ShouldEqual, 1)
			So(m.Alias, ShouldEqual, "Alpha")
		})

		Convey("When no alias is ranked the participant is the fallback", func() {
			g := identity.NewTeamGroup("g", []string{"Nobody", "Ghost"})
			m := identity.FindBestGroupMatch(g, ranklist, participants)
			So(m.Placed(), ShouldBeFalse)
			So(m.Participant, ShouldNotBeNil)
			So(m.Participant.TeamID, ShouldEqual, 3)
			So(m.Alias, ShouldEqual, "Ghost")
		})

		Convey("When nothing matches the match is empty", func() {
			g := identity.NewTeamGroup("g", []string{"Nobody"})
			m := identity.FindBestGroupMatch(g, ranklist, participants)
			So(m.Entry, ShouldBeNil)
			So(m.Participant, ShouldBeNil)
			So(m.Alias, ShouldEqual, "")
		})
	})
}

func TestSuggest(t *testing.T) {
	Convey("Given a contest with a team called Alpha Wolves", t, func() {
		ranklist := []model.RankEntry{{TeamID: 1, DisplayName: "Alpha Wolves", Rank: 1}}

		Convey("A near miss yields a suggestion", func() {
			s, ok := identity.Suggest("Alpha Wolfs", ranklist, nil)
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "Alpha Wolves")
		})

		Convey("A distant name yields none", func() {
			_, ok := identity.Suggest("Zebra", ranklist, nil)
			So(ok, ShouldBeFalse)
		})

		Convey("An exact match is not a suggestion", func() {
			_, ok := identity.Suggest("alpha_wolves", ranklist, nil)
			So(ok, ShouldBeFalse)
		})
	})
}
