package ranklist_test

import (
	"errors"
	"testing"

	"github.com/okian/contestboard/internal/domain/model"
	"github.com/okian/contestboard/internal/domain/ranklist"
	. "github.com/smartystreets/goconvey/convey"
)

func sub(team int, problem string, accepted bool, offset float64) model.Submission {
	return model.Submission{TeamID: team, ProblemID: problem, Accepted: accepted, OffsetSeconds: offset}
}

func rawContest(meta string, participants map[int]model.Participant, subs ...model.Submission) model.ContestRaw {
	return model.ContestRaw{
		Participants:    participants,
		HasParticipants: true,
		Submissions:     subs,
		HasSubmissions:  true,
		Meta:            model.Metadata(meta),
	}
}

func TestBuild(t *testing.T) {
	Convey("Given the two-team contest with unbounded length", t, func() {
		raw := rawContest(`{}`, map[int]model.Participant{
			1: {Handle: "alice", DisplayName: "Alice A"},
			2: {Handle: "bob", DisplayName: "Bob B"},
		},
			sub(1, "A", true, 100),
			sub(2, "A", true, 50),
			sub(1, "B", false, 150),
			sub(1, "B", true, 200),
		)

		entries, err := ranklist.Build(raw, false)

		Convey("Then solved count dominates penalty", func() {
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 2)

			So(entries[0].TeamID, ShouldEqual, 1)
			So(entries[0].Rank, ShouldEqual, 1)
			So(entries[0].Solved, ShouldEqual, 2)
			So(entries[0].PenaltySeconds, ShouldEqual, 1500)
			So(entries[0].Submissions, ShouldEqual, 3)

			So(entries[1].TeamID, ShouldEqual, 2)
			So(entries[1].Rank, ShouldEqual, 2)
			So(entries[1].Solved, ShouldEqual, 1)
			So(entries[1].PenaltySeconds, ShouldEqual, 50)
		})

		Convey("And entries carry display name and aliases", func() {
			So(entries[0].DisplayName, ShouldEqual, "Alice A")
			So(entries[0].Handle, ShouldEqual, "alice")
			So(entries[0].Aliases, ShouldResemble, []string{"Alice A", "alice"})
		})
	})

	Convey("Given duplicate accepted submissions for one problem", t, func() {
		raw := rawContest(`{}`, map[int]model.Participant{1: {Handle: "a"}},
			sub(1, "A", false, 10),
			sub(1, "A", true, 20),
			sub(1, "A", true, 30),
			sub(1, "A", false, 40),
		)

		entries, err := ranklist.Build(raw, false)

		Convey("Then the problem is counted once with the first accept", func() {
			So(err, ShouldBeNil)
			So(entries[0].Solved, ShouldEqual, 1)
			So(entries[0].PenaltySeconds, ShouldEqual, 20+ranklist.PenaltyPerWrong)
			So(entries[0].Submissions, ShouldEqual, 4)
		})
	})

	Convey("Given submissions out of time order", t, func() {
		raw := rawContest(`{}`, map[int]model.Participant{1: {Handle: "a"}},
			sub(1, "A", true, 500),
			sub(1, "A", false, 100),
		)

		entries, _ := ranklist.Build(raw, false)

		Convey("Then they are replayed in ascending time", func() {
			So(entries[0].PenaltySeconds, ShouldEqual, 500+ranklist.PenaltyPerWrong)
		})
	})

	Convey("Given a bounded contest with late submissions", t, func() {
		raw := rawContest(`{"length": 3600}`, map[int]model.Participant{1: {Handle: "a"}, 2: {Handle: "b"}},
			sub(1, "A", true, 1000),
			sub(1, "B", true, 4000),
			sub(2, "A", true, 5000),
		)

		Convey("When late submissions are excluded", func() {
			entries, err := ranklist.Build(raw, false)

			Convey("Then upsolves do not count and upsolve-only teams are dropped", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Solved, ShouldEqual, 1)
			})
		})

		Convey("When late submissions are included", func() {
			entries, err := ranklist.Build(raw, true)

			Convey("Then every submission counts", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].Solved, ShouldEqual, 2)
			})
		})
	})

	Convey("Given registered teams that never submitted", t, func() {
		raw := rawContest(`{}`, map[int]model.Participant{1: {Handle: "a"}, 2: {Handle: "silent"}},
			sub(1, "A", false, 10),
			sub(99, "A", true, 10),
		)

		entries, err := ranklist.Build(raw, false)

		Convey("Then only attempting teams are ranked and unknown ids are ignored", func() {
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
			So(entries[0].TeamID, ShouldEqual, 1)
			So(entries[0].Solved, ShouldEqual, 0)
			So(entries[0].Rank, ShouldEqual, 1)
		})
	})

	Convey("Given teams with identical solved and penalty", t, func() {
		raw := rawContest(`{}`, map[int]model.Participant{1: {Handle: "a"}, 2: {Handle: "b"}, 3: {Handle: "c"}, 4: {Handle: "d"}},
			sub(1, "A", true, 100),
			sub(2, "A", true, 60),
			sub(3, "A", true, 60),
			sub(4, "A", false, 60),
		)

		entries, _ := ranklist.Build(raw, false)

		Convey("Then they share a rank and the next team resumes at its position", func() {
			So(entries[0].Rank, ShouldEqual, 1)
			So(entries[1].Rank, ShouldEqual, 1)
			So(entries[2].Rank, ShouldEqual, 3)
			So(entries[3].Rank, ShouldEqual, 4)
		})

		Convey("And tied teams keep ascending team id order", func() {
			So(entries[0].TeamID, ShouldEqual, 2)
			So(entries[1].TeamID, ShouldEqual, 3)
		})
	})

	Convey("Given a participant without any names", t, func() {
		raw := rawContest(`{}`, map[int]model.Participant{7: {}}, sub(7, "A", true, 1))

		entries, _ := ranklist.Build(raw, false)

		Convey("Then a synthetic display name is used", func() {
			So(entries[0].DisplayName, ShouldEqual, "Team 7")
		})
	})

	Convey("Given a payload with only a pre-built ranklist", t, func() {
		prebuilt := []model.RankEntry{{TeamID: 1, DisplayName: "x", Rank: 1}}
		raw := model.ContestRaw{Ranklist: prebuilt}

		entries, err := ranklist.Build(raw, false)

		Convey("Then it is passed through", func() {
			So(err, ShouldBeNil)
			So(entries, ShouldResemble, prebuilt)
		})
	})

	Convey("Given a payload without usable data", t, func() {
		raw := model.ContestRaw{HasParticipants: true}

		_, err := ranklist.Build(raw, false)

		Convey("Then it reports insufficient data", func() {
			So(errors.Is(err, model.ErrInsufficientData), ShouldBeTrue)
		})
	})

	Convey("Given an empty but well-formed contest", t, func() {
		raw := rawContest(`{}`, map[int]model.Participant{})

		entries, err := ranklist.Build(raw, false)

		Convey("Then the ranklist is empty without error", func() {
			So(err, ShouldBeNil)
			So(entries, ShouldNotBeNil)
			So(entries, ShouldBeEmpty)
		})
	})
}
