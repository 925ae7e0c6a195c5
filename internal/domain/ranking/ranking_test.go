package ranking_test

import (
	"testing"

	"github.com/okian/contestboard/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompetition(t *testing.T) {
	Convey("Given sorted keys with ties", t, func() {
		keys := []int{9, 7, 7, 5, 5, 5, 1}
		ranks := ranking.Competition(len(keys), func(p, c int) bool { return keys[p] == keys[c] })

		Convey("Then ties share a rank and the next group resumes at its position", func() {
			So(ranks, ShouldResemble, []int{1, 2, 2, 4, 4, 4, 7})
		})
	})

	Convey("Given no rows", t, func() {
		So(ranking.Competition(0, nil), ShouldBeEmpty)
	})
}
