// Package elo runs sequential pairwise Elo updates over a list of contests.
package elo

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/contestboard/internal/domain/identity"
	"github.com/okian/contestboard/internal/domain/model"
)

const (
	DefaultBaseRating = 1500.0
	DefaultKFactor    = 32.0
	DefaultDivisor    = 400.0
)

// Mode selects how a contest's pairings affect ratings.
type Mode string

const (
	// Normal applies classic zero-sum updates.
	Normal Mode = "normal"
	// GainOnly clamps negative deltas to zero. Ratings only ever rise, so
	// the ladder inflates over time.
	GainOnly Mode = "gain-only"
	// ZeroParticipation ranks every team absent from a contest below all
	// present teams, so skipping a contest costs rating.
	ZeroParticipation Mode = "zero-participation"
)

// Modes lists the supported modes.
var Modes = []Mode{Normal, GainOnly, ZeroParticipation}

// ParseMode maps a mode name to a Mode. An empty name selects Normal.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return Normal, nil
	case Normal, GainOnly, ZeroParticipation:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// absentRank places synthetic entries behind every real placement.
const absentRank = math.MaxInt

// Row is one team on the final ladder.
type Row struct {
	Rank               int `json:"rank" yaml:"rank"`
	model.RatingRecord `yaml:",inline"`
}

// Ladder computes Elo standings. The zero value is not usable; use New.
type Ladder struct {
	base    float64
	k       float64
	divisor float64
}

// New creates a ladder with the default constants unless overridden.
func New(opts ...Option) *Ladder {
	l := &Ladder{
		base:    DefaultBaseRating,
		k:       DefaultKFactor,
		divisor: DefaultDivisor,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Build runs a default ladder.
func Build(contests []model.ContestData, groups []model.TeamGroup, mode Mode) []Row {
	return New().Build(contests, groups, mode)
}

type placement struct {
	record *model.RatingRecord
	rank   int
}

// Build processes contests in order; ratings carry over from one contest to
// the next, so reordering contests changes the outcome.
func (l *Ladder) Build(contests []model.ContestData, groups []model.TeamGroup, mode Mode) []Row {
	if len(contests) == 0 || len(groups) == 0 {
		return []Row{}
	}

	state := make(map[string]*model.RatingRecord, len(groups))
	order := make([]*model.RatingRecord, 0, len(groups))
	unique := make([]model.TeamGroup, 0, len(groups))
	for _, g := range groups {
		if _, ok := state[g.ID]; ok {
			continue
		}
		rec := &model.RatingRecord{ID: g.ID, Name: g.DisplayName, Rating: l.base}
		state[g.ID] = rec
		order = append(order, rec)
		unique = append(unique, g)
	}

	for _, c := range contests {
		l.apply(c, unique, state, mode)
	}

	coll := collate.New(language.Und)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return coll.CompareString(a.Name, b.Name) < 0
	})
	rows := make([]Row, len(order))
	for i, rec := range order {
		rows[i] = Row{Rank: i + 1, RatingRecord: *rec}
	}
	return rows
}

// apply runs every pairing of one contest. Deltas land immediately, so later
// pairings in the same contest see ratings already moved by earlier ones.
func (l *Ladder) apply(c model.ContestData, groups []model.TeamGroup, state map[string]*model.RatingRecord, mode Mode) {
	ix := identity.IndexContest(c)
	present := make([]placement, 0, len(groups))
	var absent []placement
	for _, g := range groups {
		m := ix.BestGroupMatch(g)
		if m.Entry != nil && m.Entry.Ranked() {
			present = append(present, placement{record: state[g.ID], rank: m.Entry.Rank})
			continue
		}
		absent = append(absent, placement{record: state[g.ID], rank: absentRank})
	}

	if mode != ZeroParticipation {
		if len(present) == 0 {
			return
		}
		absent = nil
	}
	sort.SliceStable(present, func(i, j int) bool { return present[i].rank < present[j].rank })
	ordered := append(present, absent...)

	for _, p := range ordered {
		p.record.Contests++
	}

	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			a, b := ordered[i], ordered[j]
			expectedA := l.expected(a.record.Rating, b.record.Rating)
			expectedB := 1 - expectedA

			scoreA, scoreB := 1.0, 0.0
			if a.rank == b.rank {
				scoreA, scoreB = 0.5, 0.5
				a.record.Draws++
				b.record.Draws++
			} else {
				a.record.Wins++
				b.record.Losses++
			}

			deltaA := l.k * (scoreA - expectedA)
			deltaB := l.k * (scoreB - expectedB)
			if mode == GainOnly {
				deltaA = math.Max(deltaA, 0)
				deltaB = math.Max(deltaB, 0)
			}
			a.record.Rating += deltaA
			b.record.Rating += deltaB
		}
	}
}

// expected is the logistic win expectancy of a rated ra against rb.
func (l *Ladder) expected(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/l.divisor))
}
