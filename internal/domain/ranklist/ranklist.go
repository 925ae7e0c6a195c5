// Package ranklist reconstructs contest standings from raw submission logs.
//
// Scoring follows ICPC rules: teams are ordered by solved count (desc) and
// total penalty (asc). A solved problem costs its solve time plus twenty
// minutes per rejected attempt before the first accepted one.
package ranklist

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/contestboard/internal/domain/model"
	"github.com/okian/contestboard/internal/domain/ranking"
)

// PenaltyPerWrong is the penalty in seconds for each rejected attempt on a
// problem that is eventually solved.
const PenaltyPerWrong = 20 * 60

type teamState struct {
	entry     model.RankEntry
	attempted bool
	problems  map[string]*model.ProblemRecord
}

// Build returns the ranked standings for raw.
//
// A pre-built ranklist is passed through unchanged when the payload lacks the
// participants/submissions pair. When neither shape is usable the result is
// model.ErrInsufficientData. Submissions after the contest end are dropped
// unless includeLate is set or the contest length is unknown.
func Build(raw model.ContestRaw, includeLate bool) ([]model.RankEntry, error) {
	if !raw.HasParticipants || !raw.HasSubmissions {
		if len(raw.Ranklist) > 0 {
			return raw.Ranklist, nil
		}
		return nil, model.ErrInsufficientData
	}

	length := ResolveContestLength(raw.Meta)

	ids := make([]int, 0, len(raw.Participants))
	for id := range raw.Participants {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	teams := make(map[int]*teamState, len(ids))
	order := make([]*teamState, 0, len(ids))
	for _, id := range ids {
		ts := newTeamState(id, raw.Participants[id])
		teams[id] = ts
		order = append(order, ts)
	}

	for _, sub := range orderedSubmissions(raw.Submissions, length, includeLate) {
		ts, ok := teams[sub.TeamID]
		if !ok {
			continue
		}
		ts.apply(sub)
	}

	ranked := make([]model.RankEntry, 0, len(order))
	for _, ts := range order {
		if ts.attempted || ts.entry.Solved > 0 {
			ranked = append(ranked, ts.entry)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Solved != ranked[j].Solved {
			return ranked[i].Solved > ranked[j].Solved
		}
		return ranked[i].PenaltySeconds < ranked[j].PenaltySeconds
	})

	ranks := ranking.Competition(len(ranked), func(p, c int) bool {
		return ranked[p].Solved == ranked[c].Solved && ranked[p].PenaltySeconds == ranked[c].PenaltySeconds
	})
	for i := range ranked {
		ranked[i].Rank = ranks[i]
	}
	return ranked, nil
}

func newTeamState(id int, p model.Participant) *teamState {
	display := p.DisplayName
	if display == "" {
		display = p.Handle
	}
	if display == "" {
		display = fmt.Sprintf("Team %d", id)
	}
	return &teamState{
		entry: model.RankEntry{
			TeamID:      id,
			DisplayName: display,
			Handle:      p.Handle,
			Aliases:     entryAliases(display, p.Handle),
		},
		problems: make(map[string]*model.ProblemRecord),
	}
}

// entryAliases returns the unique non-empty names a built entry answers to.
func entryAliases(display, handle string) []string {
	candidates := []string{
		display,
		handle,
		strings.ReplaceAll(display, "_", " "),
		strings.ReplaceAll(handle, "_", " "),
	}
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func orderedSubmissions(subs []model.Submission, length float64, includeLate bool) []model.Submission {
	bounded := !includeLate && !math.IsInf(length, 1)
	out := make([]model.Submission, 0, len(subs))
	for _, s := range subs {
		if bounded && s.OffsetSeconds > length {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OffsetSeconds < out[j].OffsetSeconds })
	return out
}

// apply folds one submission into the team state. Once a problem is solved
// later submissions for it are ignored.
func (ts *teamState) apply(sub model.Submission) {
	ts.attempted = true
	ts.entry.Submissions++

	rec, ok := ts.problems[sub.ProblemID]
	if !ok {
		rec = &model.ProblemRecord{}
		ts.problems[sub.ProblemID] = rec
	}
	if rec.Solved {
		return
	}
	if !sub.Accepted {
		rec.WrongAttempts++
		return
	}
	rec.Solved = true
	rec.SolveTimeSeconds = sub.OffsetSeconds
	ts.entry.Solved++
	ts.entry.PenaltySeconds += sub.OffsetSeconds + float64(rec.WrongAttempts*PenaltyPerWrong)
}
