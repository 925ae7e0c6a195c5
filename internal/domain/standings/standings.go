// Package standings builds the per-contest view: one row per team with how
// (and whether) it was found in the contest.
package standings

import (
	"sort"

	"github.com/okian/contestboard/internal/domain/identity"
	"github.com/okian/contestboard/internal/domain/model"
	"github.com/okian/contestboard/internal/domain/ranking"
)

// Status tells how a team was resolved within one contest.
type Status string

const (
	Found      Status = "found"
	Registered Status = "registered"
	NotFound   Status = "not-found"
)

// Label is the human readable status.
func (s Status) Label() string {
	switch s {
	case Found:
		return "Found"
	case Registered:
		return "Registered"
	default:
		return "Not Found"
	}
}

// unplacedKey sorts rows without a contest rank after every placed row.
const unplacedKey = 999999

// Row is one team within one contest.
type Row struct {
	Rank           int     `json:"rank" yaml:"rank"`
	TeamID         string  `json:"team_id" yaml:"team_id"`
	Team           string  `json:"team" yaml:"team"`
	Alias          string  `json:"alias,omitempty" yaml:"alias,omitempty"`
	Status         Status  `json:"status" yaml:"status"`
	ContestRank    int     `json:"contest_rank,omitempty" yaml:"contest_rank,omitempty"`
	Solved         int     `json:"solved" yaml:"solved"`
	PenaltySeconds float64 `json:"penalty" yaml:"penalty"`
	Suggestion     string  `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

func (r Row) sortKey() int {
	if r.Status == Found && r.ContestRank > 0 {
		return r.ContestRank
	}
	return unplacedKey
}

// Build resolves every group against one contest. Unmatched groups get a
// "did you mean" suggestion when a close name exists.
func Build(data model.ContestData, groups []model.TeamGroup) []Row {
	ix := identity.IndexContest(data)
	rows := make([]Row, 0, len(groups))
	for _, g := range groups {
		m := ix.BestGroupMatch(g)
		row := Row{TeamID: g.ID, Team: g.DisplayName, Alias: m.Alias}
		switch {
		case m.Entry != nil:
			row.Status = Found
			row.ContestRank = m.Entry.Rank
			row.Solved = m.Entry.Solved
			row.PenaltySeconds = m.Entry.PenaltySeconds
		case m.Participant != nil:
			row.Status = Registered
		default:
			row.Status = NotFound
			for _, alias := range g.Aliases {
				if s, ok := ix.Suggest(alias); ok {
					row.Suggestion = s
					break
				}
			}
		}
		rows = append(rows, row)
	}
	return finish(rows)
}

// BuildAuto turns auto-discovered teams of one contest into rows. Every
// discovered team came from the ranklist, so all rows are Found.
func BuildAuto(teams []identity.ContestTeam) []Row {
	rows := make([]Row, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, Row{
			TeamID:         t.Group.ID,
			Team:           t.Group.DisplayName,
			Alias:          t.Entry.DisplayName,
			Status:         Found,
			ContestRank:    t.Entry.Rank,
			Solved:         t.Entry.Solved,
			PenaltySeconds: t.Entry.PenaltySeconds,
		})
	}
	return finish(rows)
}

func finish(rows []Row) []Row {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].sortKey() < rows[j].sortKey() })
	ranks := ranking.Competition(len(rows), func(prev, cur int) bool {
		return rows[prev].sortKey() == rows[cur].sortKey()
	})
	for i := range rows {
		rows[i].Rank = ranks[i]
	}
	return rows
}
