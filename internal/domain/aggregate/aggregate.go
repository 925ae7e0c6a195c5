// Package aggregate folds per-contest results into one cross-contest table.
package aggregate

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/contestboard/internal/domain/identity"
	"github.com/okian/contestboard/internal/domain/model"
	"github.com/okian/contestboard/internal/domain/ranking"
)

// Row is one team's totals across the selected contests.
type Row struct {
	Rank           int     `json:"rank" yaml:"rank"`
	TeamID         string  `json:"team_id" yaml:"team_id"`
	DisplayName    string  `json:"display_name" yaml:"display_name"`
	Solved         int     `json:"solved" yaml:"solved"`
	PenaltySeconds float64 `json:"penalty" yaml:"penalty"`
	Appearances    int     `json:"appearances" yaml:"appearances"`
}

// Totals accumulates solved count, penalty and appearances per team group id.
// Adding contests is order independent, so partial totals can be extended.
type Totals map[string]*Row

// NewTotals seeds zeroed rows for every group.
func NewTotals(groups []model.TeamGroup) Totals {
	t := make(Totals, len(groups))
	for _, g := range groups {
		if _, ok := t[g.ID]; !ok {
			t[g.ID] = &Row{TeamID: g.ID, DisplayName: g.DisplayName}
		}
	}
	return t
}

// Add folds one contest into the totals. Only ranklist matches count;
// registered participants without an entry contribute nothing.
func (t Totals) Add(contest model.ContestData, groups []model.TeamGroup) {
	ix := identity.IndexContest(contest)
	for _, g := range groups {
		row, ok := t[g.ID]
		if !ok {
			continue
		}
		m := ix.BestGroupMatch(g)
		if m.Entry == nil {
			continue
		}
		row.Appearances++
		row.Solved += m.Entry.Solved
		row.PenaltySeconds += m.Entry.PenaltySeconds
	}
}

// Rows returns the ranked table. Ties on (solved, penalty) share a rank;
// names only order rows within a tie.
func (t Totals) Rows() []Row {
	rows := make([]Row, 0, len(t))
	for _, r := range t {
		rows = append(rows, *r)
	}
	coll := collate.New(language.Und)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Solved != b.Solved {
			return a.Solved > b.Solved
		}
		if a.PenaltySeconds != b.PenaltySeconds {
			return a.PenaltySeconds < b.PenaltySeconds
		}
		if c := coll.CompareString(a.DisplayName, b.DisplayName); c != 0 {
			return c < 0
		}
		return a.TeamID < b.TeamID
	})
	ranks := ranking.Competition(len(rows), func(prev, cur int) bool {
		return rows[prev].Solved == rows[cur].Solved && rows[prev].PenaltySeconds == rows[cur].PenaltySeconds
	})
	for i := range rows {
		rows[i].Rank = ranks[i]
	}
	return rows
}

// Build aggregates every group over the given contests.
func Build(contests []model.ContestData, groups []model.TeamGroup) []Row {
	t := NewTotals(groups)
	for _, c := range contests {
		t.Add(c, groups)
	}
	return t.Rows()
}
