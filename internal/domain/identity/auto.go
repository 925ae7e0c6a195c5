package identity

import (
	"fmt"
	"sort"

	"github.com/okian/contestboard/internal/domain/model"
)

// ContestTeam is one discovered team's result in one contest.
type ContestTeam struct {
	Group model.TeamGroup
	Entry model.RankEntry
}

// AutoContext is the outcome of clustering raw ranklist entries into teams.
type AutoContext struct {
	// TeamGroups lists discovered teams in first-sighting order.
	TeamGroups []model.TeamGroup
	// ContestTeams lists, per contest id, the discovered teams ordered by rank.
	ContestTeams map[string][]ContestTeam
	// AliasDisplay maps every normalized alias to its team's display name.
	AliasDisplay map[string]string
}

type autoBuilder struct {
	mergeKey    map[string]string // normalized alias -> merge key
	mergeGroups map[string]model.TeamGroup

	groups map[string]*groupAcc
	order  []string
}

type groupAcc struct {
	group model.TeamGroup
	seen  map[string]struct{}
}

type contestAcc struct {
	best  map[string]model.RankEntry
	order []string
}

// BuildAutoTeamContext discovers teams from every ranklist entry of the given
// contests. Entries whose names hit a merge group are folded into that group;
// otherwise an entry's first normalized name is its identity. Contests are
// visited in the given order, so display names come from the first sighting.
func BuildAutoTeamContext(contests []model.ContestData, mergeGroups []model.TeamGroup) AutoContext {
	b := &autoBuilder{
		mergeKey:    make(map[string]string),
		mergeGroups: make(map[string]model.TeamGroup, len(mergeGroups)),
		groups:      make(map[string]*groupAcc),
	}
	for _, g := range mergeGroups {
		key := "merge:" + g.ID
		b.mergeGroups[key] = g
		for _, n := range g.NormalizedAliases {
			if _, taken := b.mergeKey[n]; !taken {
				b.mergeKey[n] = key
			}
		}
	}

	perContest := make(map[string]*contestAcc, len(contests))
	contestOrder := make([]string, 0, len(contests))
	for _, c := range contests {
		acc, ok := perContest[c.ContestID]
		if !ok {
			acc = &contestAcc{best: make(map[string]model.RankEntry)}
			perContest[c.ContestID] = acc
			contestOrder = append(contestOrder, c.ContestID)
		}
		for _, entry := range c.Ranklist {
			key := b.observe(c, entry)
			existing, seen := acc.best[key]
			if !seen {
				acc.order = append(acc.order, key)
				acc.best[key] = entry
				continue
			}
			if entry.Ranked() && (!existing.Ranked() || entry.Rank < existing.Rank) {
				acc.best[key] = entry
			}
		}
	}

	out := AutoContext{
		TeamGroups:   make([]model.TeamGroup, 0, len(b.order)),
		ContestTeams: make(map[string][]ContestTeam, len(perContest)),
		AliasDisplay: make(map[string]string),
	}
	for _, key := range b.order {
		g := b.groups[key].group
		out.TeamGroups = append(out.TeamGroups, g)
		for _, n := range g.NormalizedAliases {
			if _, taken := out.AliasDisplay[n]; !taken {
				out.AliasDisplay[n] = g.DisplayName
			}
		}
	}
	for _, cid := range contestOrder {
		acc := perContest[cid]
		teams := make([]ContestTeam, 0, len(acc.order))
		for _, key := range acc.order {
			teams = append(teams, ContestTeam{Group: b.groups[key].group, Entry: acc.best[key]})
		}
		sort.SliceStable(teams, func(i, j int) bool {
			a, c := teams[i].Entry, teams[j].Entry
			if a.Ranked() != c.Ranked() {
				return a.Ranked()
			}
			return a.Ranked() && a.Rank < c.Rank
		})
		out.ContestTeams[cid] = teams
	}
	return out
}

// observe files one ranklist entry under its canonical key and returns it.
func (b *autoBuilder) observe(c model.ContestData, entry model.RankEntry) string {
	names := entry.Names()
	if entry.Handle != "" {
		names = append(names, entry.Handle)
	}

	var key, firstNormalized string
	for _, name := range names {
		n := Normalize(name)
		if n == "" {
			continue
		}
		if firstNormalized == "" {
			firstNormalized = n
		}
		if k, ok := b.mergeKey[n]; ok {
			key = k
			break
		}
	}
	merge, merged := b.mergeGroups[key]
	if key == "" {
		key = firstNormalized
	}
	if key == "" {
		key = fmt.Sprintf("contest:%s:team:%d", c.ContestID, entry.TeamID)
	}

	acc, ok := b.groups[key]
	if !ok {
		display := c.Participants[entry.TeamID].Handle
		if display == "" && merged {
			display = merge.DisplayName
		}
		if display == "" {
			display = entry.DisplayName
		}
		if display == "" {
			display = fmt.Sprintf("Team %d", len(b.order)+1)
		}
		acc = &groupAcc{
			group: model.TeamGroup{ID: fmt.Sprintf("auto-team-%d", len(b.order)), DisplayName: display},
			seen:  make(map[string]struct{}),
		}
		acc.add(display)
		if merged {
			for _, a := range merge.Aliases {
				acc.add(a)
			}
		}
		b.groups[key] = acc
		b.order = append(b.order, key)
	}
	for _, name := range names {
		acc.add(name)
	}
	return key
}

// add appends alias unless a name with the same normalized form is present.
func (g *groupAcc) add(alias string) {
	n := Normalize(alias)
	if n == "" {
		return
	}
	if _, dup := g.seen[n]; dup {
		return
	}
	g.seen[n] = struct{}{}
	g.group.Aliases = append(g.group.Aliases, alias)
	g.group.NormalizedAliases = append(g.group.NormalizedAliases, n)
}
