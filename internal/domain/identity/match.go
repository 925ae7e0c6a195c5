package identity

import (
	"sort"

	"github.com/okian/contestboard/internal/domain/model"
)

// Index answers name lookups for one contest. Normalized names are computed
// once so repeated group resolution stays cheap.
type Index struct {
	ranklist     []model.RankEntry
	participants map[int]model.Participant

	entryByName       map[string]int // normalized name -> first ranklist position
	participantByName map[string]int // normalized name -> lowest team id
}

// NewIndex indexes a contest's ranklist and participant mapping. Neither is
// modified or copied; callers must treat them as read-only.
func NewIndex(ranklist []model.RankEntry, participants map[int]model.Participant) *Index {
	ix := &Index{
		ranklist:          ranklist,
		participants:      participants,
		entryByName:       make(map[string]int, len(ranklist)*2),
		participantByName: make(map[string]int, len(participants)*2),
	}
	for i := range ranklist {
		for _, name := range ranklist[i].Names() {
			n := Normalize(name)
			if n == "" {
				continue
			}
			if _, seen := ix.entryByName[n]; !seen {
				ix.entryByName[n] = i
			}
		}
	}
	for _, id := range sortedParticipantIDs(participants) {
		for _, name := range participants[id].Aliases() {
			n := Normalize(name)
			if n == "" {
				continue
			}
			if _, seen := ix.participantByName[n]; !seen {
				ix.participantByName[n] = id
			}
		}
	}
	return ix
}

// IndexContest is a shorthand for NewIndex over cached contest data.
func IndexContest(data model.ContestData) *Index {
	return NewIndex(data.Ranklist, data.Participants)
}

// Find resolves one name. Ranklist entries are searched first; registered
// participants without an entry are the fallback.
func (ix *Index) Find(name string) (model.Match, bool) {
	target := Normalize(name)
	if target == "" {
		return model.Match{}, false
	}
	if i, ok := ix.entryByName[target]; ok {
		return model.Match{Entry: &ix.ranklist[i]}, true
	}
	if id, ok := ix.participantByName[target]; ok {
		return model.Match{Participant: &model.ParticipantRef{TeamID: id, Participant: ix.participants[id]}}, true
	}
	return model.Match{}, false
}

// BestGroupMatch resolves every alias of group and keeps the best placement:
// among aliases that hit a ranklist entry the lowest rank wins. If no alias
// is ranked, the first alias that hit a registered participant is returned.
// Alias reports which name produced the winning match.
func (ix *Index) BestGroupMatch(group model.TeamGroup) model.Match {
	var (
		best          *model.RankEntry
		bestAlias     string
		fallback      *model.ParticipantRef
		fallbackAlias string
	)
	for _, alias := range group.Aliases {
		m, ok := ix.Find(alias)
		if !ok {
			continue
		}
		switch {
		case m.Entry != nil:
			if best == nil || betterRank(m.Entry, best) {
				best = m.Entry
				bestAlias = alias
			}
		case m.Participant != nil && fallback == nil:
			fallback = m.Participant
			fallbackAlias = alias
		}
	}

	out := model.Match{Entry: best, Participant: fallback}
	switch {
	case bestAlias != "":
		out.Alias = bestAlias
	case fallbackAlias != "":
		out.Alias = fallbackAlias
	}
	return out
}

// betterRank reports whether a places strictly better than b. Entries
// without a finite rank never beat anything.
func betterRank(a, b *model.RankEntry) bool {
	if !a.Ranked() {
		return false
	}
	return !b.Ranked() || a.Rank < b.Rank
}

// FindTeamRecord resolves a single name within one contest.
func FindTeamRecord(name string, ranklist []model.RankEntry, participants map[int]model.Participant) (model.Match, bool) {
	return NewIndex(ranklist, participants).Find(name)
}

// FindBestGroupMatch resolves a team group within one contest.
func FindBestGroupMatch(group model.TeamGroup, ranklist []model.RankEntry, participants map[int]model.Participant) model.Match {
	return NewIndex(ranklist, participants).BestGroupMatch(group)
}

func sortedParticipantIDs(participants map[int]model.Participant) []int {
	ids := make([]int, 0, len(participants))
	for id := range participants {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
