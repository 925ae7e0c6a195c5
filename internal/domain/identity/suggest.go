package identity

import (
	"github.com/agnivade/levenshtein"

	"github.com/okian/contestboard/internal/domain/model"
)

// Suggest returns the closest known team name to name, for "did you mean"
// hints on unmatched aliases. Distances are measured between normalized
// forms and must not exceed a third of the query length (at least one edit).
func (ix *Index) Suggest(name string) (string, bool) {
	target := Normalize(name)
	if target == "" {
		return "", false
	}
	limit := len(target) / 3
	if limit < 1 {
		limit = 1
	}

	bestDist := limit + 1
	var best string
	consider := func(normalized, display string) {
		if normalized == target {
			return
		}
		if d := levenshtein.ComputeDistance(target, normalized); d < bestDist {
			bestDist = d
			best = display
		}
	}

	for i := range ix.ranklist {
		e := &ix.ranklist[i]
		for _, n := range e.Names() {
			consider(Normalize(n), e.DisplayName)
		}
	}
	for _, id := range sortedParticipantIDs(ix.participants) {
		p := ix.participants[id]
		display := p.DisplayName
		if display == "" {
			display = p.Handle
		}
		for _, n := range p.Aliases() {
			consider(Normalize(n), display)
		}
	}
	return best, best != ""
}

// Suggest is a shorthand for Index.Suggest over one contest.
func Suggest(name string, ranklist []model.RankEntry, participants map[int]model.Participant) (string, bool) {
	return NewIndex(ranklist, participants).Suggest(name)
}
