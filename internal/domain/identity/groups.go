package identity

import (
	"fmt"
	"strings"

	"github.com/okian/contestboard/internal/domain/model"
)

// SplitTeamInput splits text on top-level commas. Commas inside balanced
// parentheses do not split, an opening parenthesis at top level starts a new
// token, and stray closing parentheses never push the depth below zero.
func SplitTeamInput(text string) []string {
	var (
		tokens []string
		buf    strings.Builder
		depth  int
	)
	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			tokens = append(tokens, s)
		}
		buf.Reset()
	}
	for _, ch := range text {
		switch {
		case ch == '(':
			if depth == 0 {
				flush()
			}
			depth++
			buf.WriteRune(ch)
		case ch == ')':
			if depth > 0 {
				depth--
			}
			buf.WriteRune(ch)
		case ch == ',' && depth == 0:
			flush()
		default:
			buf.WriteRune(ch)
		}
	}
	flush()
	return tokens
}

// ParseTeamGroups turns team input text into groups. Each top-level token is
// one group; a parenthesized token lists several aliases of the same team.
func ParseTeamGroups(text string) []model.TeamGroup {
	tokens := SplitTeamInput(text)
	groups := make([]model.TeamGroup, 0, len(tokens))
	for _, token := range tokens {
		content := token
		if strings.HasPrefix(token, "(") && strings.HasSuffix(token, ")") && len(token) >= 2 {
			content = token[1 : len(token)-1]
		}
		var aliases []string
		for _, part := range strings.Split(content, ",") {
			if a := strings.TrimSpace(part); a != "" {
				aliases = append(aliases, a)
			}
		}
		if len(aliases) == 0 {
			continue
		}
		groups = append(groups, NewTeamGroup(fmt.Sprintf("team-group-%d", len(groups)), aliases))
	}
	return groups
}

// NewTeamGroup builds a group whose display name is the first alias.
func NewTeamGroup(id string, aliases []string) model.TeamGroup {
	g := model.TeamGroup{ID: id, Aliases: aliases}
	if len(aliases) > 0 {
		g.DisplayName = aliases[0]
	}
	for _, a := range aliases {
		if n := Normalize(a); n != "" {
			g.NormalizedAliases = append(g.NormalizedAliases, n)
		}
	}
	return g
}
