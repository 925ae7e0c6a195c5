// Package input parses the free-text inputs of a standings session.
package input

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var contestIDPattern = regexp.MustCompile(`^\d+$`)

// ParseContestIDs splits a comma separated list of contest ids. Numeric
// tokens are returned in input order; everything else is reported back so
// the caller can show it without dropping the valid ids.
func ParseContestIDs(text string) (valid, invalid []string) {
	for _, part := range strings.Split(text, ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		if contestIDPattern.MatchString(token) {
			valid = append(valid, token)
		} else {
			invalid = append(invalid, token)
		}
	}
	return valid, invalid
}

// Unique drops repeated ids and keeps the first occurrence of each.
func Unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SelectionMode picks which contests feed the aggregate and Elo views.
type SelectionMode string

const (
	SelectAll    SelectionMode = "all"
	SelectCustom SelectionMode = "custom"
)

// Selection is the contest subset chosen for cross-contest views.
type Selection struct {
	Mode     SelectionMode `json:"mode" yaml:"mode" koanf:"mode" validate:"omitempty,oneof=all custom"`
	Selected []string      `json:"selected,omitempty" yaml:"selected,omitempty" koanf:"selected"`
}

// Resolve returns the ids that feed the cross-contest views. All mode keeps
// input order; a custom selection keeps the order contests were selected in,
// skipping ids that are no longer part of the input. A custom selection that
// keeps nothing falls back to the first contest.
func (s Selection) Resolve(ids []string) []string {
	ids = Unique(ids)
	if s.Mode != SelectCustom {
		return ids
	}
	present := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		present[id] = struct{}{}
	}
	out := make([]string, 0, len(s.Selected))
	for _, id := range Unique(s.Selected) {
		if _, ok := present[id]; ok {
			out = append(out, id)
		}
	}
	if len(out) == 0 && len(ids) > 0 {
		out = append(out, ids[0])
	}
	return out
}

// ContextKey fingerprints every input that affects team-context building.
// Equal keys mean a previously built context can be reused.
func ContextKey(parts ...any) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%T:%v\x00", p, p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
