// Package identity resolves free-text team names against contest records.
//
// All identity comparison goes through Normalize: two names denote the same
// team iff their normalized forms are equal.
package identity

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casers keep state between calls, so each goroutine borrows its own.
var lowerPool = sync.Pool{
	New: func() any {
		c := cases.Lower(language.Und)
		return &c
	},
}

// Normalize lowercases s and drops every character outside [a-z0-9].
// "Team_Alpha", "team alpha" and "TEAM-ALPHA" all normalize to "teamalpha".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	c := lowerPool.Get().(*cases.Caser)
	lowered := c.String(s)
	lowerPool.Put(c)

	var b strings.Builder
	b.Grow(len(lowered))
	for i := 0; i < len(lowered); i++ {
		ch := lowered[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			b.WriteByte(ch)
		}
	}
	return b.String()
}
