// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Participant is a team registered for a contest as reported by the judge.
type Participant struct {
	Handle      string // account name on the judge
	DisplayName string // nickname shown on the scoreboard, may be empty
}

// Aliases returns every non-empty name the participant can be matched by:
// handle, display name, and both with underscores read as spaces.
func (p Participant) Aliases() []string {
	candidates := []string{
		p.Handle,
		p.DisplayName,
		strings.ReplaceAll(p.Handle, "_", " "),
		strings.ReplaceAll(p.DisplayName, "_", " "),
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Submission is one judged attempt taken from the contest log.
type Submission struct {
	TeamID        int
	ProblemID     string
	Accepted      bool
	OffsetSeconds float64 // seconds since contest start
}

// RankEntry is one team's result within one contest.
type RankEntry struct {
	TeamID         int      `json:"team_id"`
	DisplayName    string   `json:"team_name"`
	AltName        string   `json:"alt_name,omitempty"`
	Handle         string   `json:"handle,omitempty"`
	Rank           int      `json:"rank"`
	Solved         int      `json:"solved"`
	PenaltySeconds float64  `json:"penalty"`
	Submissions    int      `json:"submissions"`
	Aliases        []string `json:"aliases,omitempty"`
}

// Ranked reports whether the entry carries a finite placement.
func (e RankEntry) Ranked() bool { return e.Rank > 0 }

// Names returns all strings the entry can be matched by, in lookup order.
func (e RankEntry) Names() []string {
	out := make([]string, 0, len(e.Aliases)+2)
	if e.DisplayName != "" {
		out = append(out, e.DisplayName)
	}
	if e.AltName != "" {
		out = append(out, e.AltName)
	}
	for _, a := range e.Aliases {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// ProblemRecord tracks one team's progress on one problem while a ranklist is built.
type ProblemRecord struct {
	WrongAttempts    int
	Solved           bool
	SolveTimeSeconds float64
}

// ContestRaw is the payload fetched from the judge. It either carries the
// participants/submissions pair or a pre-built ranklist.
type ContestRaw struct {
	ContestID       string
	Title           string
	Participants    map[int]Participant
	HasParticipants bool
	Submissions     []Submission
	HasSubmissions  bool
	Ranklist        []RankEntry
	Meta            Metadata
}

// ContestData is a processed contest as kept in the session cache.
type ContestData struct {
	ContestID    string
	Title        string
	Ranklist     []RankEntry
	Participants map[int]Participant
	FetchedAt    time.Time
}

// TeamGroup is a canonical team with the names it may appear under.
// The first alias is the display name.
type TeamGroup struct {
	ID                string
	DisplayName       string
	Aliases           []string
	NormalizedAliases []string
}

// ParticipantRef points at a registered participant that has no ranklist entry.
type ParticipantRef struct {
	TeamID      int
	Participant Participant
}

// Match is the outcome of resolving a team group within one contest.
type Match struct {
	Entry       *RankEntry
	Participant *ParticipantRef
	Alias       string
}

// Placed reports whether the match hit a ranklist entry.
func (m Match) Placed() bool { return m.Entry != nil }

// RatingRecord is a team's Elo state across the processed contests.
type RatingRecord struct {
	ID       string  `json:"team_id" yaml:"team_id"`
	Name     string  `json:"name" yaml:"name"`
	Rating   float64 `json:"rating" yaml:"rating"`
	Wins     int     `json:"wins" yaml:"wins"`
	Losses   int     `json:"losses" yaml:"losses"`
	Draws    int     `json:"draws" yaml:"draws"`
	Contests int     `json:"contests" yaml:"contests"`
}
