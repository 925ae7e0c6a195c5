package service

import (
	"github.com/okian/contestboard/internal/domain/aggregate"
	"github.com/okian/contestboard/internal/domain/elo"
	"github.com/okian/contestboard/internal/domain/input"
	"github.com/okian/contestboard/internal/domain/standings"
)

// Request carries every input of a standings session.
type Request struct {
	ContestIDs   string          `json:"contest_ids" yaml:"contest_ids" koanf:"contest_ids" validate:"required"`
	Teams        string          `json:"teams" yaml:"teams" koanf:"teams"`
	Merge        string          `json:"merge" yaml:"merge" koanf:"merge"`
	IncludeLate  bool            `json:"include_late" yaml:"include_late" koanf:"include_late"`
	AutoDiscover bool            `json:"auto_discover" yaml:"auto_discover" koanf:"auto_discover"`
	Selection    input.Selection `json:"selection" yaml:"selection" koanf:"selection"`
	EloMode      string          `json:"elo_mode" yaml:"elo_mode" koanf:"elo_mode" validate:"omitempty,oneof=normal gain-only zero-participation"`

	// Refetch reloads every contest even when cached.
	Refetch bool `json:"refetch" yaml:"-" koanf:"-"`
	// CacheOnly never contacts the judge; missing contests are reported as pending.
	CacheOnly bool `json:"cache_only" yaml:"-" koanf:"-"`
	// Trigger labels the computation in metrics.
	Trigger string `json:"-" yaml:"-" koanf:"-"`
}

// ContestView is the per-contest standings table.
type ContestView struct {
	ContestID string          `json:"contest_id" yaml:"contest_id"`
	Title     string          `json:"title,omitempty" yaml:"title,omitempty"`
	URL       string          `json:"url" yaml:"url"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	Rows      []standings.Row `json:"rows" yaml:"rows"`
}

// Views is the outcome of one computation.
type Views struct {
	InvalidIDs []string        `json:"invalid_ids,omitempty" yaml:"invalid_ids,omitempty"`
	Selected   []string        `json:"selected" yaml:"selected"`
	Pending    []string        `json:"pending,omitempty" yaml:"pending,omitempty"`
	Contests   []ContestView   `json:"contests" yaml:"contests"`
	Aggregate  []aggregate.Row `json:"aggregate" yaml:"aggregate"`
	Elo        []elo.Row       `json:"elo" yaml:"elo"`
	EloMode    elo.Mode        `json:"elo_mode" yaml:"elo_mode"`
}
