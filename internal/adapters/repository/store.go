// Package repository holds the session-scoped contest cache.
package repository

import (
	"context"

	"github.com/okian/contestboard/internal/domain/model"
)

// Store caches processed contests for one session. Entries are replaced
// whole, never mutated, so readers observe either the old or the new value
// for a contest id.
type Store interface {
	// Get returns the cached contest, if present.
	Get(ctx context.Context, contestID string) (model.ContestData, bool)
	// Set stores or replaces the contest under data.ContestID.
	Set(ctx context.Context, data model.ContestData) error
	// Invalidate drops one contest. Reports whether it was cached.
	Invalidate(ctx context.Context, contestID string) bool
	// Clear drops every contest and returns how many were dropped.
	// Known titles are kept.
	Clear(ctx context.Context) int
	// Count returns the number of cached contests.
	Count(ctx context.Context) int

	// Title returns the last title seen for a contest, even after Clear.
	Title(ctx context.Context, contestID string) (string, bool)
	// SetTitle records a contest title. Empty titles are ignored.
	SetTitle(ctx context.Context, contestID, title string)

	// Snapshot returns the current immutable view of the cache.
	Snapshot() *Snapshot
}
