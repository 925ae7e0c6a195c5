package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/contestboard/internal/domain/model"
	"github.com/okian/contestboard/pkg/metrics"
)

// Snapshot is an immutable view of the cache. A new snapshot is published
// on every write; holders of an older one keep a consistent picture.
type Snapshot struct {
	Contests   map[string]model.ContestData
	Titles     map[string]string
	Generation uint64
}

// MemoryStore is a copy-on-write Store. Reads are lock free; writers are
// serialized and publish a fresh Snapshot.
type MemoryStore struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(&Snapshot{
		Contests: map[string]model.ContestData{},
		Titles:   map[string]string{},
	})
	metrics.UpdateCacheSize(0)
	return s
}

// Snapshot returns the current view.
func (s *MemoryStore) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Get returns the cached contest.
func (s *MemoryStore) Get(ctx context.Context, contestID string) (model.ContestData, bool) {
	data, ok := s.snapshot.Load().Contests[contestID]
	if ok {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}
	return data, ok
}

// Set stores data, replacing any previous entry for the same contest.
func (s *MemoryStore) Set(ctx context.Context, data model.ContestData) error {
	if data.ContestID == "" {
		metrics.RecordErrorByComponent("repository", "empty_contest_id")
		return fmt.Errorf("set contest: %w", ErrEmptyContestID)
	}
	if data.FetchedAt.IsZero() {
		data.FetchedAt = s.now()
	}
	s.update(func(next *Snapshot) {
		next.Contests[data.ContestID] = data
		if data.Title != "" {
			next.Titles[data.ContestID] = data.Title
		}
	})
	return nil
}

// Invalidate drops one contest.
func (s *MemoryStore) Invalidate(ctx context.Context, contestID string) bool {
	var dropped bool
	s.update(func(next *Snapshot) {
		if _, dropped = next.Contests[contestID]; dropped {
			delete(next.Contests, contestID)
		}
	})
	if dropped {
		metrics.RecordCacheInvalidation("invalidate", 1)
	}
	return dropped
}

// Clear drops every contest but keeps titles.
func (s *MemoryStore) Clear(ctx context.Context) int {
	var n int
	s.update(func(next *Snapshot) {
		n = len(next.Contests)
		next.Contests = map[string]model.ContestData{}
	})
	metrics.RecordCacheInvalidation("clear", n)
	return n
}

// Count returns the number of cached contests.
func (s *MemoryStore) Count(ctx context.Context) int {
	return len(s.snapshot.Load().Contests)
}

// Title returns the last known title of a contest.
func (s *MemoryStore) Title(ctx context.Context, contestID string) (string, bool) {
	t, ok := s.snapshot.Load().Titles[contestID]
	return t, ok
}

// SetTitle records a contest title.
func (s *MemoryStore) SetTitle(ctx context.Context, contestID, title string) {
	if contestID == "" || title == "" {
		return
	}
	s.update(func(next *Snapshot) {
		next.Titles[contestID] = title
	})
}

// update copies the current snapshot, applies mutate and publishes the result.
func (s *MemoryStore) update(mutate func(next *Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snapshot.Load()
	next := &Snapshot{
		Contests:   make(map[string]model.ContestData, len(cur.Contests)+1),
		Titles:     make(map[string]string, len(cur.Titles)+1),
		Generation: cur.Generation + 1,
	}
	for k, v := range cur.Contests {
		next.Contests[k] = v
	}
	for k, v := range cur.Titles {
		next.Titles[k] = v
	}
	mutate(next)
	s.snapshot.Store(next)
	metrics.UpdateCacheSize(len(next.Contests))
}
