// Package service runs standings sessions: it keeps the contest cache warm
// and turns session inputs into the three standings views.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/contestboard/internal/adapters/judge"
	"github.com/okian/contestboard/internal/adapters/repository"
	"github.com/okian/contestboard/internal/domain/aggregate"
	"github.com/okian/contestboard/internal/domain/elo"
	"github.com/okian/contestboard/internal/domain/identity"
	"github.com/okian/contestboard/internal/domain/input"
	"github.com/okian/contestboard/internal/domain/model"
	"github.com/okian/contestboard/internal/domain/ranklist"
	"github.com/okian/contestboard/internal/domain/standings"
	"github.com/okian/contestboard/pkg/logger"
	"github.com/okian/contestboard/pkg/metrics"
)

// Service owns the session state: the contest cache, the late-submission
// setting and the last built team context.
type Service struct {
	mu sync.RWMutex

	fetcher judge.Fetcher
	store   repository.Store
	ladder  *elo.Ladder

	fetchConcurrency int
	includeLate      bool

	teamsMu   sync.Mutex
	teamsKey  string
	teamsMemo teamContext

	logger logger.Logger
}

// teamContext is the set of teams of one computation. In auto-discovery
// mode it also carries the discovered per-contest teams.
type teamContext struct {
	groups []model.TeamGroup
	auto   *identity.AutoContext
}

// New constructs a session service around a contest fetcher.
func New(fetcher judge.Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:          fetcher,
		fetchConcurrency: 1,
		logger:           logger.Get().Named("session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.ladder == nil {
		s.ladder = elo.New()
	}
	return s
}

// IncludeLate reports whether late submissions count.
func (s *Service) IncludeLate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.includeLate
}

// SetIncludeLate changes the late-submission setting. Cached ranklists
// depend on it, so a change clears the cache. Returns the number of
// contests dropped.
func (s *Service) SetIncludeLate(ctx context.Context, include bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.includeLate == include {
		return 0
	}
	s.includeLate = include
	n := s.store.Clear(ctx)
	metrics.RecordCacheInvalidation("include_late", n)
	s.logger.Info(ctx, "late submission setting changed; cache cleared",
		logger.Bool("include_late", include),
		logger.Int("dropped", n),
	)
	return n
}

// Compute refreshes the cache as needed and builds every view. Problems
// with single contests are reported inside the views; only unusable input
// fails the whole call.
func (s *Service) Compute(ctx context.Context, req Request) (Views, error) {
	start := time.Now()
	trigger := req.Trigger
	if trigger == "" {
		trigger = "manual"
	}
	defer func() {
		metrics.RecordRecompute(trigger, float64(time.Since(start).Milliseconds()))
	}()

	valid, invalid := input.ParseContestIDs(req.ContestIDs)
	views := Views{InvalidIDs: invalid}
	if len(invalid) > 0 {
		s.logger.Warn(ctx, "ignoring invalid contest ids", logger.Strings("invalid", invalid))
	}
	if len(valid) == 0 {
		return views, ErrNoContests
	}
	mode, err := elo.ParseMode(req.EloMode)
	if err != nil {
		return views, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	views.EloMode = mode

	s.SetIncludeLate(ctx, req.IncludeLate)
	ids := input.Unique(valid)

	var fetchErrs map[string]error
	if !req.CacheOnly {
		fetchErrs = s.refresh(ctx, ids, req.Refetch)
	}

	snap := s.store.Snapshot()
	teams := s.teamContext(req, ids, snap)

	views.Contests = make([]ContestView, 0, len(ids))
	for _, id := range ids {
		view := ContestView{ContestID: id, URL: judge.ContestURL(id), Rows: []standings.Row{}}
		if title, ok := snap.Titles[id]; ok {
			view.Title = title
		}
		data, ok := snap.Contests[id]
		switch {
		case ok && teams.auto != nil:
			view.Rows = standings.BuildAuto(teams.auto.ContestTeams[id])
		case ok:
			view.Rows = standings.Build(data, teams.groups)
		case fetchErrs[id] != nil:
			view.Error = UserMessage(fetchErrs[id])
		}
		views.Contests = append(views.Contests, view)
	}

	views.Selected = req.Selection.Resolve(ids)
	selected := make([]model.ContestData, 0, len(views.Selected))
	for _, id := range views.Selected {
		data, ok := snap.Contests[id]
		if !ok {
			if fetchErrs[id] == nil {
				views.Pending = append(views.Pending, id)
			}
			continue
		}
		selected = append(selected, data)
	}
	views.Aggregate = aggregate.Build(selected, teams.groups)
	views.Elo = s.ladder.Build(selected, teams.groups, mode)

	s.logger.Debug(ctx, "standings computed",
		logger.String("trigger", trigger),
		logger.Int("contests", len(ids)),
		logger.Int("selected", len(selected)),
		logger.Int("teams", len(teams.groups)),
		logger.Duration("took", time.Since(start)),
	)
	return views, nil
}

// refresh loads contests that are not cached (or all of them when force is
// set). Failures are returned per contest id and are not cached, so the next
// refresh retries them.
func (s *Service) refresh(ctx context.Context, ids []string, force bool) map[string]error {
	var (
		mu   sync.Mutex
		errs = make(map[string]error)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchConcurrency)
	for _, id := range ids {
		if !force {
			if _, ok := s.store.Get(ctx, id); ok {
				continue
			}
		}
		g.Go(func() error {
			if err := s.Load(gctx, id); err != nil {
				mu.Lock()
				errs[id] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// Load fetches one contest, rebuilds its ranklist and caches the result.
// The ranklist is only stored if the late-submission setting it was built
// under is still current; otherwise it is rebuilt under the new setting.
func (s *Service) Load(ctx context.Context, contestID string) error {
	includeLate := s.IncludeLate()
	raw, err := s.fetcher.Fetch(ctx, contestID)
	if err != nil {
		s.logger.Warn(ctx, "contest fetch failed", logger.String("contest_id", contestID), logger.Error(err))
		return err
	}
	s.store.SetTitle(ctx, contestID, raw.Title)

	for {
		entries, err := ranklist.Build(raw, includeLate)
		if err != nil {
			metrics.RecordErrorByComponent("ranklist", "insufficient_data")
			s.logger.Warn(ctx, "contest has no usable standings", logger.String("contest_id", contestID), logger.Error(err))
			return fmt.Errorf("contest %s: %w", contestID, err)
		}

		s.mu.RLock()
		if s.includeLate == includeLate {
			err = s.store.Set(ctx, model.ContestData{
				ContestID:    contestID,
				Title:        raw.Title,
				Ranklist:     entries,
				Participants: raw.Participants,
			})
			s.mu.RUnlock()
			return err
		}
		includeLate = s.includeLate
		s.mu.RUnlock()

		s.logger.Debug(ctx, "late submission setting changed during load; rebuilding",
			logger.String("contest_id", contestID),
			logger.Bool("include_late", includeLate),
		)
	}
}

// teamContext returns the teams for this computation, reusing the previous
// result when nothing it depends on has changed.
func (s *Service) teamContext(req Request, ids []string, snap *repository.Snapshot) teamContext {
	var key string
	if req.AutoDiscover {
		key = input.ContextKey("auto", ids, req.Merge, snap.Generation)
	} else {
		key = input.ContextKey("manual", req.Teams)
	}

	s.teamsMu.Lock()
	defer s.teamsMu.Unlock()
	if key == s.teamsKey {
		metrics.RecordTeamContextReuse()
		return s.teamsMemo
	}

	var tc teamContext
	if req.AutoDiscover {
		contests := make([]model.ContestData, 0, len(ids))
		for _, id := range ids {
			if data, ok := snap.Contests[id]; ok {
				contests = append(contests, data)
			}
		}
		auto := identity.BuildAutoTeamContext(contests, identity.ParseTeamGroups(req.Merge))
		tc = teamContext{groups: auto.TeamGroups, auto: &auto}
	} else {
		tc = teamContext{groups: identity.ParseTeamGroups(req.Teams)}
	}
	s.teamsKey = key
	s.teamsMemo = tc
	return tc
}

// Contest returns one cached contest.
func (s *Service) Contest(ctx context.Context, contestID string) (model.ContestData, error) {
	data, ok := s.store.Get(ctx, contestID)
	if !ok {
		return model.ContestData{}, fmt.Errorf("contest %s: %w", contestID, ErrNotCached)
	}
	return data, nil
}

// Invalidate drops one contest so the next computation fetches it again.
func (s *Service) Invalidate(ctx context.Context, contestID string) bool {
	return s.store.Invalidate(ctx, contestID)
}

// Clear drops every cached contest.
func (s *Service) Clear(ctx context.Context) int {
	return s.store.Clear(ctx)
}

// GetStats returns session statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	snap := s.store.Snapshot()

	s.mu.RLock()
	includeLate := s.includeLate
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"cachedContests":   len(snap.Contests),
		"knownTitles":      len(snap.Titles),
		"cacheGeneration":  snap.Generation,
		"includeLate":      includeLate,
		"fetchConcurrency": s.fetchConcurrency,
	}
	metrics.UpdateCacheSize(s.store.Count(ctx))
	return stats
}

// IsInputError reports whether err came from unusable session input rather
// than from the judge.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoContests) || errors.Is(err, ErrInvalidRequest)
}
