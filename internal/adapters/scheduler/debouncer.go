// Package scheduler coalesces bursts of input changes into single actions.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/contestboard/pkg/logger"
	"github.com/okian/contestboard/pkg/metrics"
)

// Channels used by the session and their default quiet periods.
const (
	ChannelContests = "contests"
	ChannelTeams    = "teams"

	DefaultContestDelay = 500 * time.Millisecond
	DefaultTeamDelay    = 800 * time.Millisecond
)

// Debouncer keeps at most one pending action per channel. Scheduling on a
// channel cancels its pending action and restarts the quiet period; nothing
// is ever queued behind a pending action.
type Debouncer struct {
	mu           sync.Mutex
	delays       map[string]time.Duration
	defaultDelay time.Duration
	pending      map[string]*pending
	seq          uint64
	closed       bool

	running sync.WaitGroup
	logger  logger.Logger
}

type pending struct {
	timer *time.Timer
	seq   uint64
}

// NewDebouncer creates a debouncer with the contests and teams channels
// configured to their default delays.
func NewDebouncer(opts ...Option) *Debouncer {
	db := &Debouncer{
		delays: map[string]time.Duration{
			ChannelContests: DefaultContestDelay,
			ChannelTeams:    DefaultTeamDelay,
		},
		defaultDelay: DefaultContestDelay,
		pending:      make(map[string]*pending),
		logger:       logger.Get().Named("debouncer"),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Delay returns the quiet period of a channel.
func (db *Debouncer) Delay(channel string) time.Duration {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.delayLocked(channel)
}

func (db *Debouncer) delayLocked(channel string) time.Duration {
	if d, ok := db.delays[channel]; ok {
		return d
	}
	return db.defaultDelay
}

// Schedule arranges for action to run once channel has been quiet for its
// delay. A later Schedule on the same channel supersedes this one. The
// action is skipped if ctx is done by the time it fires.
func (db *Debouncer) Schedule(ctx context.Context, channel string, action func(context.Context)) error {
	if channel == "" {
		return ErrEmptyChannel
	}
	if action == nil {
		return ErrNilAction
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return fmt.Errorf("schedule %s: %w", channel, ErrClosed)
	}

	if p, ok := db.pending[channel]; ok {
		p.timer.Stop()
	}
	db.seq++
	seq := db.seq
	p := &pending{seq: seq}
	p.timer = time.AfterFunc(db.delayLocked(channel), func() { db.fire(ctx, channel, seq, action) })
	db.pending[channel] = p

	metrics.RecordDebounceScheduled(channel)
	return nil
}

// fire runs action unless it was superseded or cancelled after its timer
// had already started.
func (db *Debouncer) fire(ctx context.Context, channel string, seq uint64, action func(context.Context)) {
	db.mu.Lock()
	p, ok := db.pending[channel]
	if !ok || p.seq != seq || db.closed {
		db.mu.Unlock()
		return
	}
	delete(db.pending, channel)
	db.running.Add(1)
	db.mu.Unlock()
	defer db.running.Done()

	if ctx.Err() != nil {
		return
	}
	metrics.RecordDebounceFired(channel)
	db.logger.Debug(ctx, "debounced action firing", logger.String("channel", channel))
	action(ctx)
}

// Cancel drops the pending action of a channel. Reports whether one existed.
func (db *Debouncer) Cancel(channel string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.pending[channel]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(db.pending, channel)
	return true
}

// Pending reports whether channel has an action waiting to fire.
func (db *Debouncer) Pending(channel string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, ok := db.pending[channel]
	return ok
}

// Shutdown cancels every pending action and waits for running ones.
func (db *Debouncer) Shutdown(ctx context.Context) error {
	db.mu.Lock()
	db.closed = true
	for ch, p := range db.pending {
		p.timer.Stop()
		delete(db.pending, ch)
	}
	db.mu.Unlock()

	done := make(chan struct{})
	go func() {
		db.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		db.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
