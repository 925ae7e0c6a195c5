package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/okian/contestboard/internal/adapters/scheduler"
	service "github.com/okian/contestboard/internal/app"
	"github.com/okian/contestboard/internal/config"
	"github.com/okian/contestboard/pkg/logger"
)

const schedulerShutdownTimeout = 5 * time.Second

func newWatchCmd(c *cli) *cobra.Command {
	var sessionPath, output string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompute the standings whenever a session file changes",
		Long: `watch reads contest ids, teams and view settings from a YAML session
file and prints the standings. Edits to the contest list refetch after a short
quiet period; edits that only touch teams or view settings recompute from the
cache after a slightly longer one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return c.watch(cmd.Context(), cmd.OutOrStdout(), sessionPath, output)
		},
	}
	cmd.Flags().StringVarP(&sessionPath, "session", "s", "session.yaml", "session file")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "table, json or yaml")
	return cmd
}

// watcher reprints standings for the latest session request.
type watcher struct {
	svc    *service.Service
	out    io.Writer
	output string
	log    logger.Logger

	mu      sync.Mutex
	current service.Request
	outMu   sync.Mutex
}

func (c *cli) watch(ctx context.Context, out io.Writer, path, output string) error {
	path = filepath.Clean(path)
	first, err := config.LoadSession(ctx, path, c.cfg.SessionDefaults())
	if err != nil {
		return err
	}

	w := &watcher{svc: c.newSession(), out: out, output: output, log: c.log, current: first}
	db := scheduler.NewDebouncer(
		scheduler.WithDelay(scheduler.ChannelContests, c.cfg.ContestDebounce()),
		scheduler.WithDelay(scheduler.ChannelTeams, c.cfg.TeamDebounce()),
		scheduler.WithLogger(c.log.Named("debouncer")),
	)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), schedulerShutdownTimeout)
		defer cancel()
		_ = db.Shutdown(shutdownCtx)
	}()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer fw.Close()
	// Editors often replace the file, so watch its directory.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w.recompute(ctx, scheduler.ChannelContests)
	c.log.Info(ctx, "watching session file", logger.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			next, err := config.LoadSession(ctx, path, c.cfg.SessionDefaults())
			if err != nil {
				c.log.Warn(ctx, "ignoring unreadable session file", logger.Error(err))
				continue
			}
			channel, changed := w.update(next)
			if !changed {
				continue
			}
			if channel == scheduler.ChannelContests {
				// The contests recompute covers any pending team edit.
				db.Cancel(scheduler.ChannelTeams)
			}
			if err := db.Schedule(ctx, channel, func(ctx context.Context) { w.recompute(ctx, channel) }); err != nil {
				return err
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			c.log.Warn(ctx, "file watcher error", logger.Error(err))
		}
	}
}

// update stores next and reports which channel its changes belong to.
func (w *watcher) update(next service.Request) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	channel, changed := changedChannel(w.current, next)
	if changed {
		w.current = next
	}
	return channel, changed
}

// recompute renders the latest request. Team edits never contact the judge.
func (w *watcher) recompute(ctx context.Context, channel string) {
	w.mu.Lock()
	req := w.current
	w.mu.Unlock()

	req.Trigger = channel
	req.CacheOnly = channel == scheduler.ChannelTeams

	views, err := w.svc.Compute(ctx, req)
	w.outMu.Lock()
	defer w.outMu.Unlock()
	fmt.Fprintf(w.out, "\n--- %s (%s) ---\n", time.Now().Format(time.TimeOnly), channel)
	if err != nil {
		fmt.Fprintln(w.out, service.UserMessage(err))
		return
	}
	if err := render(w.out, views, w.output); err != nil {
		w.log.Error(ctx, "render failed", logger.Error(err))
	}
}

// changedChannel classifies the difference between two session requests.
// Contest list and late-submission changes need a refetch; everything else
// recomputes from the cache.
func changedChannel(prev, next service.Request) (string, bool) {
	switch {
	case prev.ContestIDs != next.ContestIDs, prev.IncludeLate != next.IncludeLate:
		return scheduler.ChannelContests, true
	case prev.Teams != next.Teams,
		prev.Merge != next.Merge,
		prev.AutoDiscover != next.AutoDiscover,
		prev.EloMode != next.EloMode,
		prev.Selection.Mode != next.Selection.Mode,
		!slices.Equal(prev.Selection.Selected, next.Selection.Selected):
		return scheduler.ChannelTeams, true
	default:
		return "", false
	}
}
