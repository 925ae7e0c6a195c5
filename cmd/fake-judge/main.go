package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/contestboard/internal/fakejudge"
	"github.com/okian/contestboard/pkg/logger"
)

// Server timeout constants.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	defaults := fakejudge.DefaultConfig()
	var (
		addr     = flag.String("addr", ":9999", "Listen address")
		teams    = flag.Int("teams", defaults.Teams, "Number of teams in the shared roster")
		problems = flag.Int("problems", defaults.Problems, "Problems per contest")
		length   = flag.Duration("length", defaults.Length, "Contest length")
		title    = flag.String("title", defaults.Title, "Contest title prefix")
		missing  = flag.String("missing", "", "Comma separated contest ids that answer 404")
		empty    = flag.String("empty", "", "Comma separated contest ids that answer without standings")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get().Named("fake-judge")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := defaults
	cfg.Teams = *teams
	cfg.Problems = *problems
	cfg.Length = *length
	cfg.Title = *title
	cfg.Missing = idSet(*missing)
	cfg.Empty = idSet(*empty)

	judge := fakejudge.NewServer(cfg)
	mux := http.NewServeMux()
	judge.Register(ctx, mux)

	srv := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: readHeaderTimeout}
	go func() {
		log.Info(ctx, "fake judge listening", logger.String("addr", *addr), logger.Int("teams", cfg.Teams))
		for _, team := range judge.Roster() {
			log.Debug(ctx, "roster", logger.String("handle", team.Handle), logger.String("nickname", team.Nickname))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("fake judge failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "shutdown failed", logger.Error(err))
	}
}

func idSet(list string) map[string]bool {
	out := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out[id] = true
		}
	}
	return out
}
