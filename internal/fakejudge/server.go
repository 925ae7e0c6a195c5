package fakejudge

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/okian/contestboard/pkg/logger"
)

// RankPathPrefix is the route the judge serves standings under.
const RankPathPrefix = "/contest/rank/single/"

var contestIDPattern = regexp.MustCompile(`^\d+$`)

// Server answers standings requests with generated contests. A contest is
// generated on first request and served unchanged afterwards.
type Server struct {
	cfg    Config
	roster []Team

	mu       sync.Mutex
	contests map[string]Contest

	logger logger.Logger
}

// NewServer creates a fake judge with a fresh roster.
func NewServer(cfg Config) *Server {
	return &Server{
		cfg:      cfg,
		roster:   NewRoster(cfg.Teams),
		contests: make(map[string]Contest),
		logger:   logger.Get().Named("fake-judge"),
	}
}

// Register attaches the standings route to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.Handle(RankPathPrefix, s)
}

// ServeHTTP handles GET /contest/rank/single/{id}.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, RankPathPrefix)
	if !contestIDPattern.MatchString(id) || s.cfg.Missing[id] {
		http.NotFound(w, r)
		return
	}
	if s.cfg.Empty[id] {
		writeJSON(w, map[string]string{"title": s.cfg.Title + " " + id})
		return
	}

	contest, err := s.contest(r.Context(), id)
	if err != nil {
		s.logger.Error(r.Context(), "contest generation failed", logger.String("contest_id", id), logger.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Info(r.Context(), "served contest", logger.String("contest_id", id))
	writeJSON(w, contest)
}

func (s *Server) contest(ctx context.Context, id string) (Contest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.contests[id]; ok {
		return c, nil
	}
	c, err := Generate(ctx, id, s.cfg, s.roster)
	if err != nil {
		return Contest{}, err
	}
	s.contests[id] = c
	return c, nil
}

// Roster returns the teams contests are drawn from.
func (s *Server) Roster() []Team {
	return append([]Team(nil), s.roster...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
