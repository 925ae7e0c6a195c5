package fakejudge

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/contestboard/pkg/logger"
)

// Verdict codes in generated submissions.
const (
	verdictAccepted = 1
	verdictRejected = 0
)

// lateWindow is how far past the end a late submission may land.
const lateWindow = 30 * time.Minute

const randomFloatDivisor = 1000000

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, n).
func getRandomInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// NewRoster creates n teams with unique handles. The same roster feeds every
// contest so teams recur across contests with different judge ids.
func NewRoster(n int) []Team {
	teams := make([]Team, n)
	for i := range teams {
		suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
		teams[i] = Team{
			Handle:   "team_" + suffix,
			Nickname: fmt.Sprintf("Team %s %d", strings.ToUpper(suffix[:3]), i+1),
		}
	}
	return teams
}

// Generate builds one contest. Roughly three quarters of the roster take
// part; a few submissions land after the end so late handling is visible.
func Generate(ctx context.Context, contestID string, cfg Config, roster []Team) (Contest, error) {
	id, err := strconv.Atoi(contestID)
	if err != nil {
		return Contest{}, fmt.Errorf("contest id %q: %w", contestID, err)
	}
	c := Contest{
		ID:           id,
		Title:        strings.TrimSpace(cfg.Title + " " + contestID),
		Begin:        time.Now().Add(-cfg.Length - time.Hour).UnixMilli(),
		Length:       int64(cfg.Length.Seconds()),
		Participants: make(map[string][2]string),
		Submissions:  [][4]any{},
	}

	nextID := 1000 + getRandomInt(9000)
	for _, team := range roster {
		select {
		case <-ctx.Done():
			return Contest{}, fmt.Errorf("generating contest %s: %w", contestID, ctx.Err())
		default:
		}
		if getRandomFloat() > 0.75 {
			continue
		}
		nextID += 1 + getRandomInt(5)
		c.Participants[strconv.Itoa(nextID)] = [2]string{team.Handle, team.Nickname}
		c.Submissions = append(c.Submissions, teamSubmissions(nextID, cfg)...)
	}

	logger.Get().Debug(ctx, "generated contest",
		logger.String("contest_id", contestID),
		logger.Int("participants", len(c.Participants)),
		logger.Int("submissions", len(c.Submissions)),
	)
	return c, nil
}

// teamSubmissions draws a submission log for one team. Skill decides how
// likely an attempt is accepted.
func teamSubmissions(teamID int, cfg Config) [][4]any {
	skill := 0.2 + getRandomFloat()*0.7
	n := getRandomInt(cfg.Attempts + 1)
	limit := cfg.Length.Seconds()
	subs := make([][4]any, 0, n)
	for range n {
		problem := getRandomInt(cfg.Problems)
		at := getRandomFloat() * limit
		if getRandomFloat() < 0.05 {
			at = limit + getRandomFloat()*lateWindow.Seconds()
		}
		verdict := verdictRejected
		if getRandomFloat() < skill {
			verdict = verdictAccepted
		}
		subs = append(subs, [4]any{teamID, problem, verdict, int(at)})
	}
	return subs
}
