// Package fakejudge serves synthetic contest standings in the judge's wire
// format so the tool can be exercised without network access.
package fakejudge

import "time"

// Config shapes generated contests.
type Config struct {
	Teams    int           // size of the shared team roster
	Problems int           // problems per contest
	Length   time.Duration // contest length
	Attempts int           // upper bound of submissions per team
	Title    string        // title prefix; the contest id is appended

	// Missing contest ids answer 404; Empty ones answer a payload without
	// standings, the way a throttled judge does.
	Missing map[string]bool
	Empty   map[string]bool
}

// DefaultConfig returns a small five hour contest setup.
func DefaultConfig() Config {
	return Config{
		Teams:    24,
		Problems: 10,
		Length:   5 * time.Hour,
		Attempts: 12,
		Title:    "Practice Round",
	}
}

// Contest is the judge's standings payload.
type Contest struct {
	ID           int                  `json:"id"`
	Title        string               `json:"title"`
	Begin        int64                `json:"begin"`  // epoch milliseconds
	Length       int64                `json:"length"` // seconds
	Participants map[string][2]string `json:"participants"`
	Submissions  [][4]any             `json:"submissions"`
}

// Team is one roster member: an account handle and a display name.
type Team struct {
	Handle   string
	Nickname string
}
