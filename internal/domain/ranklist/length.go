package ranklist

import (
	"math"

	"github.com/okian/contestboard/internal/domain/model"
)

// Magnitude thresholds used to tell seconds from milliseconds.
const (
	millisecondDurationThreshold = 1e7  // durations above this are milliseconds
	millisecondEpochThreshold    = 1e12 // timestamps above this are epoch milliseconds
)

// LengthRule is one named way of reading the contest length from metadata.
type LengthRule struct {
	Name    string
	Resolve func(meta model.Metadata) (float64, bool)
}

// Field paths probed for contest timing, in priority order.
var (
	directLengthPaths = []string{"length", "duration", "contestLength", "contest.length", "contest.duration"}
	startPaths        = []string{"startTime", "begin", "beginTime", "start", "contest.startTime", "contest.begin"}
	endPaths          = []string{"endTime", "finishTime", "end", "contest.endTime", "contest.end"}
)

// LengthRules are tried in order; the first rule that resolves wins.
var LengthRules = buildLengthRules()

func buildLengthRules() []LengthRule {
	rules := make([]LengthRule, 0, len(directLengthPaths)+1)
	for _, path := range directLengthPaths {
		rules = append(rules, LengthRule{Name: path, Resolve: directLength(path)})
	}
	rules = append(rules, LengthRule{Name: "end-start", Resolve: spanLength})
	return rules
}

// ResolveContestLength returns the contest length in seconds, or +Inf when no
// rule resolves.
func ResolveContestLength(meta model.Metadata) float64 {
	for _, rule := range LengthRules {
		if v, ok := rule.Resolve(meta); ok {
			return v
		}
	}
	return math.Inf(1)
}

func directLength(path string) func(model.Metadata) (float64, bool) {
	return func(meta model.Metadata) (float64, bool) {
		v, ok := meta.Number(path)
		if !ok {
			return 0, false
		}
		return normalizeSeconds(v)
	}
}

func spanLength(meta model.Metadata) (float64, bool) {
	start, ok := firstTimestamp(meta, startPaths)
	if !ok {
		return 0, false
	}
	end, ok := firstTimestamp(meta, endPaths)
	if !ok || end <= start {
		return 0, false
	}
	return normalizeSeconds(end - start)
}

func firstTimestamp(meta model.Metadata, paths []string) (float64, bool) {
	for _, path := range paths {
		v, ok := meta.Number(path)
		if !ok {
			continue
		}
		if ts, ok := normalizeTimestamp(v); ok {
			return ts, true
		}
	}
	return 0, false
}

// normalizeSeconds converts a duration to whole seconds. Zero, negative and
// non-finite values do not resolve.
func normalizeSeconds(v float64) (float64, bool) {
	return scaleAbove(v, millisecondDurationThreshold)
}

// normalizeTimestamp converts an epoch value to whole seconds.
func normalizeTimestamp(v float64) (float64, bool) {
	return scaleAbove(v, millisecondEpochThreshold)
}

func scaleAbove(v, threshold float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	if v > threshold {
		v /= 1000
	}
	v = math.Round(v)
	if v <= 0 {
		return 0, false
	}
	return v, true
}
