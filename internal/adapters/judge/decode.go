package judge

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/okian/contestboard/internal/domain/model"
)

// Decode turns a judge response body into a ContestRaw. Missing or
// malformed participants and submissions are left unset for the ranklist
// builder to report; only a body that is not a JSON object is an error.
func Decode(contestID string, body []byte) (model.ContestRaw, error) {
	if !gjson.ValidBytes(body) {
		return model.ContestRaw{}, &FetchError{ContestID: contestID, Kind: ErrDecode}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return model.ContestRaw{}, &FetchError{ContestID: contestID, Kind: ErrDecode}
	}

	raw := model.ContestRaw{
		ContestID: contestID,
		Title:     strings.TrimSpace(root.Get("title").String()),
		Meta:      model.Metadata(body),
	}

	if p := root.Get("participants"); p.IsObject() {
		raw.HasParticipants = true
		raw.Participants = make(map[int]model.Participant)
		p.ForEach(func(key, value gjson.Result) bool {
			id, err := strconv.Atoi(key.String())
			if err != nil {
				return true
			}
			raw.Participants[id] = model.Participant{
				Handle:      value.Get("0").String(),
				DisplayName: value.Get("1").String(),
			}
			return true
		})
	}

	if s := root.Get("submissions"); s.IsArray() {
		raw.HasSubmissions = true
		s.ForEach(func(_, value gjson.Result) bool {
			if sub, ok := decodeSubmission(value); ok {
				raw.Submissions = append(raw.Submissions, sub)
			}
			return true
		})
	}

	if r := root.Get("ranklist"); r.IsArray() {
		r.ForEach(func(_, value gjson.Result) bool {
			if value.IsObject() {
				raw.Ranklist = append(raw.Ranklist, decodeEntry(value))
			}
			return true
		})
	}
	return raw, nil
}

// decodeSubmission reads [teamId, problemId, verdict, offsetSeconds].
// A verdict of exactly 1 means accepted.
func decodeSubmission(v gjson.Result) (model.Submission, bool) {
	if !v.IsArray() {
		return model.Submission{}, false
	}
	team, ok := integer(v.Get("0"))
	if !ok {
		return model.Submission{}, false
	}
	verdict := v.Get("2")
	offset := v.Get("3")
	sub := model.Submission{
		TeamID:    team,
		ProblemID: v.Get("1").String(),
		Accepted:  verdict.Type == gjson.Number && verdict.Num == 1,
	}
	if offset.Type == gjson.Number {
		sub.OffsetSeconds = offset.Num
	}
	return sub, true
}

// decodeEntry reads one pre-built ranklist row. Both snake and camel case
// field names are accepted. When both team name spellings are present and
// differ, the camel case one stays matchable as the alternate name, or as an
// alias if an alternate name is already given.
func decodeEntry(v gjson.Result) model.RankEntry {
	e := model.RankEntry{
		DisplayName: first(v, "team_name", "teamName", "name").String(),
		AltName:     first(v, "alt_name", "altName").String(),
		Handle:      first(v, "handle", "username").String(),
		Solved:      int(first(v, "solved", "solvedCount").Int()),
		Submissions: int(first(v, "submissions", "submissionCount").Int()),
	}
	if id, ok := integer(first(v, "team_id", "teamId", "id")); ok {
		e.TeamID = id
	}
	if r := v.Get("rank"); r.Type == gjson.Number && r.Num >= 1 {
		e.Rank = int(r.Num)
	}
	if p := first(v, "penalty", "time"); p.Type == gjson.Number || p.Type == gjson.String {
		if f, err := strconv.ParseFloat(strings.TrimSpace(p.String()), 64); err == nil {
			e.PenaltySeconds = f
		}
	}
	v.Get("aliases").ForEach(func(_, a gjson.Result) bool {
		if s := a.String(); s != "" {
			e.Aliases = append(e.Aliases, s)
		}
		return true
	})
	if camel := v.Get("teamName").String(); camel != "" && camel != e.DisplayName {
		if e.AltName == "" {
			e.AltName = camel
		} else if camel != e.AltName {
			e.Aliases = append(e.Aliases, camel)
		}
	}
	return e
}

func first(v gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func integer(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number:
		return int(v.Num), true
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		return n, err == nil
	default:
		return 0, false
	}
}
