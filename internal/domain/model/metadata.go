package model

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Metadata is the raw JSON object returned by the judge. It is kept around so
// optional fields (contest length, timestamps) can be probed by path.
type Metadata []byte

// Number reads a numeric field addressed by a dotted path such as
// "contest.length". Numeric strings are accepted; anything else is absent.
func (m Metadata) Number(path string) (float64, bool) {
	if len(m) == 0 {
		return 0, false
	}
	r := gjson.GetBytes(m, path)
	switch r.Type {
	case gjson.Number:
		return r.Float(), true
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
