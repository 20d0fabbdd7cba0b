package ea

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	json "github.com/goccy/go-json"
)

// ErrNoIdentity means a match record carried no id, no embedded id, and no
// timestamp to synthesize one from. Callers should skip the record for this
// cycle rather than treat it as new.
var ErrNoIdentity = errors.New("match record carries no usable identity")

var embeddedIDPattern = regexp.MustCompile(`"matchId"\s*:\s*"(\d+)"`)

// MatchID derives a stable deduplication key for a match. The API encodes
// the identifier inconsistently, so extraction is an ordered chain, first
// success wins:
//
//  1. the direct matchId field
//  2. a matchId embedded in the matchJson sibling, which itself may be a
//     JSON object or a JSON document serialized into a string
//  3. a composite of timestamp and scoreline
//
// The composite is a weak uniqueness guarantee: two different matches with
// the same timestamp and score would collide. No stronger signal exists when
// the explicit id is absent.
func MatchID(m *Match) (string, error) {
	if m.ID != "" {
		return string(m.ID), nil
	}
	if id := embeddedMatchID(m.MatchJSON); id != "" {
		return id, nil
	}
	return compositeID(m)
}

func embeddedMatchID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var obj struct {
		MatchID String `json:"matchId"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.MatchID != "" {
		return string(obj.MatchID)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &obj); err == nil && obj.MatchID != "" {
			return string(obj.MatchID)
		}
		// Embedded documents are sometimes truncated or otherwise invalid;
		// fall back to scanning for the id field.
		if m := embeddedIDPattern.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}

// compositeID synthesizes an identity from the timestamp and scoreline,
// with club scores ordered by club id so the same match always yields the
// same string.
func compositeID(m *Match) (string, error) {
	if m.Timestamp == 0 {
		return "", ErrNoIdentity
	}

	scoreA, scoreB := "?", "?"
	ids := make([]string, 0, len(m.Clubs))
	for id := range m.Clubs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > 0 {
		scoreA = fmt.Sprintf("%d", m.Clubs[ids[0]].Score)
	}
	if len(ids) > 1 {
		scoreB = fmt.Sprintf("%d", m.Clubs[ids[1]].Score)
	}
	return fmt.Sprintf("%d:%s-%s", m.Timestamp, scoreA, scoreB), nil
}
