package ea

import (
	"errors"
	"strconv"

	json "github.com/goccy/go-json"
)

// The API's top-level shape is unstable: the same endpoint can answer with a
// bare list, an object wrapping a named list, or a map keyed by club id.
// Everything is resolved to one uniform shape here so nothing downstream has
// to re-discover it.

// normalizeClubInfo extracts the entry for clubID from a /clubs/info body.
func normalizeClubInfo(body []byte, clubID int64) (Club, error) {
	want := strconv.FormatInt(clubID, 10)

	var asList []Club
	if err := json.Unmarshal(body, &asList); err == nil {
		for _, c := range asList {
			if int64(c.ClubID) == clubID {
				return c, nil
			}
		}
		if len(asList) > 0 {
			return asList[0], nil
		}
		return Club{}, errEmptyResponse("/clubs/info")
	}

	var asMap map[string]Club
	if err := json.Unmarshal(body, &asMap); err == nil {
		if c, ok := asMap[want]; ok {
			if c.ClubID == 0 {
				c.ClubID = Int(clubID)
			}
			return c, nil
		}
		for _, c := range asMap {
			return c, nil
		}
		return Club{}, errEmptyResponse("/clubs/info")
	}

	return Club{}, errDecode("/clubs/info")
}

// normalizeMatches accepts either a bare list or {"matches": [...]}.
func normalizeMatches(body []byte) ([]Match, error) {
	var asList []Match
	if err := json.Unmarshal(body, &asList); err == nil {
		return asList, nil
	}

	var wrapped struct {
		Matches []Match `json:"matches"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		return wrapped.Matches, nil
	}

	return nil, errDecode("/clubs/matches")
}

// normalizeMembers accepts either a bare list or {"members": [...]}.
func normalizeMembers(body []byte) ([]Member, error) {
	var asList []Member
	if err := json.Unmarshal(body, &asList); err == nil {
		return asList, nil
	}

	var wrapped struct {
		Members []Member `json:"members"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		return wrapped.Members, nil
	}

	return nil, errDecode("/members/stats")
}

var (
	errNoEntries    = errors.New("response contained no entries")
	errUnknownShape = errors.New("unrecognized response shape")
)

func errEmptyResponse(path string) error {
	return &APIError{Path: path, Err: errNoEntries}
}

func errDecode(path string) error {
	return &APIError{Path: path, Err: errUnknownShape}
}
