package ea

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Platform values accepted by the Pro Clubs API.
const (
	PlatformGen5 = "common-gen5" // PS5 / Xbox Series / PC
	PlatformGen4 = "common-gen4" // PS4 / Xbox One
)

// Match type filters for /clubs/matches. League and playoff matches are
// fetched and cursored independently.
const (
	MatchTypeLeague  = "leagueMatch"
	MatchTypePlayoff = "playoffMatch"
)

// Int decodes EA's numeric fields, which arrive either as JSON numbers or as
// quoted strings ("goals": "12"). Missing, null and empty values decode to 0.
type Int int

func (n *Int) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Occasionally integral fields show up as floats
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return err
		}
		v = int64(f)
	}
	*n = Int(v)
	return nil
}

// Float is the floating-point counterpart of Int.
type Float float64

func (f *Float) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// String decodes fields that may arrive as a JSON string or a bare number.
type String string

func (s *String) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err == nil {
		*s = String(v)
		return nil
	}
	trimmed := strings.Trim(string(data), `"`)
	if trimmed == "null" {
		trimmed = ""
	}
	*s = String(trimmed)
	return nil
}

// Match is one entry from the club's match history. The identity fields are
// inconsistent across responses; use MatchID to derive a stable identifier.
type Match struct {
	ID        String          `json:"matchId"`
	Timestamp Int             `json:"timestamp"`
	MatchJSON json.RawMessage `json:"matchJson"`

	// Keyed by club id as a decimal string.
	Clubs map[string]MatchClub `json:"clubs"`

	// Players are nested club id -> player id -> stat line.
	Players map[string]map[string]MatchPlayer `json:"players"`
}

// MatchClub is one club's side of a match.
type MatchClub struct {
	Name        String `json:"name"`
	Score       Int    `json:"score"`
	Result      String `json:"result"` // "1" win, "2" loss, "3" draw, "4" DNF
	SkillRating Int    `json:"skillrating"`
}

// MatchPlayer is a single player's stat line from one match.
type MatchPlayer struct {
	PlayerName     String `json:"playername"`
	Goals          Int    `json:"goals"`
	Assists        Int    `json:"assists"`
	Rating         Float  `json:"rating"`
	MOTM           Int    `json:"mom"`
	Position       String `json:"pos"`
	CleanSheetsDef Int    `json:"cleansheetsdef"`
	CleanSheetsGK  Int    `json:"cleansheetsgk"`
}

// Club is the normalized /clubs/info entry for a single club.
type Club struct {
	ClubID      Int    `json:"clubId"`
	Name        String `json:"name"`
	RegionID    Int    `json:"regionId"`
	SkillRating Int    `json:"skillRating"`
}

// Member is one player's cumulative career stats from /members/stats.
type Member struct {
	Name              String `json:"name"`
	GamesPlayed       Int    `json:"gamesPlayed"`
	Goals             Int    `json:"goals"`
	Assists           Int    `json:"assists"`
	ManOfTheMatch     Int    `json:"manOfTheMatch"`
	ShotSuccessRate   Int    `json:"shotSuccessRate"`
	PassSuccessRate   Int    `json:"passSuccessRate"`
	TackleSuccessRate Int    `json:"tackleSuccessRate"`
	TacklesMade       Int    `json:"tacklesMade"`
	CleanSheetsGK     Int    `json:"cleanSheetsGK"`
	CleanSheetsDef    Int    `json:"cleanSheetsDef"`
	RatingAve         Float  `json:"ratingAve"`
	FavoritePosition  String `json:"favoritePosition"`
	WinRate           Int    `json:"winRate"`
}

// ResultLetter converts an EA result code to W/L/D. DNF and unknown codes
// count as losses, matching how the site presents them.
func ResultLetter(code String) string {
	switch code {
	case "1":
		return "W"
	case "3":
		return "D"
	default:
		return "L"
	}
}

// Side returns the tracked club's side and its opponent from a match, if
// both are present.
func (m *Match) Side(clubID int64) (our MatchClub, opp MatchClub, ok bool) {
	id := strconv.FormatInt(clubID, 10)
	our, ok = m.Clubs[id]
	if !ok {
		return MatchClub{}, MatchClub{}, false
	}
	for cid, c := range m.Clubs {
		if cid != id {
			return our, c, true
		}
	}
	return our, MatchClub{}, true
}

// PlayerLines returns the tracked club's player stat lines from a match.
func (m *Match) PlayerLines(clubID int64) map[string]MatchPlayer {
	return m.Players[strconv.FormatInt(clubID, 10)]
}
