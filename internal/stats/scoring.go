package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Weights define the period scoring policy. The weighting is tunable
// configuration, not structure: changing it must not touch orchestration or
// dedup logic.
type Weights struct {
	Goals   float64
	Assists float64
	Rating  float64
	Matches float64
}

// DefaultWeights is the scheme used for Player of the Month and Player of
// the Playoffs: Goals×10 + Assists×7 + AvgRating×5 + Matches×2.
func DefaultWeights() Weights {
	return Weights{Goals: 10, Assists: 7, Rating: 5, Matches: 2}
}

// Formula renders the scoring scheme for display, e.g. in embed footers.
func (w Weights) Formula() string {
	return fmt.Sprintf("Score = Goals×%g + Assists×%g + Avg Rating×%g + Matches×%g",
		w.Goals, w.Assists, w.Rating, w.Matches)
}

// PeriodLine is a player's accumulated line for one scoring period.
type PeriodLine struct {
	PlayerName    string
	Goals         int
	Assists       int
	TotalRating   float64
	MatchesPlayed int
}

// AvgRating derives the average match rating for the period.
func (l PeriodLine) AvgRating() float64 {
	if l.MatchesPlayed == 0 {
		return 0
	}
	return l.TotalRating / float64(l.MatchesPlayed)
}

// Score computes the weighted period score for one line.
func (w Weights) Score(l PeriodLine) float64 {
	return float64(l.Goals)*w.Goals +
		float64(l.Assists)*w.Assists +
		l.AvgRating()*w.Rating +
		float64(l.MatchesPlayed)*w.Matches
}

// RankedLine is a PeriodLine with its computed score.
type RankedLine struct {
	PeriodLine
	Score float64
}

// Rank orders lines by score descending. Equal scores rank alphabetically by
// player name (case-insensitive) so repeated runs over the same input always
// produce the same winner.
func Rank(w Weights, lines []PeriodLine) []RankedLine {
	ranked := make([]RankedLine, len(lines))
	for i, l := range lines {
		ranked[i] = RankedLine{PeriodLine: l, Score: w.Score(l)}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return strings.ToLower(ranked[i].PlayerName) < strings.ToLower(ranked[j].PlayerName)
	})
	return ranked
}

// MonthPeriod formats t's calendar month as a period key (YYYY-MM, UTC).
func MonthPeriod(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// PreviousMonthPeriod returns the period key for the month before t's.
func PreviousMonthPeriod(t time.Time) string {
	return t.UTC().AddDate(0, -1, -t.UTC().Day()+1).Format("2006-01")
}
