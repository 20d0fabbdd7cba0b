package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreFormula(t *testing.T) {
	w := DefaultWeights()

	line := PeriodLine{
		Goals:         3,
		Assists:       2,
		TotalRating:   16.0, // 8.0 average over 2 matches
		MatchesPlayed: 2,
	}

	// 3*10 + 2*7 + 8.0*5 + 2*2 = 88
	assert.InDelta(t, 88.0, w.Score(line), 0.001)
}

func TestAvgRatingZeroMatches(t *testing.T) {
	line := PeriodLine{TotalRating: 9.5}
	assert.Zero(t, line.AvgRating())
}

func TestRankOrdersByScore(t *testing.T) {
	lines := []PeriodLine{
		{PlayerName: "mid", Goals: 5, MatchesPlayed: 5},
		{PlayerName: "top", Goals: 10, MatchesPlayed: 5},
		{PlayerName: "low", Goals: 1, MatchesPlayed: 5},
	}

	ranked := Rank(DefaultWeights(), lines)

	require.Len(t, ranked, 3)
	assert.Equal(t, "top", ranked[0].PlayerName)
	assert.Equal(t, "mid", ranked[1].PlayerName)
	assert.Equal(t, "low", ranked[2].PlayerName)
}

func TestRankTieBreaksAlphabetically(t *testing.T) {
	lines := []PeriodLine{
		{PlayerName: "zidane", Goals: 5, MatchesPlayed: 3},
		{PlayerName: "Baggio", Goals: 5, MatchesPlayed: 3},
		{PlayerName: "maldini", Goals: 5, MatchesPlayed: 3},
	}

	// Identical stat lines must rank the same way every run, regardless of
	// input order or name casing.
	ranked := Rank(DefaultWeights(), lines)

	require.Len(t, ranked, 3)
	assert.Equal(t, "Baggio", ranked[0].PlayerName)
	assert.Equal(t, "maldini", ranked[1].PlayerName)
	assert.Equal(t, "zidane", ranked[2].PlayerName)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	lines := []PeriodLine{
		{PlayerName: "b", Goals: 1},
		{PlayerName: "a", Goals: 9},
	}

	Rank(DefaultWeights(), lines)

	assert.Equal(t, "b", lines[0].PlayerName)
}

func TestMonthPeriod(t *testing.T) {
	ts := time.Date(2026, time.March, 14, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03", MonthPeriod(ts))
}

func TestPreviousMonthPeriod(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), "2026-02"},
		{time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), "2025-12"},
		{time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC), "2026-02"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PreviousMonthPeriod(tt.now), "now=%s", tt.now)
	}
}
