package storage

import "time"

// Match categories tracked with independent cursors.
const (
	CategoryLeague  = "league"
	CategoryPlayoff = "playoff"
)

// Period award kinds guarded by the announced_periods table.
const (
	PeriodKindMonthly = "monthly"
	PeriodKindPlayoff = "playoff"
)

// GuildSettings stores per-guild tracking configuration and poll cursors.
// A guild with no club id is inert for polling.
type GuildSettings struct {
	GuildID              string
	ClubID               int64
	Platform             string
	MatchChannelID       string
	MilestoneChannelID   string
	AchievementChannelID string
	MonthlyChannelID     string
	PlayoffChannelID     string
	Autopost             bool
	LastLeagueMatchID    string
	LastPlayoffMatchID   string
	UpdatedAt            time.Time
}

// MatchHistoryEntry is one player's line from one recorded match. The
// (guild, player, match) key is written at most once.
type MatchHistoryEntry struct {
	GuildID    string
	PlayerName string
	MatchID    string
	Goals      int
	Assists    int
	Rating     float64
	CleanSheet bool
	HatTrick   bool
	Position   string
	Result     string // W, L or D
	PlayedAt   time.Time
}

// PeriodTotals is a player's accumulated line for one monthly or playoff
// period.
type PeriodTotals struct {
	PlayerName    string
	Goals         int
	Assists       int
	TotalRating   float64
	MatchesPlayed int
}

// PlayoffClubSummary aggregates the club's playoff results for one period.
type PlayoffClubSummary struct {
	TotalMatches int
	Wins         int
	Losses       int
	Draws        int
	GoalsFor     int
	GoalsAgainst int
	CleanSheets  int
}

// EarnedAchievement is a recorded achievement for display commands.
type EarnedAchievement struct {
	AchievementID string
	EarnedAt      time.Time
}
