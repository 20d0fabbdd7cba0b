package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by point lookups when no row exists.
var ErrNotFound = errors.New("storage: not found")

// Repository handles all database operations
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new repository with SQLite
func NewRepository(dbPath string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the database schema
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			guild_id                VARCHAR(20) PRIMARY KEY,
			club_id                 INTEGER,
			platform                VARCHAR(20),
			match_channel_id        VARCHAR(20),
			milestone_channel_id    VARCHAR(20),
			achievement_channel_id  VARCHAR(20),
			monthly_channel_id      VARCHAR(20),
			playoff_channel_id      VARCHAR(20),
			autopost                INTEGER DEFAULT 1,
			last_league_match_id    VARCHAR(100),
			last_playoff_match_id   VARCHAR(100),
			updated_at              TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS player_milestones (
			guild_id        VARCHAR(20) NOT NULL,
			player_name     VARCHAR(50) NOT NULL,
			milestone_type  VARCHAR(20) NOT NULL,
			milestone_value INTEGER NOT NULL,
			achieved_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (guild_id, player_name, milestone_type, milestone_value)
		)`,
		`CREATE TABLE IF NOT EXISTS player_achievements (
			guild_id       VARCHAR(20) NOT NULL,
			player_name    VARCHAR(50) NOT NULL,
			achievement_id VARCHAR(50) NOT NULL,
			earned_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (guild_id, player_name, achievement_id)
		)`,
		`CREATE TABLE IF NOT EXISTS player_match_history (
			guild_id    VARCHAR(20) NOT NULL,
			player_name VARCHAR(50) NOT NULL,
			match_id    VARCHAR(100) NOT NULL,
			goals       INTEGER NOT NULL DEFAULT 0,
			assists     INTEGER NOT NULL DEFAULT 0,
			rating      REAL NOT NULL DEFAULT 0,
			clean_sheet INTEGER NOT NULL DEFAULT 0,
			hat_trick   INTEGER NOT NULL DEFAULT 0,
			position    VARCHAR(20),
			result      VARCHAR(1),
			played_at   TIMESTAMP,
			PRIMARY KEY (guild_id, player_name, match_id)
		)`,
		`CREATE TABLE IF NOT EXISTS monthly_stats (
			guild_id       VARCHAR(20) NOT NULL,
			player_name    VARCHAR(50) NOT NULL,
			period         VARCHAR(7) NOT NULL,
			goals          INTEGER NOT NULL DEFAULT 0,
			assists        INTEGER NOT NULL DEFAULT 0,
			total_rating   REAL NOT NULL DEFAULT 0,
			matches_played INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (guild_id, player_name, period)
		)`,
		`CREATE TABLE IF NOT EXISTS playoff_stats (
			guild_id       VARCHAR(20) NOT NULL,
			player_name    VARCHAR(50) NOT NULL,
			period         VARCHAR(7) NOT NULL,
			goals          INTEGER NOT NULL DEFAULT 0,
			assists        INTEGER NOT NULL DEFAULT 0,
			total_rating   REAL NOT NULL DEFAULT 0,
			matches_played INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (guild_id, player_name, period)
		)`,
		`CREATE TABLE IF NOT EXISTS playoff_matches (
			guild_id      VARCHAR(20) NOT NULL,
			period        VARCHAR(7) NOT NULL,
			match_id      VARCHAR(100) NOT NULL,
			result        VARCHAR(1) NOT NULL,
			goals_for     INTEGER NOT NULL DEFAULT 0,
			goals_against INTEGER NOT NULL DEFAULT 0,
			clean_sheet   INTEGER NOT NULL DEFAULT 0,
			recorded_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (guild_id, period, match_id)
		)`,
		`CREATE TABLE IF NOT EXISTS announced_periods (
			guild_id     VARCHAR(20) NOT NULL,
			kind         VARCHAR(10) NOT NULL,
			period       VARCHAR(7) NOT NULL,
			announced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (guild_id, kind, period)
		)`,
		`CREATE TABLE IF NOT EXISTS player_flags (
			guild_id       VARCHAR(20) NOT NULL,
			player_name    VARCHAR(50) NOT NULL,
			initialized_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (guild_id, player_name)
		)`,
		`CREATE TABLE IF NOT EXISTS member_cache (
			guild_id    VARCHAR(20) NOT NULL,
			player_name VARCHAR(50) NOT NULL,
			cached_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (guild_id, player_name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_player ON player_match_history(guild_id, player_name, played_at)`,
		`CREATE INDEX IF NOT EXISTS idx_monthly_period ON monthly_stats(guild_id, period)`,
		`CREATE INDEX IF NOT EXISTS idx_playoff_period ON playoff_stats(guild_id, period)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Settings operations

// SetClub stores the tracked club and platform for a guild.
func (r *Repository) SetClub(guildID string, clubID int64, platform string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (guild_id, club_id, platform, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET club_id = excluded.club_id, platform = excluded.platform, updated_at = excluded.updated_at`,
		guildID, clubID, platform, time.Now().UTC(),
	)
	return err
}

// channel columns addressable by SetChannel, keyed by purpose
var channelColumns = map[string]string{
	"match":       "match_channel_id",
	"milestone":   "milestone_channel_id",
	"achievement": "achievement_channel_id",
	"monthly":     "monthly_channel_id",
	"playoff":     "playoff_channel_id",
}

// SetChannel routes a notification purpose to a Discord channel.
func (r *Repository) SetChannel(guildID, purpose, channelID string) error {
	col, ok := channelColumns[purpose]
	if !ok {
		return fmt.Errorf("unknown channel purpose %q", purpose)
	}
	_, err := r.db.Exec(
		fmt.Sprintf(
			`INSERT INTO settings (guild_id, %s, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(guild_id) DO UPDATE SET %s = excluded.%s, updated_at = excluded.updated_at`,
			col, col, col,
		),
		guildID, channelID, time.Now().UTC(),
	)
	return err
}

// SetAutopost toggles automatic match posting for a guild.
func (r *Repository) SetAutopost(guildID string, enabled bool) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (guild_id, autopost, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET autopost = excluded.autopost, updated_at = excluded.updated_at`,
		guildID, enabled, time.Now().UTC(),
	)
	return err
}

// SetLastMatchID advances the dedup cursor for one match category. Only
// called after a successful post.
func (r *Repository) SetLastMatchID(guildID, category, matchID string) error {
	var col string
	switch category {
	case CategoryLeague:
		col = "last_league_match_id"
	case CategoryPlayoff:
		col = "last_playoff_match_id"
	default:
		return fmt.Errorf("unknown match category %q", category)
	}
	_, err := r.db.Exec(
		fmt.Sprintf(`UPDATE settings SET %s = ?, updated_at = ? WHERE guild_id = ?`, col),
		matchID, time.Now().UTC(), guildID,
	)
	return err
}

const settingsColumns = `guild_id, COALESCE(club_id, 0), COALESCE(platform, ''),
	COALESCE(match_channel_id, ''), COALESCE(milestone_channel_id, ''),
	COALESCE(achievement_channel_id, ''), COALESCE(monthly_channel_id, ''),
	COALESCE(playoff_channel_id, ''), autopost,
	COALESCE(last_league_match_id, ''), COALESCE(last_playoff_match_id, ''), updated_at`

func scanSettings(row interface{ Scan(...any) error }) (*GuildSettings, error) {
	s := &GuildSettings{}
	err := row.Scan(
		&s.GuildID, &s.ClubID, &s.Platform,
		&s.MatchChannelID, &s.MilestoneChannelID,
		&s.AchievementChannelID, &s.MonthlyChannelID,
		&s.PlayoffChannelID, &s.Autopost,
		&s.LastLeagueMatchID, &s.LastPlayoffMatchID, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSettings retrieves one guild's settings.
func (r *Repository) GetSettings(guildID string) (*GuildSettings, error) {
	row := r.db.QueryRow(
		`SELECT `+settingsColumns+` FROM settings WHERE guild_id = ?`, guildID,
	)
	s, err := scanSettings(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// AllSettings returns every configured guild, for the poll loop.
func (r *Repository) AllSettings() ([]*GuildSettings, error) {
	rows, err := r.db.Query(`SELECT ` + settingsColumns + ` FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []*GuildSettings
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, s)
	}
	return all, rows.Err()
}

// Milestone operations

// HasMilestone reports whether a milestone has already been announced.
func (r *Repository) HasMilestone(guildID, playerName, milestoneType string, value int) (bool, error) {
	var one int
	err := r.db.QueryRow(
		`SELECT 1 FROM player_milestones WHERE guild_id = ? AND player_name = ? AND milestone_type = ? AND milestone_value = ?`,
		guildID, playerName, milestoneType, value,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// RecordMilestone records a milestone announcement. Idempotent.
func (r *Repository) RecordMilestone(guildID, playerName, milestoneType string, value int) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO player_milestones (guild_id, player_name, milestone_type, milestone_value) VALUES (?, ?, ?, ?)`,
		guildID, playerName, milestoneType, value,
	)
	return err
}

// Achievement operations

// HasAchievement reports whether an achievement has already been recorded.
func (r *Repository) HasAchievement(guildID, playerName, achievementID string) (bool, error) {
	var one int
	err := r.db.QueryRow(
		`SELECT 1 FROM player_achievements WHERE guild_id = ? AND player_name = ? AND achievement_id = ?`,
		guildID, playerName, achievementID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// RecordAchievement records an earned achievement. Idempotent.
func (r *Repository) RecordAchievement(guildID, playerName, achievementID string) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO player_achievements (guild_id, player_name, achievement_id) VALUES (?, ?, ?)`,
		guildID, playerName, achievementID,
	)
	return err
}

// ListAchievements returns a player's earned achievements, newest first.
func (r *Repository) ListAchievements(guildID, playerName string) ([]*EarnedAchievement, error) {
	rows, err := r.db.Query(
		`SELECT achievement_id, earned_at FROM player_achievements WHERE guild_id = ? AND player_name = ? ORDER BY earned_at DESC`,
		guildID, playerName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var earned []*EarnedAchievement
	for rows.Next() {
		e := &EarnedAchievement{}
		if err := rows.Scan(&e.AchievementID, &e.EarnedAt); err != nil {
			return nil, err
		}
		earned = append(earned, e)
	}
	return earned, rows.Err()
}

// Match history operations

// RecordMatchHistory appends one player's line from one match. Re-delivery
// of the same match is a no-op; returns whether a row was inserted.
func (r *Repository) RecordMatchHistory(e *MatchHistoryEntry) (bool, error) {
	res, err := r.db.Exec(
		`INSERT OR IGNORE INTO player_match_history
		 (guild_id, player_name, match_id, goals, assists, rating, clean_sheet, hat_trick, position, result, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.GuildID, e.PlayerName, e.MatchID, e.Goals, e.Assists, e.Rating,
		e.CleanSheet, e.HatTrick, e.Position, e.Result, e.PlayedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RecentHistory returns up to n of the player's most recent recorded
// matches, newest first.
func (r *Repository) RecentHistory(guildID, playerName string, n int) ([]*MatchHistoryEntry, error) {
	rows, err := r.db.Query(
		`SELECT guild_id, player_name, match_id, goals, assists, rating, clean_sheet, hat_trick,
		        COALESCE(position, ''), COALESCE(result, ''), played_at
		 FROM player_match_history
		 WHERE guild_id = ? AND player_name = ?
		 ORDER BY played_at DESC, rowid DESC
		 LIMIT ?`,
		guildID, playerName, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*MatchHistoryEntry
	for rows.Next() {
		e := &MatchHistoryEntry{}
		if err := rows.Scan(
			&e.GuildID, &e.PlayerName, &e.MatchID, &e.Goals, &e.Assists, &e.Rating,
			&e.CleanSheet, &e.HatTrick, &e.Position, &e.Result, &e.PlayedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Period accumulation

func (r *Repository) accumulate(table, guildID, playerName, period string, goals, assists int, rating float64) error {
	_, err := r.db.Exec(
		`INSERT INTO `+table+` (guild_id, player_name, period, goals, assists, total_rating, matches_played)
		 VALUES (?, ?, ?, ?, ?, ?, 1)
		 ON CONFLICT(guild_id, player_name, period) DO UPDATE SET
			goals = goals + excluded.goals,
			assists = assists + excluded.assists,
			total_rating = total_rating + excluded.total_rating,
			matches_played = matches_played + 1`,
		guildID, playerName, period, goals, assists, rating,
	)
	return err
}

// AccumulateMonthly adds one match's line into the player's monthly totals.
// The caller guarantees each match is fed in at most once.
func (r *Repository) AccumulateMonthly(guildID, playerName, period string, goals, assists int, rating float64) error {
	return r.accumulate("monthly_stats", guildID, playerName, period, goals, assists, rating)
}

// AccumulatePlayoff is AccumulateMonthly for the playoff aggregate.
func (r *Repository) AccumulatePlayoff(guildID, playerName, period string, goals, assists int, rating float64) error {
	return r.accumulate("playoff_stats", guildID, playerName, period, goals, assists, rating)
}

func (r *Repository) periodTotals(table, guildID, period string) ([]*PeriodTotals, error) {
	rows, err := r.db.Query(
		`SELECT player_name, goals, assists, total_rating, matches_played
		 FROM `+table+` WHERE guild_id = ? AND period = ?`,
		guildID, period,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*PeriodTotals
	for rows.Next() {
		t := &PeriodTotals{}
		if err := rows.Scan(&t.PlayerName, &t.Goals, &t.Assists, &t.TotalRating, &t.MatchesPlayed); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// MonthlyTotals returns every player's accumulated monthly line for a period.
func (r *Repository) MonthlyTotals(guildID, period string) ([]*PeriodTotals, error) {
	return r.periodTotals("monthly_stats", guildID, period)
}

// PlayoffTotals returns every player's accumulated playoff line for a period.
func (r *Repository) PlayoffTotals(guildID, period string) ([]*PeriodTotals, error) {
	return r.periodTotals("playoff_stats", guildID, period)
}

// Playoff club results

// RecordPlayoffMatch stores the club-level result of one playoff match.
// Idempotent on (guild, period, match); returns whether a row was inserted.
func (r *Repository) RecordPlayoffMatch(guildID, period, matchID, result string, goalsFor, goalsAgainst int, cleanSheet bool) (bool, error) {
	res, err := r.db.Exec(
		`INSERT OR IGNORE INTO playoff_matches (guild_id, period, match_id, result, goals_for, goals_against, clean_sheet)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		guildID, period, matchID, result, goalsFor, goalsAgainst, cleanSheet,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountPlayoffMatches returns how many playoff matches have been recorded
// for the period. Drives the completion predicate.
func (r *Repository) CountPlayoffMatches(guildID, period string) (int, error) {
	var n int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM playoff_matches WHERE guild_id = ? AND period = ?`,
		guildID, period,
	).Scan(&n)
	return n, err
}

// PlayoffSummary aggregates the club's playoff results for a period.
func (r *Repository) PlayoffSummary(guildID, period string) (*PlayoffClubSummary, error) {
	s := &PlayoffClubSummary{}
	err := r.db.QueryRow(
		`SELECT COUNT(*),
			COALESCE(SUM(result = 'W'), 0),
			COALESCE(SUM(result = 'L'), 0),
			COALESCE(SUM(result = 'D'), 0),
			COALESCE(SUM(goals_for), 0),
			COALESCE(SUM(goals_against), 0),
			COALESCE(SUM(clean_sheet), 0)
		 FROM playoff_matches WHERE guild_id = ? AND period = ?`,
		guildID, period,
	).Scan(&s.TotalMatches, &s.Wins, &s.Losses, &s.Draws, &s.GoalsFor, &s.GoalsAgainst, &s.CleanSheets)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Announcement cursors

// HasPeriodAnnounced reports whether a period award was already posted.
func (r *Repository) HasPeriodAnnounced(guildID, kind, period string) (bool, error) {
	var one int
	err := r.db.QueryRow(
		`SELECT 1 FROM announced_periods WHERE guild_id = ? AND kind = ? AND period = ?`,
		guildID, kind, period,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// MarkPeriodAnnounced records that a period award was posted. Idempotent.
func (r *Repository) MarkPeriodAnnounced(guildID, kind, period string) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO announced_periods (guild_id, kind, period) VALUES (?, ?, ?)`,
		guildID, kind, period,
	)
	return err
}

// Player flags

// IsPlayerInitialized reports whether the player has been seen before by
// this guild's tracker (historical backfill already applied).
func (r *Repository) IsPlayerInitialized(guildID, playerName string) (bool, error) {
	var one int
	err := r.db.QueryRow(
		`SELECT 1 FROM player_flags WHERE guild_id = ? AND player_name = ?`,
		guildID, playerName,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// MarkPlayerInitialized flags a player as backfilled. Idempotent.
func (r *Repository) MarkPlayerInitialized(guildID, playerName string) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO player_flags (guild_id, player_name) VALUES (?, ?)`,
		guildID, playerName,
	)
	return err
}

// Member cache for slash command autocomplete

// CacheMembers replaces the cached roster names for a guild.
func (r *Repository) CacheMembers(guildID string, names []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM member_cache WHERE guild_id = ?`, guildID); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO member_cache (guild_id, player_name) VALUES (?, ?)`,
			guildID, name,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CachedMembers returns the cached roster names, sorted.
func (r *Repository) CachedMembers(guildID string) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT player_name FROM member_cache WHERE guild_id = ? ORDER BY player_name`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
