package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSettingsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SetClub("g1", 12345, "common-gen5"))
	require.NoError(t, repo.SetChannel("g1", "match", "chan-match"))
	require.NoError(t, repo.SetChannel("g1", "milestone", "chan-mile"))

	s, err := repo.GetSettings("g1")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), s.ClubID)
	assert.Equal(t, "common-gen5", s.Platform)
	assert.Equal(t, "chan-match", s.MatchChannelID)
	assert.Equal(t, "chan-mile", s.MilestoneChannelID)
	assert.Empty(t, s.AchievementChannelID)
	assert.True(t, s.Autopost, "autopost defaults to on")
}

func TestGetSettingsNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetSettings("nope")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetChannelUnknownPurpose(t *testing.T) {
	repo := newTestRepo(t)

	assert.Error(t, repo.SetChannel("g1", "dms", "chan"))
}

func TestSetClubPreservesChannels(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SetChannel("g1", "match", "chan-match"))
	require.NoError(t, repo.SetClub("g1", 99, "common-gen4"))

	s, err := repo.GetSettings("g1")
	require.NoError(t, err)
	assert.Equal(t, "chan-match", s.MatchChannelID)
	assert.Equal(t, int64(99), s.ClubID)
}

func TestLastMatchCursorsAreIndependent(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.SetClub("g1", 12, "common-gen5"))

	require.NoError(t, repo.SetLastMatchID("g1", CategoryLeague, "league-1"))
	require.NoError(t, repo.SetLastMatchID("g1", CategoryPlayoff, "playoff-1"))

	s, err := repo.GetSettings("g1")
	require.NoError(t, err)
	assert.Equal(t, "league-1", s.LastLeagueMatchID)
	assert.Equal(t, "playoff-1", s.LastPlayoffMatchID)
}

func TestSetLastMatchIDRejectsUnknownCategory(t *testing.T) {
	repo := newTestRepo(t)

	assert.Error(t, repo.SetLastMatchID("g1", "friendly", "x"))
}

func TestMilestoneRecordedOnce(t *testing.T) {
	repo := newTestRepo(t)

	has, err := repo.HasMilestone("g1", "Sana", "goals", 10)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.RecordMilestone("g1", "Sana", "goals", 10))
	// Recording again must be a no-op, not an error.
	require.NoError(t, repo.RecordMilestone("g1", "Sana", "goals", 10))

	has, err = repo.HasMilestone("g1", "Sana", "goals", 10)
	require.NoError(t, err)
	assert.True(t, has)

	// Same threshold for a different guild is untouched.
	has, err = repo.HasMilestone("g2", "Sana", "goals", 10)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAchievementsPerGuildPerPlayer(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.RecordAchievement("g1", "Sana", "hat_trick_hero"))
	require.NoError(t, repo.RecordAchievement("g1", "Sana", "hat_trick_hero"))
	require.NoError(t, repo.RecordAchievement("g1", "Sana", "on_fire"))
	require.NoError(t, repo.RecordAchievement("g1", "Momo", "on_fire"))

	has, err := repo.HasAchievement("g1", "Sana", "hat_trick_hero")
	require.NoError(t, err)
	assert.True(t, has)

	earned, err := repo.ListAchievements("g1", "Sana")
	require.NoError(t, err)
	assert.Len(t, earned, 2)
}

func TestMatchHistoryIdempotent(t *testing.T) {
	repo := newTestRepo(t)

	entry := &MatchHistoryEntry{
		GuildID:    "g1",
		PlayerName: "Sana",
		MatchID:    "m1",
		Goals:      3,
		Assists:    1,
		Rating:     9.1,
		HatTrick:   true,
		Result:     "W",
		PlayedAt:   time.Now().UTC(),
	}

	inserted, err := repo.RecordMatchHistory(entry)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.RecordMatchHistory(entry)
	require.NoError(t, err)
	assert.False(t, inserted, "same (guild, player, match) must not double-record")

	history, err := repo.RecentHistory("g1", "Sana", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 3, history[0].Goals)
	assert.True(t, history[0].HatTrick)
}

func TestRecentHistoryNewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := repo.RecordMatchHistory(&MatchHistoryEntry{
			GuildID:    "g1",
			PlayerName: "Sana",
			MatchID:    string(rune('a' + i)),
			Goals:      i,
			PlayedAt:   base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	history, err := repo.RecentHistory("g1", "Sana", 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 4, history[0].Goals)
	assert.Equal(t, 3, history[1].Goals)
	assert.Equal(t, 2, history[2].Goals)
}

func TestAccumulateMonthly(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.AccumulateMonthly("g1", "Sana", "2026-03", 2, 1, 8.5))
	require.NoError(t, repo.AccumulateMonthly("g1", "Sana", "2026-03", 1, 0, 7.0))
	require.NoError(t, repo.AccumulateMonthly("g1", "Momo", "2026-03", 0, 2, 7.5))
	require.NoError(t, repo.AccumulateMonthly("g1", "Sana", "2026-04", 5, 0, 9.0))

	totals, err := repo.MonthlyTotals("g1", "2026-03")
	require.NoError(t, err)
	require.Len(t, totals, 2)

	byName := map[string]*PeriodTotals{}
	for _, pt := range totals {
		byName[pt.PlayerName] = pt
	}
	require.Contains(t, byName, "Sana")
	assert.Equal(t, 3, byName["Sana"].Goals)
	assert.Equal(t, 1, byName["Sana"].Assists)
	assert.Equal(t, 2, byName["Sana"].MatchesPlayed)
	assert.InDelta(t, 15.5, byName["Sana"].TotalRating, 0.001)
}

func TestPlayoffMatchTrackingAndSummary(t *testing.T) {
	repo := newTestRepo(t)

	inserted, err := repo.RecordPlayoffMatch("g1", "2026-03", "m1", "W", 4, 0, true)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.RecordPlayoffMatch("g1", "2026-03", "m1", "W", 4, 0, true)
	require.NoError(t, err)
	assert.False(t, inserted, "re-recording the same playoff match must be a no-op")

	_, err = repo.RecordPlayoffMatch("g1", "2026-03", "m2", "L", 1, 2, false)
	require.NoError(t, err)
	_, err = repo.RecordPlayoffMatch("g1", "2026-03", "m3", "D", 2, 2, false)
	require.NoError(t, err)

	count, err := repo.CountPlayoffMatches("g1", "2026-03")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	summary, err := repo.PlayoffSummary("g1", "2026-03")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalMatches)
	assert.Equal(t, 1, summary.Wins)
	assert.Equal(t, 1, summary.Losses)
	assert.Equal(t, 1, summary.Draws)
	assert.Equal(t, 7, summary.GoalsFor)
	assert.Equal(t, 4, summary.GoalsAgainst)
	assert.Equal(t, 1, summary.CleanSheets)
}

func TestPeriodAnnouncedFlag(t *testing.T) {
	repo := newTestRepo(t)

	announced, err := repo.HasPeriodAnnounced("g1", PeriodKindMonthly, "2026-02")
	require.NoError(t, err)
	assert.False(t, announced)

	require.NoError(t, repo.MarkPeriodAnnounced("g1", PeriodKindMonthly, "2026-02"))
	require.NoError(t, repo.MarkPeriodAnnounced("g1", PeriodKindMonthly, "2026-02"))

	announced, err = repo.HasPeriodAnnounced("g1", PeriodKindMonthly, "2026-02")
	require.NoError(t, err)
	assert.True(t, announced)

	// Kinds are independent flags for the same period string.
	announced, err = repo.HasPeriodAnnounced("g1", PeriodKindPlayoff, "2026-02")
	require.NoError(t, err)
	assert.False(t, announced)
}

func TestPlayerInitializedFlag(t *testing.T) {
	repo := newTestRepo(t)

	initialized, err := repo.IsPlayerInitialized("g1", "Sana")
	require.NoError(t, err)
	assert.False(t, initialized)

	require.NoError(t, repo.MarkPlayerInitialized("g1", "Sana"))

	initialized, err = repo.IsPlayerInitialized("g1", "Sana")
	require.NoError(t, err)
	assert.True(t, initialized)
}

func TestCacheMembersReplaces(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.CacheMembers("g1", []string{"Sana", "Momo"}))
	require.NoError(t, repo.CacheMembers("g1", []string{"Momo", "Mina"}))

	names, err := repo.CachedMembers("g1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Momo", "Mina"}, names)
}
