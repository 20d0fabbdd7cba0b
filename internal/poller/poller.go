package poller

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/announce"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/ea"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/stats"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/storage"
)

// Upstream is the slice of the EA client the poller depends on.
type Upstream interface {
	Warmup(ctx context.Context)
	ClubInfo(ctx context.Context, platform string, clubID int64) (ea.Club, string, error)
	LatestMatch(ctx context.Context, platform string, clubID int64, matchType string) (*ea.Match, error)
	MemberStats(ctx context.Context, platform string, clubID int64) ([]ea.Member, error)
}

// Config holds the poller's tunables.
type Config struct {
	Interval          time.Duration
	ForbiddenCooldown time.Duration
	PlayoffMinMatches int
	Weights           stats.Weights
}

// Poller periodically checks every configured guild's club for new matches
// and derived milestone, achievement and period-award events.
type Poller struct {
	repo      *storage.Repository
	upstream  Upstream
	announcer announce.Announcer
	cfg       Config

	// cooldownUntil suspends polling per guild after the API starts
	// returning 403s, so one blocked club does not burn requests.
	cooldownUntil map[string]time.Time
	now           func() time.Time

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new Poller.
func New(repo *storage.Repository, upstream Upstream, announcer announce.Announcer, cfg Config) *Poller {
	return &Poller{
		repo:          repo,
		upstream:      upstream,
		announcer:     announcer,
		cfg:           cfg,
		cooldownUntil: make(map[string]time.Time),
		now:           time.Now,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the polling loop
func (p *Poller) Start(ctx context.Context) {
	slog.Info("Starting poller", "interval", p.cfg.Interval)

	p.wg.Add(1)
	defer p.wg.Done()

	timer := time.NewTimer(p.tickDelay())
	defer timer.Stop()

	// Initial poll
	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Poller stopped (context cancelled)")
			return
		case <-p.stopChan:
			slog.Info("Poller stopped")
			return
		case <-timer.C:
			p.poll(ctx)
			timer.Reset(p.tickDelay())
		}
	}
}

// tickDelay returns the base interval plus up to 10% of random jitter, so
// polls from many deployments don't land on EA's API in lockstep.
func (p *Poller) tickDelay() time.Duration {
	jitterMax := int64(p.cfg.Interval / 10)
	if jitterMax <= 0 {
		return p.cfg.Interval
	}
	return p.cfg.Interval + time.Duration(rand.Int64N(jitterMax))
}

// Stop signals the poller to stop
func (p *Poller) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}

// poll runs one full cycle across all configured guilds.
func (p *Poller) poll(ctx context.Context) {
	settings, err := p.repo.AllSettings()
	if err != nil {
		slog.Error("Failed to load guild settings", "error", err)
		return
	}

	if len(settings) == 0 {
		slog.Debug("No guilds to poll")
		return
	}

	// Refresh session cookies once per cycle. Requests go out with stale or
	// missing cookies otherwise, which trips EA's bot protection faster.
	p.upstream.Warmup(ctx)

	slog.Debug("Polling guilds", "count", len(settings))

	for _, s := range settings {
		select {
		case <-ctx.Done():
			return
		default:
			p.processGuild(ctx, s)
		}
	}
}

// processGuild runs the full per-guild pipeline: match detection for both
// categories, roster-derived milestones and achievements, then period awards.
func (p *Poller) processGuild(ctx context.Context, s *storage.GuildSettings) {
	if s.ClubID == 0 || s.MatchChannelID == "" || !s.Autopost {
		return
	}

	if until, ok := p.cooldownUntil[s.GuildID]; ok {
		if p.now().Before(until) {
			slog.Debug("Guild in forbidden cooldown", "guild", s.GuildID, "until", until)
			return
		}
		delete(p.cooldownUntil, s.GuildID)
	}

	club, platform, err := p.upstream.ClubInfo(ctx, s.Platform, s.ClubID)
	if err != nil {
		p.handleUpstreamError(s, err, "club info")
		return
	}
	clubName := string(club.Name)
	if clubName == "" {
		clubName = "Your Club"
	}

	for _, category := range []string{storage.CategoryLeague, storage.CategoryPlayoff} {
		if err := p.checkCategory(ctx, s, platform, clubName, category); err != nil {
			p.handleUpstreamError(s, err, "matches")
			return
		}
	}

	members, err := p.upstream.MemberStats(ctx, platform, s.ClubID)
	if err != nil {
		p.handleUpstreamError(s, err, "member stats")
	} else {
		names := make([]string, 0, len(members))
		for _, m := range members {
			if n := string(m.Name); n != "" {
				names = append(names, n)
			}
		}
		if err := p.repo.CacheMembers(s.GuildID, names); err != nil {
			slog.Error("Failed to cache members", "guild", s.GuildID, "error", err)
		}
		for _, m := range members {
			p.evaluatePlayer(s, m)
		}
	}

	if err := p.announceMonthly(s); err != nil {
		slog.Error("Failed to announce monthly award", "guild", s.GuildID, "error", err)
	}
	if err := p.checkPlayoffCompletion(s); err != nil {
		slog.Error("Failed to announce playoff award", "guild", s.GuildID, "error", err)
	}
}

// handleUpstreamError logs an upstream failure and, on 403s, puts the guild
// into cooldown for a while instead of hammering the API every cycle.
func (p *Poller) handleUpstreamError(s *storage.GuildSettings, err error, stage string) {
	var forbidden *ea.ForbiddenError
	if errors.As(err, &forbidden) {
		until := p.now().Add(p.cfg.ForbiddenCooldown)
		p.cooldownUntil[s.GuildID] = until
		slog.Warn("EA API returned 403, backing off", "guild", s.GuildID, "stage", stage, "until", until)
		return
	}
	slog.Error("EA API request failed", "guild", s.GuildID, "stage", stage, "error", err)
}

// checkCategory fetches the latest match of one category and, if it is new,
// posts it and records its stats. The stored cursor only advances after the
// Discord post succeeds, so a failed post is retried next cycle rather than
// silently dropped.
func (p *Poller) checkCategory(ctx context.Context, s *storage.GuildSettings, platform, clubName, category string) error {
	matchType := ea.MatchTypeLeague
	cursor := s.LastLeagueMatchID
	if category == storage.CategoryPlayoff {
		matchType = ea.MatchTypePlayoff
		cursor = s.LastPlayoffMatchID
	}

	m, err := p.upstream.LatestMatch(ctx, platform, s.ClubID, matchType)
	if err != nil {
		return err
	}
	if m == nil {
		return nil
	}

	id, err := ea.MatchID(m)
	if err != nil {
		slog.Warn("Match has no usable identity, skipping category this cycle",
			"guild", s.GuildID, "category", category, "error", err)
		return nil
	}

	if id == cursor {
		return nil
	}

	embed := announce.MatchEmbed(s.ClubID, clubName, m, category)
	if err := p.announcer.Post(s.MatchChannelID, embed); err != nil {
		slog.Error("Failed to post match result", "guild", s.GuildID, "match", id, "error", err)
		return nil
	}

	if err := p.repo.SetLastMatchID(s.GuildID, category, id); err != nil {
		slog.Error("Failed to advance match cursor", "guild", s.GuildID, "match", id, "error", err)
		return nil
	}
	slog.Info("Posted new match", "guild", s.GuildID, "category", category, "match", id)

	p.recordMatch(s, m, id, category)
	return nil
}

// recordMatch feeds an already-posted match into history, period aggregates
// and the per-match achievement evaluators.
func (p *Poller) recordMatch(s *storage.GuildSettings, m *ea.Match, id, category string) {
	our, opp, ok := m.Side(s.ClubID)
	if !ok {
		slog.Warn("Match payload missing our club, stats not recorded", "guild", s.GuildID, "match", id)
		return
	}

	result := ea.ResultLetter(our.Result)
	cleanSheet := int(opp.Score) == 0

	playedAt := p.now().UTC()
	if ts := int64(m.Timestamp); ts > 0 {
		playedAt = time.Unix(ts, 0).UTC()
	}
	period := stats.MonthPeriod(playedAt)

	team := stats.TeamContext{
		Won:                 result == "W",
		GoalsFor:            int(our.Score),
		GoalsAgainst:        int(opp.Score),
		SkillRating:         int(our.SkillRating),
		OpponentSkillRating: int(opp.SkillRating),
	}

	for key, line := range m.PlayerLines(s.ClubID) {
		name := string(line.PlayerName)
		if name == "" {
			name = key
		}
		goals := int(line.Goals)
		assists := int(line.Assists)
		rating := float64(line.Rating)

		var err error
		if category == storage.CategoryPlayoff {
			err = p.repo.AccumulatePlayoff(s.GuildID, name, period, goals, assists, rating)
		} else {
			err = p.repo.AccumulateMonthly(s.GuildID, name, period, goals, assists, rating)
		}
		if err != nil {
			slog.Error("Failed to accumulate period stats", "guild", s.GuildID, "player", name, "error", err)
		}

		inserted, err := p.repo.RecordMatchHistory(&storage.MatchHistoryEntry{
			GuildID:    s.GuildID,
			PlayerName: name,
			MatchID:    id,
			Goals:      goals,
			Assists:    assists,
			Rating:     rating,
			CleanSheet: cleanSheet,
			HatTrick:   goals >= 3,
			Position:   string(line.Position),
			Result:     result,
			PlayedAt:   playedAt,
		})
		if err != nil {
			slog.Error("Failed to record match history", "guild", s.GuildID, "player", name, "error", err)
			continue
		}
		if inserted {
			p.evaluateMatchAchievements(s, name, stats.MatchLine{
				Goals:   goals,
				Assists: assists,
				Rating:  rating,
				MOTM:    int(line.MOTM) > 0,
			}, team)
		}
	}

	if category == storage.CategoryPlayoff {
		if _, err := p.repo.RecordPlayoffMatch(s.GuildID, period, id, result, int(our.Score), int(opp.Score), cleanSheet); err != nil {
			slog.Error("Failed to record playoff match", "guild", s.GuildID, "match", id, "error", err)
		}
	}
}

// evaluateMatchAchievements runs the match-context and streak evaluators for
// one player after their history line was recorded. Achievements are recorded
// before they are announced: a failed Discord post never causes a repeat.
func (p *Poller) evaluateMatchAchievements(s *storage.GuildSettings, name string, line stats.MatchLine, team stats.TeamContext) {
	if s.AchievementChannelID == "" {
		return
	}

	already := p.achievementFilter(s.GuildID, name)

	earned := stats.CheckMatchAchievements(line, team, already)

	history, err := p.repo.RecentHistory(s.GuildID, name, 20)
	if err != nil {
		slog.Error("Failed to load history for streaks", "guild", s.GuildID, "player", name, "error", err)
	} else {
		entries := make([]stats.HistoryEntry, len(history))
		for i, h := range history {
			entries[i] = stats.HistoryEntry{Goals: h.Goals, CleanSheet: h.CleanSheet}
		}
		earned = append(earned, stats.CheckStreakAchievements(entries, already)...)
	}

	for _, a := range earned {
		p.grantAchievement(s, name, a)
	}
}

// evaluatePlayer evaluates roster-derived milestones and career achievements
// for one club member. The first time a player is seen their pre-existing
// accomplishments are recorded silently and summarized in a single embed, so
// a veteran joining the tracker does not trigger a flood of announcements.
func (p *Poller) evaluatePlayer(s *storage.GuildSettings, m ea.Member) {
	name := string(m.Name)
	if name == "" {
		return
	}
	totals := memberTotals(m)

	initialized, err := p.repo.IsPlayerInitialized(s.GuildID, name)
	if err != nil {
		slog.Error("Failed to check player init state", "guild", s.GuildID, "player", name, "error", err)
		return
	}
	if !initialized {
		p.backfillPlayer(s, name, totals)
		return
	}

	if s.MilestoneChannelID != "" {
		events := stats.CheckMilestones(totals, func(stat string, threshold int) bool {
			has, err := p.repo.HasMilestone(s.GuildID, name, stat, threshold)
			if err != nil {
				slog.Error("Failed to check milestone", "guild", s.GuildID, "player", name, "error", err)
				return true
			}
			return has
		})
		for _, e := range events {
			if err := p.repo.RecordMilestone(s.GuildID, name, e.Stat, e.Threshold); err != nil {
				slog.Error("Failed to record milestone", "guild", s.GuildID, "player", name, "error", err)
				continue
			}
			if err := p.announcer.Post(s.MilestoneChannelID, announce.MilestoneEmbed(name, e)); err != nil {
				slog.Error("Failed to post milestone", "guild", s.GuildID, "player", name, "error", err)
			}
		}
	}

	if s.AchievementChannelID != "" {
		earned := stats.CheckCareerAchievements(totals, p.achievementFilter(s.GuildID, name))
		for _, a := range earned {
			p.grantAchievement(s, name, a)
		}
	}
}

// backfillPlayer records a newly seen player's already-crossed milestones and
// career achievements without individual announcements, then posts one
// historical summary.
func (p *Poller) backfillPlayer(s *storage.GuildSettings, name string, totals stats.PlayerTotals) {
	crossed := stats.CrossedMilestones(totals)
	career := stats.CheckCareerAchievements(totals, func(string) bool { return false })

	for _, e := range crossed {
		if err := p.repo.RecordMilestone(s.GuildID, name, e.Stat, e.Threshold); err != nil {
			slog.Error("Failed to backfill milestone", "guild", s.GuildID, "player", name, "error", err)
			return
		}
	}
	for _, a := range career {
		if err := p.repo.RecordAchievement(s.GuildID, name, a.ID); err != nil {
			slog.Error("Failed to backfill achievement", "guild", s.GuildID, "player", name, "error", err)
			return
		}
	}

	if err := p.repo.MarkPlayerInitialized(s.GuildID, name); err != nil {
		slog.Error("Failed to mark player initialized", "guild", s.GuildID, "player", name, "error", err)
		return
	}
	slog.Info("Initialized player", "guild", s.GuildID, "player", name,
		"milestones", len(crossed), "achievements", len(career))

	if s.MilestoneChannelID != "" {
		if err := p.announcer.Post(s.MilestoneChannelID, announce.HistoricalEmbed(name, crossed, career)); err != nil {
			slog.Error("Failed to post historical summary", "guild", s.GuildID, "player", name, "error", err)
		}
	}
}

// achievementFilter returns an already-earned predicate backed by the
// repository. Lookup failures err on the side of not re-announcing.
func (p *Poller) achievementFilter(guildID, name string) func(id string) bool {
	return func(id string) bool {
		has, err := p.repo.HasAchievement(guildID, name, id)
		if err != nil {
			slog.Error("Failed to check achievement", "guild", guildID, "player", name, "error", err)
			return true
		}
		return has
	}
}

// grantAchievement records one achievement and announces it.
func (p *Poller) grantAchievement(s *storage.GuildSettings, name string, a stats.Achievement) {
	if err := p.repo.RecordAchievement(s.GuildID, name, a.ID); err != nil {
		slog.Error("Failed to record achievement", "guild", s.GuildID, "player", name, "achievement", a.ID, "error", err)
		return
	}
	if err := p.announcer.Post(s.AchievementChannelID, announce.AchievementEmbed(name, a)); err != nil {
		slog.Error("Failed to post achievement", "guild", s.GuildID, "player", name, "achievement", a.ID, "error", err)
	}
}

// announceMonthly posts the previous month's Player of the Month award if it
// has activity and was not announced yet. Announced state is only marked after
// a successful post, so a failed delivery retries next cycle.
func (p *Poller) announceMonthly(s *storage.GuildSettings) error {
	if s.MonthlyChannelID == "" {
		return nil
	}

	period := stats.PreviousMonthPeriod(p.now())

	announced, err := p.repo.HasPeriodAnnounced(s.GuildID, storage.PeriodKindMonthly, period)
	if err != nil || announced {
		return err
	}

	totals, err := p.repo.MonthlyTotals(s.GuildID, period)
	if err != nil {
		return err
	}
	if len(totals) == 0 {
		return nil
	}

	ranked := stats.Rank(p.cfg.Weights, periodLines(totals))
	if err := p.announcer.Post(s.MonthlyChannelID, announce.MonthlyAwardEmbed(period, p.cfg.Weights, ranked)); err != nil {
		return err
	}
	slog.Info("Announced player of the month", "guild", s.GuildID, "period", period, "winner", ranked[0].PlayerName)
	return p.repo.MarkPeriodAnnounced(s.GuildID, storage.PeriodKindMonthly, period)
}

// checkPlayoffCompletion announces Player of the Playoffs once the current
// period has accumulated a full playoff run's worth of matches.
func (p *Poller) checkPlayoffCompletion(s *storage.GuildSettings) error {
	if s.PlayoffChannelID == "" {
		return nil
	}

	period := stats.MonthPeriod(p.now())

	count, err := p.repo.CountPlayoffMatches(s.GuildID, period)
	if err != nil {
		return err
	}
	if count < p.cfg.PlayoffMinMatches {
		return nil
	}

	announced, err := p.repo.HasPeriodAnnounced(s.GuildID, storage.PeriodKindPlayoff, period)
	if err != nil || announced {
		return err
	}

	totals, err := p.repo.PlayoffTotals(s.GuildID, period)
	if err != nil {
		return err
	}
	if len(totals) == 0 {
		return nil
	}

	summary, err := p.repo.PlayoffSummary(s.GuildID, period)
	if err != nil {
		return err
	}

	ranked := stats.Rank(p.cfg.Weights, periodLines(totals))
	if err := p.announcer.Post(s.PlayoffChannelID, announce.PlayoffAwardEmbed(period, p.cfg.Weights, ranked, summary)); err != nil {
		return err
	}
	slog.Info("Announced player of the playoffs", "guild", s.GuildID, "period", period, "winner", ranked[0].PlayerName)
	return p.repo.MarkPeriodAnnounced(s.GuildID, storage.PeriodKindPlayoff, period)
}

// memberTotals maps an EA member stat line onto the evaluators' totals.
func memberTotals(m ea.Member) stats.PlayerTotals {
	return stats.PlayerTotals{
		Name:              string(m.Name),
		Matches:           int(m.GamesPlayed),
		Goals:             int(m.Goals),
		Assists:           int(m.Assists),
		ManOfTheMatch:     int(m.ManOfTheMatch),
		ShotSuccessRate:   int(m.ShotSuccessRate),
		PassSuccessRate:   int(m.PassSuccessRate),
		TackleSuccessRate: int(m.TackleSuccessRate),
		TacklesMade:       int(m.TacklesMade),
		CleanSheetsGK:     int(m.CleanSheetsGK),
		CleanSheetsDef:    int(m.CleanSheetsDef),
	}
}

func periodLines(totals []*storage.PeriodTotals) []stats.PeriodLine {
	lines := make([]stats.PeriodLine, len(totals))
	for i, t := range totals {
		lines[i] = stats.PeriodLine{
			PlayerName:    t.PlayerName,
			Goals:         t.Goals,
			Assists:       t.Assists,
			TotalRating:   t.TotalRating,
			MatchesPlayed: t.MatchesPlayed,
		}
	}
	return lines
}
