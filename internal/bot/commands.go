package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/ea"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/stats"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/storage"
)

func platformChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Current gen (PS5 / Xbox Series X|S)", Value: "gen5"},
		{Name: "Last gen (PS4 / Xbox One)", Value: "gen4"},
	}
}

func channelOption() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "The channel to send notifications to",
			Required:    true,
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
		},
	}
}

func playerOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "player",
		Description:  "Club member name",
		Required:     required,
		Autocomplete: true,
	}
}

// Slash command definitions
func (b *Bot) getCommandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "setclub",
			Description: "Set the Pro Clubs club this server tracks",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "club",
					Description: "Club ID, or a proclubs.ea.com URL containing clubId=...",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "platform",
					Description: "Console generation (defaults to current gen)",
					Required:    false,
					Choices:     platformChoices(),
				},
			},
		},
		{
			Name:        "setmatchchannel",
			Description: "Set the channel for match result posts",
			Options:     channelOption(),
		},
		{
			Name:        "setmilestonechannel",
			Description: "Set the channel for player milestone announcements",
			Options:     channelOption(),
		},
		{
			Name:        "setachievementchannel",
			Description: "Set the channel for player achievement announcements",
			Options:     channelOption(),
		},
		{
			Name:        "setmonthlychannel",
			Description: "Set the channel for Player of the Month announcements",
			Options:     channelOption(),
		},
		{
			Name:        "setplayoffchannel",
			Description: "Set the channel for Player of the Playoffs announcements",
			Options:     channelOption(),
		},
		{
			Name:        "autopost",
			Description: "Enable or disable automatic match posting",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Whether new matches are posted automatically",
					Required:    true,
				},
			},
		},
		{
			Name:        "clubstats",
			Description: "Show the tracked club's overview",
		},
		{
			Name:        "lastmatches",
			Description: "Show the club's last five league matches",
		},
		{
			Name:        "listachievements",
			Description: "List every achievement the bot can award",
		},
		{
			Name:        "playerstats",
			Description: "Show a club member's career stats",
			Options:     []*discordgo.ApplicationCommandOption{playerOption(true)},
		},
		{
			Name:        "leaderboard",
			Description: "Show a club leaderboard",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "category",
					Description: "Which leaderboard to show",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "This month", Value: "monthly"},
						{Name: "Playoffs", Value: "playoff"},
						{Name: "Career goals", Value: "goals"},
						{Name: "Career assists", Value: "assists"},
						{Name: "Average rating", Value: "rating"},
						{Name: "Man of the Match awards", Value: "motm"},
						{Name: "Win rate", Value: "winrate"},
						{Name: "Pass accuracy", Value: "passacc"},
						{Name: "Goals per match", Value: "goalsper"},
						{Name: "Assists per match", Value: "assistsper"},
					},
				},
			},
		},
		{
			Name:        "achievements",
			Description: "Show a club member's earned achievements",
			Options:     []*discordgo.ApplicationCommandOption{playerOption(true)},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands")

	commandDefinitions := b.getCommandDefinitions()
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commandDefinitions))

	for _, cmd := range commandDefinitions {
		registered, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string = global command
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
		slog.Debug("Registered command", "name", cmd.Name)
	}

	b.commands = registeredCommands
	slog.Info("Slash commands registered", "count", len(registeredCommands))
	return nil
}

// handleSetClub handles the /setclub command
func (b *Bot) handleSetClub(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	clubInput := options[0].StringValue()
	gen := ""
	if len(options) > 1 {
		gen = options[1].StringValue()
	}

	// Respond immediately to avoid timeout
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	clubID := ea.ParseClubID(clubInput)
	if clubID == 0 {
		b.editResponse(s, i, fmt.Sprintf("Could not read a club ID from `%s`. Pass the numeric ID or a proclubs.ea.com URL.", clubInput))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	b.client.Warmup(ctx)

	club, platform, err := b.client.ClubInfo(ctx, ea.PlatformFromChoice(gen), clubID)
	if err != nil {
		slog.Error("Failed to look up club", "clubID", clubID, "error", err)
		b.editResponse(s, i, fmt.Sprintf("Could not find club `%d` on EA's servers. Check the ID and platform and try again.", clubID))
		return
	}

	if err := b.repo.SetClub(i.GuildID, clubID, platform); err != nil {
		slog.Error("Failed to save club settings", "error", err)
		b.editResponse(s, i, "Failed to save club settings. Please try again.")
		return
	}

	b.editResponse(s, i, fmt.Sprintf("Now tracking **%s** (ID `%d`, skill rating %d).\nUse `/setmatchchannel` to choose where matches are posted.",
		club.Name, clubID, int(club.SkillRating)))
}

// handleSetChannel handles all five channel routing commands
func (b *Bot) handleSetChannel(s *discordgo.Session, i *discordgo.InteractionCreate, purpose, label string) {
	channel := i.ApplicationCommandData().Options[0].ChannelValue(s)

	if err := b.repo.SetChannel(i.GuildID, purpose, channel.ID); err != nil {
		slog.Error("Failed to save channel setting", "purpose", purpose, "error", err)
		respondWithMessage(s, i, "Failed to set channel. Please try again.")
		return
	}

	respondWithMessage(s, i, fmt.Sprintf("%s will be sent to <#%s>", label, channel.ID))
}

// handleAutopost handles the /autopost command
func (b *Bot) handleAutopost(s *discordgo.Session, i *discordgo.InteractionCreate) {
	enabled := i.ApplicationCommandData().Options[0].BoolValue()

	if err := b.repo.SetAutopost(i.GuildID, enabled); err != nil {
		slog.Error("Failed to save autopost setting", "error", err)
		respondWithMessage(s, i, "Failed to update autopost setting. Please try again.")
		return
	}

	if enabled {
		respondWithMessage(s, i, "Automatic match posting is **on**.")
	} else {
		respondWithMessage(s, i, "Automatic match posting is **off**. Settings are kept; use `/autopost enabled:true` to resume.")
	}
}

// handleClubStats handles the /clubstats command
func (b *Bot) handleClubStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	settings, err := b.guildSettings(i.GuildID)
	if err != nil {
		b.editResponse(s, i, "No club configured. Use `/setclub` first.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	club, platform, err := b.client.ClubInfo(ctx, settings.Platform, settings.ClubID)
	if err != nil {
		slog.Error("Failed to fetch club info", "clubID", settings.ClubID, "error", err)
		b.editResponse(s, i, "EA's servers did not answer. Try again in a bit.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: string(club.Name),
		Color: 0x3498DB,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Skill Rating", Value: fmt.Sprintf("%d", int(club.SkillRating)), Inline: true},
			{Name: "Club ID", Value: fmt.Sprintf("%d", settings.ClubID), Inline: true},
		},
	}

	if members, err := b.client.MemberStats(ctx, platform, settings.ClubID); err == nil && len(members) > 0 {
		var sb strings.Builder
		for _, m := range members {
			fmt.Fprintf(&sb, "**%s** — %d matches, ⚽ %d, 🅰️ %d\n",
				m.Name, int(m.GamesPlayed), int(m.Goals), int(m.Assists))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Members (%d)", len(members)),
			Value: sb.String(),
		})
	}

	b.editResponseEmbed(s, i, embed)
}

// handlePlayerStats handles the /playerstats command
func (b *Bot) handlePlayerStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	playerName := i.ApplicationCommandData().Options[0].StringValue()

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	settings, err := b.guildSettings(i.GuildID)
	if err != nil {
		b.editResponse(s, i, "No club configured. Use `/setclub` first.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	members, err := b.client.MemberStats(ctx, settings.Platform, settings.ClubID)
	if err != nil {
		slog.Error("Failed to fetch member stats", "clubID", settings.ClubID, "error", err)
		b.editResponse(s, i, "EA's servers did not answer. Try again in a bit.")
		return
	}

	var found *ea.Member
	for idx := range members {
		if strings.EqualFold(string(members[idx].Name), playerName) {
			found = &members[idx]
			break
		}
	}
	if found == nil {
		b.editResponse(s, i, fmt.Sprintf("`%s` is not on the club's member list.", playerName))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: string(found.Name),
		Color: 0x3498DB,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Matches", Value: fmt.Sprintf("%d", int(found.GamesPlayed)), Inline: true},
			{Name: "Goals", Value: fmt.Sprintf("%d", int(found.Goals)), Inline: true},
			{Name: "Assists", Value: fmt.Sprintf("%d", int(found.Assists)), Inline: true},
			{Name: "MOTM", Value: fmt.Sprintf("%d", int(found.ManOfTheMatch)), Inline: true},
			{Name: "Avg Rating", Value: fmt.Sprintf("%.1f", float64(found.RatingAve)), Inline: true},
			{Name: "Win Rate", Value: fmt.Sprintf("%d%%", int(found.WinRate)), Inline: true},
			{Name: "Position", Value: positionOrDash(string(found.FavoritePosition)), Inline: true},
			{Name: "Pass %", Value: fmt.Sprintf("%d%%", int(found.PassSuccessRate)), Inline: true},
			{Name: "Tackle %", Value: fmt.Sprintf("%d%%", int(found.TackleSuccessRate)), Inline: true},
		},
	}

	if recent, err := b.repo.RecentHistory(i.GuildID, string(found.Name), 5); err == nil && len(recent) > 0 {
		var sb strings.Builder
		for _, h := range recent {
			fmt.Fprintf(&sb, "%s ", h.Result)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Recent Form", Value: strings.TrimSpace(sb.String()), Inline: true,
		})
	}

	b.editResponseEmbed(s, i, embed)
}

// handleLastMatches handles the /lastmatches command
func (b *Bot) handleLastMatches(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	settings, err := b.guildSettings(i.GuildID)
	if err != nil {
		b.editResponse(s, i, "No club configured. Use `/setclub` first.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	matches, err := b.client.Matches(ctx, settings.Platform, settings.ClubID, ea.MatchTypeLeague, 5)
	if err != nil {
		slog.Error("Failed to fetch match history", "clubID", settings.ClubID, "error", err)
		b.editResponse(s, i, "EA's servers did not answer. Try again in a bit.")
		return
	}

	body := formatRecentMatches(settings.ClubID, matches)
	if body == "" {
		b.editResponse(s, i, "No recent league matches found for the club.")
		return
	}

	b.editResponse(s, i, fmt.Sprintf("**Last %d League Matches:**\n\n%s", len(matches), body))
}

// formatRecentMatches renders one line per match, newest first, skipping
// matches where the club is missing from the payload.
func formatRecentMatches(clubID int64, matches []ea.Match) string {
	var sb strings.Builder
	for idx := range matches {
		our, opp, ok := matches[idx].Side(clubID)
		if !ok {
			continue
		}

		emoji := "🤝"
		switch ea.ResultLetter(our.Result) {
		case "W":
			emoji = "✅"
		case "L":
			emoji = "❌"
		}

		oppName := string(opp.Name)
		if oppName == "" {
			oppName = "Unknown Opponent"
		}

		fmt.Fprintf(&sb, "%s **%d - %d** vs %s", emoji, int(our.Score), int(opp.Score), oppName)
		if ts := int64(matches[idx].Timestamp); ts > 0 {
			fmt.Fprintf(&sb, " — <t:%d:R>", ts)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// handleListAchievements handles the /listachievements command
func (b *Bot) handleListAchievements(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondWithMessage(s, i, achievementCatalog())
}

// achievementCatalog renders the full achievement list grouped by category,
// in a stable order.
func achievementCatalog() string {
	categories := []string{
		stats.CategoryMatchPerformance,
		stats.CategoryStatistical,
		stats.CategoryStreak,
		stats.CategoryTeam,
	}

	byCategory := make(map[string][]stats.Achievement)
	for _, a := range stats.Achievements {
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**All Achievements (%d):**\n", len(stats.Achievements))
	for _, category := range categories {
		entries := byCategory[category]
		if len(entries) == 0 {
			continue
		}
		sort.Slice(entries, func(a, b int) bool { return entries[a].Name < entries[b].Name })

		fmt.Fprintf(&sb, "\n__%s__\n", category)
		for _, a := range entries {
			fmt.Fprintf(&sb, "%s **%s** — %s\n", a.Emoji, a.Name, a.Description)
		}
	}
	return sb.String()
}

// careerCategory describes one career leaderboard: how to score a member
// and how to print the stat next to their name.
type careerCategory struct {
	Title  string
	Metric func(m ea.Member) (float64, string)
}

var careerCategories = map[string]careerCategory{
	"goals": {"Top Scorers", func(m ea.Member) (float64, string) {
		return float64(m.Goals), fmt.Sprintf("⚽ %d", int(m.Goals))
	}},
	"assists": {"Top Assisters", func(m ea.Member) (float64, string) {
		return float64(m.Assists), fmt.Sprintf("🅰️ %d", int(m.Assists))
	}},
	"rating": {"Highest Rated", func(m ea.Member) (float64, string) {
		return float64(m.RatingAve), fmt.Sprintf("⭐ %.1f", float64(m.RatingAve))
	}},
	"motm": {"Man of the Match Awards", func(m ea.Member) (float64, string) {
		return float64(m.ManOfTheMatch), fmt.Sprintf("🏅 %d", int(m.ManOfTheMatch))
	}},
	"winrate": {"Best Win Rate", func(m ea.Member) (float64, string) {
		return float64(m.WinRate), fmt.Sprintf("%d%%", int(m.WinRate))
	}},
	"passacc": {"Pass Accuracy", func(m ea.Member) (float64, string) {
		return float64(m.PassSuccessRate), fmt.Sprintf("%d%%", int(m.PassSuccessRate))
	}},
	"goalsper": {"Goals per Match", func(m ea.Member) (float64, string) {
		rate := perMatch(int64(m.Goals), int64(m.GamesPlayed))
		return rate, fmt.Sprintf("⚽ %.2f", rate)
	}},
	"assistsper": {"Assists per Match", func(m ea.Member) (float64, string) {
		rate := perMatch(int64(m.Assists), int64(m.GamesPlayed))
		return rate, fmt.Sprintf("🅰️ %.2f", rate)
	}},
}

func perMatch(total, games int64) float64 {
	if games <= 0 {
		return 0
	}
	return float64(total) / float64(games)
}

type rankedMember struct {
	Name    string
	Score   float64
	Display string
}

// rankMembers sorts the roster for one career category, highest first,
// breaking ties alphabetically.
func rankMembers(members []ea.Member, cat careerCategory) []rankedMember {
	ranked := make([]rankedMember, 0, len(members))
	for idx := range members {
		score, display := cat.Metric(members[idx])
		ranked = append(ranked, rankedMember{
			Name:    string(members[idx].Name),
			Score:   score,
			Display: display,
		})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].Score != ranked[b].Score {
			return ranked[a].Score > ranked[b].Score
		}
		return strings.ToLower(ranked[a].Name) < strings.ToLower(ranked[b].Name)
	})
	return ranked
}

// handleLeaderboard handles the /leaderboard command
func (b *Bot) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	category := i.ApplicationCommandData().Options[0].StringValue()

	if cat, ok := careerCategories[category]; ok {
		b.careerLeaderboard(s, i, cat)
		return
	}

	period := stats.MonthPeriod(time.Now())

	var totals []*storage.PeriodTotals
	var err error
	var title string
	switch category {
	case "playoff":
		totals, err = b.repo.PlayoffTotals(i.GuildID, period)
		title = "Playoff Leaderboard"
	default:
		totals, err = b.repo.MonthlyTotals(i.GuildID, period)
		title = "Monthly Leaderboard"
	}
	if err != nil {
		slog.Error("Failed to load leaderboard", "category", category, "error", err)
		respondWithMessage(s, i, "Failed to load the leaderboard. Please try again.")
		return
	}

	if len(totals) == 0 {
		respondWithMessage(s, i, fmt.Sprintf("No recorded matches for %s yet.", period))
		return
	}

	lines := make([]stats.PeriodLine, len(totals))
	for idx, t := range totals {
		lines[idx] = stats.PeriodLine{
			PlayerName:    t.PlayerName,
			Goals:         t.Goals,
			Assists:       t.Assists,
			TotalRating:   t.TotalRating,
			MatchesPlayed: t.MatchesPlayed,
		}
	}
	ranked := stats.Rank(stats.DefaultWeights(), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s — %s**\n\n", title, period)
	for idx, r := range ranked {
		if idx >= 10 {
			break
		}
		fmt.Fprintf(&sb, "%d. **%s** — %.1f pts (⚽ %d, 🅰️ %d, %d matches)\n",
			idx+1, r.PlayerName, r.Score, r.Goals, r.Assists, r.MatchesPlayed)
	}

	respondWithMessage(s, i, sb.String())
}

// careerLeaderboard ranks the live roster from EA by one career stat.
func (b *Bot) careerLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate, cat careerCategory) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	settings, err := b.guildSettings(i.GuildID)
	if err != nil {
		b.editResponse(s, i, "No club configured. Use `/setclub` first.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	members, err := b.client.MemberStats(ctx, settings.Platform, settings.ClubID)
	if err != nil {
		slog.Error("Failed to fetch member stats", "clubID", settings.ClubID, "error", err)
		b.editResponse(s, i, "EA's servers did not answer. Try again in a bit.")
		return
	}
	if len(members) == 0 {
		b.editResponse(s, i, "The club has no members on record.")
		return
	}

	ranked := rankMembers(members, cat)

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n\n", cat.Title)
	for idx, r := range ranked {
		if idx >= 10 {
			break
		}
		fmt.Fprintf(&sb, "%d. **%s** — %s\n", idx+1, r.Name, r.Display)
	}

	b.editResponse(s, i, sb.String())
}

// handleAchievements handles the /achievements command
func (b *Bot) handleAchievements(s *discordgo.Session, i *discordgo.InteractionCreate) {
	playerName := i.ApplicationCommandData().Options[0].StringValue()

	earned, err := b.repo.ListAchievements(i.GuildID, playerName)
	if err != nil {
		slog.Error("Failed to load achievements", "player", playerName, "error", err)
		respondWithMessage(s, i, "Failed to load achievements. Please try again.")
		return
	}

	if len(earned) == 0 {
		respondWithMessage(s, i, fmt.Sprintf("`%s` has no achievements yet.", playerName))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s's Achievements (%d/%d):**\n\n", playerName, len(earned), len(stats.Achievements))
	for _, e := range earned {
		a, ok := stats.Achievements[e.AchievementID]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s **%s** — %s\n", a.Emoji, a.Name, a.Description)
	}

	respondWithMessage(s, i, sb.String())
}

// handlePlayerAutocomplete serves player name suggestions from the cached
// roster, so autocomplete never hits EA's API.
func (b *Bot) handlePlayerAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	var partial string
	for _, opt := range data.Options {
		if opt.Focused {
			partial = opt.StringValue()
			break
		}
	}

	names, err := b.repo.CachedMembers(i.GuildID)
	if err != nil {
		slog.Error("Failed to load cached members", "guild", i.GuildID, "error", err)
		return
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
	lower := strings.ToLower(partial)
	for _, name := range names {
		if lower != "" && !strings.Contains(strings.ToLower(name), lower) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
		if len(choices) == 25 {
			break
		}
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

// Helper functions

// guildSettings loads settings and rejects guilds with no club configured.
func (b *Bot) guildSettings(guildID string) (*storage.GuildSettings, error) {
	settings, err := b.repo.GetSettings(guildID)
	if err != nil {
		return nil, err
	}
	if settings.ClubID == 0 {
		return nil, storage.ErrNotFound
	}
	return settings, nil
}

func positionOrDash(pos string) string {
	if pos == "" {
		return "—"
	}
	return pos
}

func respondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func (b *Bot) editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
}

func (b *Bot) editResponseEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	embeds := []*discordgo.MessageEmbed{embed}
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &embeds,
	})
}
