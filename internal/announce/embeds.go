package announce

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/ea"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/stats"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/storage"
)

const (
	colorWin  = 0x2ECC71
	colorLoss = 0xE74C3C
	colorDraw = 0x95A5A6
	colorGold = 0xF1C40F
)

var medals = []string{"🥇", "🥈", "🥉"}

// MatchEmbed renders a match result notification.
func MatchEmbed(clubID int64, clubName string, m *ea.Match, category string) *discordgo.MessageEmbed {
	our, opp, ok := m.Side(clubID)

	title := "New Match Result"
	if category == storage.CategoryPlayoff {
		title = "New Playoff Result"
	}

	color := colorDraw
	resultText := "Draw"
	switch ea.ResultLetter(our.Result) {
	case "W":
		color = colorWin
		resultText = "Victory"
	case "L":
		color = colorLoss
		resultText = "Defeat"
	}

	oppName := string(opp.Name)
	if oppName == "" {
		oppName = "Unknown Opponent"
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Author: &discordgo.MessageEmbedAuthor{
			Name: clubName,
		},
		Description: fmt.Sprintf("**%s** %d - %d **%s**\n%s", clubName, our.Score, opp.Score, oppName, resultText),
	}
	if !ok {
		embed.Description = "Match data was incomplete"
		return embed
	}

	if line := topPerformers(m, clubID); line != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Top Performers",
			Value: line,
		})
	}
	if ts := int(m.Timestamp); ts > 0 {
		embed.Timestamp = time.Unix(int64(ts), 0).UTC().Format(time.RFC3339)
	}
	return embed
}

// topPerformers lists the tracked club's scorers and assisters.
func topPerformers(m *ea.Match, clubID int64) string {
	type perf struct {
		name    string
		goals   int
		assists int
	}
	var performers []perf
	for _, p := range m.PlayerLines(clubID) {
		if int(p.Goals) > 0 || int(p.Assists) > 0 {
			performers = append(performers, perf{string(p.PlayerName), int(p.Goals), int(p.Assists)})
		}
	}
	sort.Slice(performers, func(i, j int) bool {
		if performers[i].goals != performers[j].goals {
			return performers[i].goals > performers[j].goals
		}
		return performers[i].name < performers[j].name
	})

	var b strings.Builder
	for _, p := range performers {
		fmt.Fprintf(&b, "**%s** — ⚽ %d 🅰️ %d\n", p.name, p.goals, p.assists)
	}
	return b.String()
}

// MilestoneEmbed renders a milestone announcement.
func MilestoneEmbed(playerName string, e stats.MilestoneEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎉 Milestone Achieved! 🎉",
		Description: fmt.Sprintf("**%s** has reached **%d %s**!", playerName, e.Threshold, e.Label),
		Color:       colorGold,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s Keep up the great work!", e.Emoji),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// AchievementEmbed renders an achievement announcement.
func AchievementEmbed(playerName string, a stats.Achievement) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🏆 Achievement Unlocked! 🏆",
		Description: fmt.Sprintf("**%s** earned: **%s %s**", playerName, a.Emoji, a.Name),
		Color:       colorGold,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Description", Value: a.Description},
			{Name: "Category", Value: a.Category, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Keep pushing for more achievements!",
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// HistoricalEmbed renders the one-time summary of a veteran player's
// pre-existing accomplishments, posted the first time the bot observes them.
func HistoricalEmbed(playerName string, milestones []stats.MilestoneEvent, achievements []stats.Achievement) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, m := range milestones {
		fmt.Fprintf(&b, "%s %d %s\n", m.Emoji, m.Threshold, m.Label)
	}
	for _, a := range achievements {
		fmt.Fprintf(&b, "%s %s\n", a.Emoji, a.Name)
	}
	body := b.String()
	if body == "" {
		body = "No milestones yet — everything still to play for!"
	}

	return &discordgo.MessageEmbed{
		Title:       "📜 Career So Far",
		Description: fmt.Sprintf("**%s** joins the tracker with:\n%s", playerName, body),
		Color:       colorGold,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Past accomplishments recorded — new ones announced as they happen",
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// periodAwardEmbed builds the shared layout of the monthly and playoff
// award announcements.
func periodAwardEmbed(title, period, scoreLabel string, weights stats.Weights, ranked []stats.RankedLine) *discordgo.MessageEmbed {
	best := ranked[0]

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("**%s** Summary", period),
		Color:       colorGold,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🥇 Winner", Value: fmt.Sprintf("**%s**", best.PlayerName)},
			{
				Name: "Individual Performance",
				Value: fmt.Sprintf("⚽ **%d** goals • 🅰️ **%d** assists • ⭐ **%.1f** avg rating",
					best.Goals, best.Assists, best.AvgRating()),
			},
			{Name: "🎮 Matches", Value: fmt.Sprintf("**%d** matches played", best.MatchesPlayed), Inline: true},
			{Name: scoreLabel, Value: fmt.Sprintf("**%.1f**", best.Score), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: weights.Formula(),
		},
	}

	if len(ranked) > 1 {
		var b strings.Builder
		for i, p := range ranked {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "%s **%s** (%.1f)\n", medals[i], p.PlayerName, p.Score)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🏅 Top Performers",
			Value: b.String(),
		})
	}
	return embed
}

// MonthlyAwardEmbed renders the Player of the Month announcement.
func MonthlyAwardEmbed(period string, weights stats.Weights, ranked []stats.RankedLine) *discordgo.MessageEmbed {
	return periodAwardEmbed("🏅 Player of the Month", period, "⭐ Monthly Score", weights, ranked)
}

// PlayoffAwardEmbed renders the Player of the Playoffs announcement with the
// club's aggregate playoff record.
func PlayoffAwardEmbed(period string, weights stats.Weights, ranked []stats.RankedLine, club *storage.PlayoffClubSummary) *discordgo.MessageEmbed {
	embed := periodAwardEmbed("🏆 Player of the Playoffs", period, "⭐ Playoff Score", weights, ranked)

	if club != nil && club.TotalMatches > 0 {
		winRate := 100 * float64(club.Wins) / float64(club.TotalMatches)
		value := fmt.Sprintf(
			"**%dW - %dL - %dD** (%.1f%% win rate)\n⚽ Goals: **%d - %d** (GD: **%+d**)\n🧤 **%d** clean sheets",
			club.Wins, club.Losses, club.Draws, winRate,
			club.GoalsFor, club.GoalsAgainst, club.GoalsFor-club.GoalsAgainst,
			club.CleanSheets,
		)
		embed.Fields = append([]*discordgo.MessageEmbedField{{
			Name:  fmt.Sprintf("📊 Club Performance (%d matches)", club.TotalMatches),
			Value: value,
		}}, embed.Fields...)
	}
	return embed
}
