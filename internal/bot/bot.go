package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/announce"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/config"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/ea"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/poller"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/stats"
	"github.com/Fredrik03/ProClubs-Discord-Bot/internal/storage"
)

// Bot represents the Discord bot instance
type Bot struct {
	config   *config.Config
	session  *discordgo.Session
	repo     *storage.Repository
	client   *ea.Client
	poller   *poller.Poller
	commands []*discordgo.ApplicationCommand
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Set intents
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	// Initialize storage
	repo, err := storage.NewRepository(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	b := &Bot{
		config:  cfg,
		session: session,
		repo:    repo,
		client:  ea.NewClient(),
	}

	// Register command handlers
	b.registerHandlers()

	return b, nil
}

// Start opens the Discord connection and starts background tasks
func (b *Bot) Start(ctx context.Context) error {
	// Open Discord connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	// Register slash commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	// Start the match poller
	b.poller = poller.New(b.repo, b.client, announce.NewDiscord(b.session), poller.Config{
		Interval:          time.Duration(b.config.PollIntervalSeconds) * time.Second,
		ForbiddenCooldown: time.Duration(b.config.ForbiddenCooldownMinutes) * time.Minute,
		PlayoffMinMatches: b.config.PlayoffMinMatches,
		Weights:           stats.DefaultWeights(),
	})
	go b.poller.Start(ctx)

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	// Stop the poller
	if b.poller != nil {
		b.poller.Stop()
	}

	// Close storage
	if b.repo != nil {
		b.repo.Close()
	}

	// Close Discord session
	if b.session != nil {
		return b.session.Close()
	}

	return nil
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
}

// handleInteraction processes slash command and autocomplete interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		b.handlePlayerAutocomplete(s, i)
		return
	}
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	slog.Debug("Received command", "command", data.Name, "guild", i.GuildID)

	switch data.Name {
	case "setclub":
		b.handleSetClub(s, i)
	case "setmatchchannel":
		b.handleSetChannel(s, i, "match", "Match results")
	case "setmilestonechannel":
		b.handleSetChannel(s, i, "milestone", "Milestone announcements")
	case "setachievementchannel":
		b.handleSetChannel(s, i, "achievement", "Achievement announcements")
	case "setmonthlychannel":
		b.handleSetChannel(s, i, "monthly", "Player of the Month announcements")
	case "setplayoffchannel":
		b.handleSetChannel(s, i, "playoff", "Player of the Playoffs announcements")
	case "autopost":
		b.handleAutopost(s, i)
	case "clubstats":
		b.handleClubStats(s, i)
	case "lastmatches":
		b.handleLastMatches(s, i)
	case "listachievements":
		b.handleListAchievements(s, i)
	case "playerstats":
		b.handlePlayerStats(s, i)
	case "leaderboard":
		b.handleLeaderboard(s, i)
	case "achievements":
		b.handleAchievements(s, i)
	default:
		slog.Warn("Unknown command", "command", data.Name)
	}
}
