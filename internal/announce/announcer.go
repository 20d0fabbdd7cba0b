package announce

import (
	"github.com/bwmarrin/discordgo"
)

// Announcer delivers a renderable notification to a destination channel.
// Failure means "not yet delivered": callers retry on the next occurrence of
// the same condition rather than here.
type Announcer interface {
	Post(channelID string, embed *discordgo.MessageEmbed) error
}

// DiscordAnnouncer posts embeds through a live Discord session.
type DiscordAnnouncer struct {
	session *discordgo.Session
}

// NewDiscord wraps a Discord session as an Announcer.
func NewDiscord(session *discordgo.Session) *DiscordAnnouncer {
	return &DiscordAnnouncer{session: session}
}

// Post sends the embed to the channel.
func (a *DiscordAnnouncer) Post(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := a.session.ChannelMessageSendEmbed(channelID, embed)
	return err
}
