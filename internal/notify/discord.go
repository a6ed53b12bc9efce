package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// discordSession abstracts the discordgo.Session methods we use, enabling
// test mocks.
type discordSession interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSender posts events to a Discord channel via the REST API. No
// gateway connection is needed for outbound-only messages.
type DiscordSender struct {
	sess      discordSession
	channelID string
}

// DiscordOpts holds parameters for creating a DiscordSender.
type DiscordOpts struct {
	BotToken  string
	ChannelID string
	// For testing: inject a mock session instead of the real Discord API.
	Session discordSession
}

// NewDiscordSender creates a DiscordSender.
func NewDiscordSender(opts DiscordOpts) (*DiscordSender, error) {
	if opts.Session == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("discord: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("discord: channel is required")
	}
	sess := opts.Session
	if sess == nil {
		dg, err := discordgo.New("Bot " + opts.BotToken)
		if err != nil {
			return nil, fmt.Errorf("discord: create session: %w", err)
		}
		sess = dg
	}
	return &DiscordSender{sess: sess, channelID: opts.ChannelID}, nil
}

// embedColor converts the shared severity color to Discord's int format.
func embedColor(evt Event) int {
	hex := severityColor(evt)
	v, err := strconv.ParseInt(hex[1:], 16, 32)
	if err != nil {
		return 0x2196f3
	}
	return int(v)
}

// Send posts the event as an embed.
func (d *DiscordSender) Send(ctx context.Context, evt Event) error {
	embed := &discordgo.MessageEmbed{
		Title:       evt.Title,
		Description: evt.Body,
		Color:       embedColor(evt),
	}
	if _, err := d.sess.ChannelMessageSendEmbed(d.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send embed: %w", err)
	}
	return nil
}
