package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/memorial-api/internal/models"
	"github.com/rs/zerolog/log"
)

// MessageSender is the part of a discordgo session the notifier uses.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts RSVP activity to the organizers' channel.
type DiscordNotifier struct {
	session   MessageSender
	channelID string
}

func NewDiscordNotifier(session MessageSender, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// Open creates a bot session from a token. The session only talks REST, so
// no gateway connection is opened.
func Open(botToken, channelID string) (*DiscordNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord channel ID is empty")
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return NewDiscordNotifier(session, channelID), nil
}

func (n *DiscordNotifier) NotifyAttendance(ctx context.Context, memorial models.Memorial, record models.Attendance) error {
	status := "confirmed ✅"
	if record.Waitlisted {
		status = "waitlisted ⏳"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🕯️ **New RSVP for %s**\n", memorial.Name)
	fmt.Fprintf(&b, "**Name:** %s\n", record.Name)
	fmt.Fprintf(&b, "**Guests:** %d\n", record.Guests())
	fmt.Fprintf(&b, "**Status:** %s", status)
	if record.Allergies != nil {
		fmt.Fprintf(&b, "\n**Allergies:** %s", *record.Allergies)
	}
	if record.Notes != nil {
		fmt.Fprintf(&b, "\n**Note:** %s", *record.Notes)
	}

	return n.send(ctx, b.String())
}

func (n *DiscordNotifier) NotifyPromotions(ctx context.Context, memorial models.Memorial, promoted []models.Attendance) error {
	if len(promoted) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 **%d moved off the waitlist for %s**", len(promoted), memorial.Name)
	for _, r := range promoted {
		fmt.Fprintf(&b, "\n• %s <%s> (%d)", r.Name, r.Email, r.Guests())
	}

	return n.send(ctx, b.String())
}

func (n *DiscordNotifier) send(ctx context.Context, message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, message, discordgo.WithContext(ctx)); err != nil {
		log.Error().Err(err).Str("channel_id", n.channelID).Msg("Failed to send discord message")
		return err
	}
	return nil
}
