package notify

import (
	"context"
	"fmt"
	"pocketbook-server/src/util"

	"github.com/bwmarrin/discordgo"
)

// DiscordPublisher posts alerts to a single channel over Discord's REST API.
// No gateway connection is opened.
type DiscordPublisher struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordPublisher(token, channelID string) (*DiscordPublisher, error) {
	if token == "" || channelID == "" {
		return nil, fmt.Errorf("discord token and channel id are required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &DiscordPublisher{session: session, channelID: channelID}, nil
}

func (p *DiscordPublisher) Publish(ctx context.Context, n Notification) error {
	_, err := p.session.ChannelMessageSend(p.channelID, FormatMessage(n), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send Discord message: %w", err)
	}
	return nil
}

func (p *DiscordPublisher) Close() error {
	return p.session.Close()
}

func FormatMessage(n Notification) string {
	currency := n.Currency
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("**%s** %s\nSpent %s of %s in %s.",
		n.Category, n.Message,
		util.FormatCurrency(n.Spent, currency),
		util.FormatCurrency(n.Limit, currency),
		n.Month,
	)
}
