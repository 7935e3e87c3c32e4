// Package notify delivers budget alerts. Handlers publish a Notification when
// a transaction pushes a month's spending in a category near or past its plan.
package notify

import (
	"context"
	"fmt"
	"log"
	"pocketbook-server/src/config"
)

type Notification struct {
	UserID   string `json:"user_id"`
	BudgetID string `json:"budget_id"`
	Category string `json:"category"`
	Month    string `json:"month"`
	Message  string `json:"message"`
	Spent    int64  `json:"spent"`
	Limit    int64  `json:"limit"`
	Currency string `json:"currency"`
}

type Publisher interface {
	Publish(ctx context.Context, n Notification) error
	Close() error
}

const (
	MessageExceeded = "You have exceeded your budget for this category!"
	MessageNearing  = "You are nearing your budget for this category!"
)

// BudgetAlert returns the message to send for spent against limit, or "" when
// spending is at or below 80% of the limit.
func BudgetAlert(spent, limit int64) string {
	if limit <= 0 {
		return ""
	}
	if spent > limit {
		return MessageExceeded
	}
	if spent*10 > limit*8 {
		return MessageNearing
	}
	return ""
}

// New builds the publisher selected by cfg.NotifyDriver.
func New(cfg config.Config) (Publisher, error) {
	switch cfg.NotifyDriver {
	case "", "log":
		return LogPublisher{}, nil
	case "amqp":
		return NewRabbitMQPublisher(cfg.AMQPURL, cfg.AMQPQueue)
	case "discord":
		return NewDiscordPublisher(cfg.DiscordToken, cfg.DiscordChannelID)
	}
	return nil, fmt.Errorf("unknown notify driver %q", cfg.NotifyDriver)
}

type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, n Notification) error {
	log.Printf("INFO: Budget notification for user %s, category %s (%s): %s spent %d of %d",
		n.UserID, n.Category, n.Month, n.Message, n.Spent, n.Limit)
	return nil
}

func (LogPublisher) Close() error { return nil }
