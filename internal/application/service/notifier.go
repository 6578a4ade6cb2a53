package service

import (
	"context"
	"fmt"

	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
	"github.com/MarkTaylorTsai/line-bot-president/internal/infrastructure/line"
	appErrors "github.com/MarkTaylorTsai/line-bot-president/internal/pkg/errors"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

type lineNotifier struct {
	client *line.Client
}

// NewLineNotifier creates a Notifier pushing text messages over the LINE
// Messaging API.
func NewLineNotifier(client *line.Client) Notifier {
	return &lineNotifier{client: client}
}

// Push sends one text message to one recipient. A zero RecipientID is a
// local validation failure and never reaches the channel.
func (n *lineNotifier) Push(ctx context.Context, to entity.RecipientID, text string) error {
	if to.IsZero() {
		return appErrors.ErrInvalidRecipient
	}
	if err := n.client.PushMessages(to.String(), linebot.NewTextMessage(text)); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrLineAPI, err)
	}
	return nil
}
