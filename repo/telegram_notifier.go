package repo

import (
	"RegistrationBot/model"
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageSender is the part of *bot.Bot the organiser side needs.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramNotifier tells the organiser chat about each new registration.
type TelegramNotifier struct {
	Sender MessageSender
	ChatID int64
}

func NewTelegramNotifier(sender MessageSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		Sender: sender,
		ChatID: chatID,
	}
}

func (n *TelegramNotifier) NotifyRegistration(ctx context.Context, record model.RegistrationRecord) error {
	_, err := n.Sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.ChatID,
		Text:   fmt.Sprintf("New registration: %s (%s) %s", record.Name, record.Course, record.Email),
	})
	if err != nil {
		return fmt.Errorf("error sending organiser notification: %w", err)
	}
	return nil
}
