package handler

import (
	"RegistrationBot/repo"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

const recentRegistrations = 10

// OrganiserBotHandler answers the organiser's Telegram commands about the
// registrations collected so far. Other chats are ignored.
type OrganiserBotHandler struct {
	Store   repo.Store
	ChatID  int64
	Timeout time.Duration
}

func NewOrganiserBotHandler(store repo.Store, chatID int64, timeout time.Duration) *OrganiserBotHandler {
	return &OrganiserBotHandler{
		Store:   store,
		ChatID:  chatID,
		Timeout: timeout,
	}
}

func (o *OrganiserBotHandler) Handler(ctx context.Context, b *bot.Bot, update *models.Update) {
	o.handle(ctx, b, update)
}

func (o *OrganiserBotHandler) handle(ctx context.Context, sender repo.MessageSender, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if chatID != o.ChatID {
		log.Debug().Int64("chat", chatID).Msg("ignoring message from non-organiser chat")
		return
	}
	var from string
	if update.Message.From != nil {
		from = update.Message.From.Username
	}
	log.Info().Str("from", from).Str("text", update.Message.Text).Msg("organiser command")

	var text string
	switch strings.TrimSpace(update.Message.Text) {
	case "/start":
		text = "Hello! I'm your RegistrationBot. Use /count or /registrations to see who has signed up."
	case "/help":
		text = `Commands:
/count – Number of registrations so far.
/registrations – The latest registrations.
/help – Show this message.`
	case "/count":
		text = o.countText(ctx)
	case "/registrations":
		text = o.registrationsText(ctx)
	default:
		text = "I didn't understand that command. Use /start or /help."
	}

	_, err := sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		log.Error().Err(err).Msg("error sending message")
	}
}

func (o *OrganiserBotHandler) countText(ctx context.Context) string {
	ctx, cancel := withTimeout(ctx, o.Timeout)
	defer cancel()

	records, err := o.Store.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error listing registrations")
		return "Error retrieving registrations. Please try again later."
	}
	return fmt.Sprintf("%d registrations so far.", len(records))
}

func (o *OrganiserBotHandler) registrationsText(ctx context.Context) string {
	ctx, cancel := withTimeout(ctx, o.Timeout)
	defer cancel()

	records, err := o.Store.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error listing registrations")
		return "Error retrieving registrations. Please try again later."
	}
	if len(records) == 0 {
		return "No registrations yet."
	}

	start := 0
	if len(records) > recentRegistrations {
		start = len(records) - recentRegistrations
	}
	text := fmt.Sprintf("Latest %d of %d registrations:\n", len(records)-start, len(records))
	for _, r := range records[start:] {
		text += fmt.Sprintf("- %s (%s)\n", r.Name, r.Course)
		text += fmt.Sprintf("  Email: %s, Phone: %s\n", r.Email, r.PhoneNumber)
		text += fmt.Sprintf("  Date: %s\n", r.Timestamp)
	}
	return text
}
