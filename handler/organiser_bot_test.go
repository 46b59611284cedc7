package handler

import (
	"RegistrationBot/model"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const organiserChat int64 = 1001

func command(chatID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: chatID},
		From: &models.User{Username: "organiser"},
		Text: text,
	}}
}

func TestOrganiserBot_IgnoresOtherChats(t *testing.T) {
	sender := &fakeSender{}
	o := NewOrganiserBotHandler(&fakeStore{}, organiserChat, time.Second)

	o.handle(context.Background(), sender, command(7, "/count"))
	o.handle(context.Background(), sender, &models.Update{})

	assert.Empty(t, sender.sent)
}

func TestOrganiserBot_Count(t *testing.T) {
	store := &fakeStore{records: []model.RegistrationRecord{{Name: "Ali"}, {Name: "Sara"}}}
	sender := &fakeSender{}
	o := NewOrganiserBotHandler(store, organiserChat, time.Second)

	o.handle(context.Background(), sender, command(organiserChat, "/count"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, organiserChat, sender.sent[0].ChatID)
	assert.Equal(t, "2 registrations so far.", sender.sent[0].Text)
}

func TestOrganiserBot_RegistrationsShowsLatest(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 12; i++ {
		store.records = append(store.records, model.RegistrationRecord{Name: fmt.Sprintf("S%02d", i), Course: "GD"})
	}
	sender := &fakeSender{}
	o := NewOrganiserBotHandler(store, organiserChat, time.Second)

	o.handle(context.Background(), sender, command(organiserChat, "/registrations"))

	require.Len(t, sender.sent, 1)
	text := sender.sent[0].Text
	assert.Contains(t, text, "Latest 10 of 12 registrations")
	assert.NotContains(t, text, "S01 ")
	assert.Contains(t, text, "S02 (GD)")
	assert.Contains(t, text, "S11 (GD)")
}

func TestOrganiserBot_StoreError(t *testing.T) {
	sender := &fakeSender{}
	o := NewOrganiserBotHandler(&fakeStore{err: errBoom}, organiserChat, time.Second)

	o.handle(context.Background(), sender, command(organiserChat, "/registrations"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Error retrieving registrations. Please try again later.", sender.sent[0].Text)
}

func TestOrganiserBot_UnknownCommand(t *testing.T) {
	sender := &fakeSender{}
	o := NewOrganiserBotHandler(&fakeStore{}, organiserChat, time.Second)

	o.handle(context.Background(), sender, command(organiserChat, "/dance"))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "/help")
}
