package repo

import (
	"RegistrationBot/model"
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &models.Message{}, nil
}

func TestTelegramNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramNotifier(sender, 42)

	err := n.NotifyRegistration(context.Background(), model.RegistrationRecord{Name: "Ali", Course: "GD", Email: "ali@x.com"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Equal(t, "New registration: Ali (GD) ali@x.com", sender.sent[0].Text)
}

func TestTelegramNotifier_Error(t *testing.T) {
	n := NewTelegramNotifier(&fakeSender{err: errors.New("boom")}, 42)
	assert.Error(t, n.NotifyRegistration(context.Background(), model.RegistrationRecord{}))
}
