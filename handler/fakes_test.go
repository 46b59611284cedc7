package handler

import (
	"RegistrationBot/model"
	"context"
	"errors"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type fakeStore struct {
	mu      sync.Mutex
	records []model.RegistrationRecord
	err     error
}

func (f *fakeStore) Append(ctx context.Context, record model.RegistrationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeStore) ListAll(ctx context.Context) ([]model.RegistrationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.RegistrationRecord(nil), f.records...), nil
}

type fakeMailer struct {
	sent []model.RegistrationRecord
	err  error
	// storeAtSend captures how many rows were stored when Send ran.
	store       *fakeStore
	storeAtSend int
}

func (f *fakeMailer) Send(ctx context.Context, record model.RegistrationRecord) error {
	if f.store != nil {
		f.storeAtSend = len(f.store.records)
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, record)
	return nil
}

type fakeNotifier struct {
	notified []model.RegistrationRecord
	err      error
}

func (f *fakeNotifier) NotifyRegistration(ctx context.Context, record model.RegistrationRecord) error {
	f.notified = append(f.notified, record)
	return f.err
}

type fakeAnswerer struct {
	answer string
	err    error
	query  string
}

func (f *fakeAnswerer) Answer(ctx context.Context, query string) (string, error) {
	f.query = query
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeSender struct {
	sent []*bot.SendMessageParams
}

func (f *fakeSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.sent = append(f.sent, params)
	return &models.Message{}, nil
}

var errBoom = errors.New("boom")
