package repo

import (
	"RegistrationBot/model"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_RenderEmbedsRegistrant(t *testing.T) {
	m, err := NewMailer(MailConfig{})
	require.NoError(t, err)

	body, err := m.Render(model.RegistrationRecord{Name: "Ali", NationalID: "12345", Course: "Graphic Design"})
	require.NoError(t, err)

	assert.Contains(t, body, "<strong>Name:</strong> Ali")
	assert.Contains(t, body, "<strong>CNIC:</strong> 12345")
	assert.Contains(t, body, "Graphic Design")
	assert.Contains(t, body, CardBatch)
	assert.Contains(t, body, "create-qr-code/?data="+CardCode)
}

func TestMailer_RenderEscapesInput(t *testing.T) {
	m, err := NewMailer(MailConfig{})
	require.NoError(t, err)

	body, err := m.Render(model.RegistrationRecord{Name: "<script>alert(1)</script>"})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestMailer_SendWithoutAccount(t *testing.T) {
	m, err := NewMailer(MailConfig{Host: "smtp.example.com", Port: 587})
	require.NoError(t, err)

	err = m.Send(context.Background(), model.RegistrationRecord{Name: "Ali", Email: "ali@x.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDelivery))
}

func TestMailer_SendBadRecipient(t *testing.T) {
	m, err := NewMailer(MailConfig{Host: "smtp.example.com", Port: 587, Username: "sender@example.com", Password: "secret"})
	require.NoError(t, err)

	err = m.Send(context.Background(), model.RegistrationRecord{Name: "Ali", Email: "not an address"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDelivery))
}

func accountMailer(t *testing.T, addr string) *Mailer {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	p, err := net.LookupPort("tcp", port)
	require.NoError(t, err)
	m, err := NewMailer(MailConfig{Host: host, Port: p, Username: "sender@example.com", Password: "secret"})
	require.NoError(t, err)
	return m
}

func TestMailer_SendConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	err = accountMailer(t, addr).Send(context.Background(), model.RegistrationRecord{Name: "Ali", Email: "ali@x.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDelivery))
}

func TestMailer_SendServerRejects(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = conn.Write([]byte("554 5.3.2 service unavailable\r\n"))
	}()

	err = accountMailer(t, l.Addr().String()).Send(context.Background(), model.RegistrationRecord{Name: "Ali", Email: "ali@x.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDelivery))
}

func TestMailer_SendDeadlineExceeded(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	err = accountMailer(t, l.Addr().String()).Send(ctx, model.RegistrationRecord{Name: "Ali", Email: "ali@x.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDelivery))
}
