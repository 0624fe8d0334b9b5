package service

import (
	"context"
	"physics_edu_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer(t *testing.T) {
	m := NewMailer(&config.MailConfig{Provider: "sendgrid", SendgridAPIKey: "SG.key", FromAddress: "noreply@example.com", AppName: "Physics"})
	sg, ok := m.(*SendgridMailer)
	require.True(t, ok)
	assert.Equal(t, "[Physics] ", sg.SubjectPrefix)
	assert.Equal(t, "noreply@example.com", sg.From.Address)

	_, ok = NewMailer(&config.MailConfig{Provider: "sendgrid"}).(*ConsoleMailer)
	assert.True(t, ok, "missing api key falls back to console")

	_, ok = NewMailer(&config.MailConfig{Provider: "console"}).(*ConsoleMailer)
	assert.True(t, ok)
}

func TestConsoleMailerKeepsCopies(t *testing.T) {
	m := &ConsoleMailer{}
	require.NoError(t, m.Send(context.Background(), Message{ToAddress: "a@example.com", Subject: "hi"}))

	sent := m.Sent()
	require.Len(t, sent, 1)
	sent[0].Subject = "changed"
	assert.Equal(t, "hi", m.Sent()[0].Subject)
}

func TestSendgridMailerHonoursCancelledContext(t *testing.T) {
	m := NewMailer(&config.MailConfig{Provider: "sendgrid", SendgridAPIKey: "SG.key", FromAddress: "noreply@example.com"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Send(ctx, Message{ToAddress: "a@example.com", Subject: "hi"})
	assert.ErrorIs(t, err, context.Canceled)
}
