package service

import (
	"context"
	"fmt"
	"physics_edu_backend/internal/config"
	"physics_edu_backend/pkg/logger"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Message 待发送邮件
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	PlainText string
	HTML      string
}

// Mailer 邮件发送接口
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer 根据配置选择 sendgrid 或控制台输出
func NewMailer(cfg *config.MailConfig) Mailer {
	if cfg.Provider == "sendgrid" && cfg.SendgridAPIKey != "" {
		return &SendgridMailer{
			Client:        sendgrid.NewSendClient(cfg.SendgridAPIKey),
			From:          mail.NewEmail(cfg.FromName, cfg.FromAddress),
			SubjectPrefix: "[" + cfg.AppName + "] ",
		}
	}
	return &ConsoleMailer{}
}

type SendgridMailer struct {
	Client        *sendgrid.Client
	From          *mail.Email
	SubjectPrefix string
}

// Send 当前 sendgrid 客户端不支持 ctx，仅在发送前检查是否已取消
func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to := mail.NewEmail(msg.ToName, msg.ToAddress)
	email := mail.NewSingleEmail(m.From, m.SubjectPrefix+msg.Subject, to, msg.PlainText, msg.HTML)

	resp, err := m.Client.Send(email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// ConsoleMailer 开发环境下仅记录日志
type ConsoleMailer struct {
	mu   sync.Mutex
	sent []Message
}

func (m *ConsoleMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	logger.Log.Info("mail (console)",
		zap.String("to", msg.ToAddress),
		zap.String("subject", msg.Subject))
	return nil
}

// Sent 已记录的邮件副本
func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
