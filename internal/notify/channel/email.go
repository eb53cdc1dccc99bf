package channel

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/pkg/logger"
)

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type emailAdapter struct {
	cfg    EmailConfig
	sender mailSender
	logger *logger.Logger
}

// NewEmailAdapter builds the SMTP adapter. An empty host leaves the adapter
// unavailable; the dispatcher skips unavailable channels.
func NewEmailAdapter(cfg EmailConfig, log *logger.Logger) Adapter {
	var sender mailSender
	if cfg.Host != "" {
		sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return &emailAdapter{cfg: cfg, sender: sender, logger: log}
}

func (a *emailAdapter) Name() model.Channel {
	return model.ChannelEmail
}

func (a *emailAdapter) IsAvailable() bool {
	return a.sender != nil && a.cfg.From != ""
}

func (a *emailAdapter) Send(ctx context.Context, recipient *model.RecipientInfo, tmpl *model.RenderedTemplate, priority model.Priority, referenceID *uuid.UUID) model.ChannelResult {
	if !recipient.EmailEnabled {
		return cancelled(model.ChannelEmail, "recipient has email notifications disabled")
	}
	if recipient.Email == "" {
		return failed(model.ChannelEmail, "no email address on file")
	}
	if err := ctx.Err(); err != nil {
		return failed(model.ChannelEmail, err.Error())
	}

	m := gomail.NewMessage()
	m.SetHeader("From", a.cfg.From)
	m.SetAddressHeader("To", recipient.Email, recipient.DisplayName())
	m.SetHeader("Subject", tmpl.Subject)
	m.SetBody("text/plain", tmpl.TextBody)
	if tmpl.HTMLBody != "" {
		m.AddAlternative("text/html", tmpl.HTMLBody)
	}
	if priority == model.PriorityHigh {
		m.SetHeader("X-Priority", "1")
	}

	if err := a.sender.DialAndSend(m); err != nil {
		a.logger.Error(err, "email send failed", "recipient_id", recipient.ID)
		return failed(model.ChannelEmail, fmt.Sprintf("smtp send: %v", err))
	}

	return sent(model.ChannelEmail, uuid.NewString())
}
