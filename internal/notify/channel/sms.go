package channel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/pkg/logger"
	"github.com/clinichq/reminder-engine/pkg/phone"
)

const smsMaxRunes = 160

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	RatePerSec float64
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type smsAdapter struct {
	cfg     SMSConfig
	client  httpDoer
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewSMSAdapter builds the SMS adapter. Sends are throttled to the
// provider's rate cap.
func NewSMSAdapter(cfg SMSConfig, log *logger.Logger) Adapter {
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	return &smsAdapter{
		cfg:     cfg,
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		logger:  log,
	}
}

func (a *smsAdapter) Name() model.Channel {
	return model.ChannelSMS
}

func (a *smsAdapter) IsAvailable() bool {
	return a.cfg.AccountSID != "" && a.cfg.AuthToken != "" && a.cfg.From != ""
}

func (a *smsAdapter) Send(ctx context.Context, recipient *model.RecipientInfo, tmpl *model.RenderedTemplate, priority model.Priority, referenceID *uuid.UUID) model.ChannelResult {
	if !recipient.SMSEnabled {
		return cancelled(model.ChannelSMS, "recipient has SMS notifications disabled")
	}
	if recipient.Phone == "" {
		return failed(model.ChannelSMS, "no phone number on file")
	}

	to, err := phone.Normalize(recipient.Phone)
	if err != nil {
		return failed(model.ChannelSMS, fmt.Sprintf("invalid phone number: %v", err))
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return failed(model.ChannelSMS, err.Error())
	}

	body := smsBody(tmpl)
	messageID, err := a.deliver(ctx, to, body)
	if err != nil {
		a.logger.Error(err, "sms send failed", "recipient_id", recipient.ID)
		return failed(model.ChannelSMS, fmt.Sprintf("sms send: %v", err))
	}

	return sent(model.ChannelSMS, messageID)
}

func (a *smsAdapter) deliver(ctx context.Context, to, body string) (string, error) {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", a.cfg.AccountSID)
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", a.cfg.From)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(a.cfg.AccountSID, a.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return uuid.NewString(), nil
}

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// smsBody picks the short-message variant when the template provides one,
// otherwise condenses the long body: markup stripped, whitespace collapsed,
// truncated to 160 runes with a trailing ellipsis.
func smsBody(tmpl *model.RenderedTemplate) string {
	if tmpl.SMSBody != "" {
		return tmpl.SMSBody
	}

	body := htmlTagPattern.ReplaceAllString(tmpl.TextBody, "")
	body = whitespacePattern.ReplaceAllString(body, " ")
	body = strings.TrimSpace(body)

	runes := []rune(body)
	if len(runes) > smsMaxRunes {
		body = string(runes[:smsMaxRunes-3]) + "..."
	}
	return body
}
