package mailer

import (
	"context"
	"fmt"
	"net/http"

	"auvora-crm/config"
	"auvora-crm/internal/infra/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type Mail struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Mail) error
}

// Default is the sender used for outgoing email. main replaces it with
// FromConfig; tests swap in a recorder.
var Default Sender = LogSender{}

// FromConfig returns a SendGrid sender when an API key is configured and the
// log sender otherwise.
func FromConfig() Sender {
	if config.SENDGRID_API_KEY == "" {
		logger.L().Warn("SENDGRID_API_KEY not set, emails will only be logged")
		return LogSender{}
	}
	return NewSendgrid(config.SENDGRID_API_KEY, config.MAIL_FROM, config.MAIL_FROM_NAME, sendgridHost)
}

type SendgridSender struct {
	key  string
	host string
	from *sgmail.Email
}

func NewSendgrid(key, fromAddr, fromName, host string) *SendgridSender {
	return &SendgridSender{
		key:  key,
		host: host,
		from: sgmail.NewEmail(fromName, fromAddr),
	}
}

func (s *SendgridSender) prepare(m Mail) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.Subject
	p.AddTos(sgmail.NewEmail(m.ToName, m.To))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(s.from)
	v3.AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/plain", m.Text))
	if m.HTML != "" {
		v3.AddContent(sgmail.NewContent("text/html", m.HTML))
	}
	return v3
}

func (s *SendgridSender) Send(_ context.Context, m Mail) error {
	req := sendgrid.GetRequest(s.key, sendgridEndpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(m))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// LogSender writes the mail to the process log instead of delivering it.
// The sms and in-app channels always go through it.
type LogSender struct{}

func (LogSender) Send(_ context.Context, m Mail) error {
	logger.L().Info("📨 outgoing message",
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
		zap.Int("body_len", len(m.Text)),
	)
	return nil
}
