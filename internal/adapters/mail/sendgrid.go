package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"hotel_mailer/internal/adapters/observability"
	"hotel_mailer/internal/domain"
)

type SendGridMailer struct {
	base rest.Request
	th   *throttle
}

// NewSendGrid builds a SendGrid transport. An empty baseURL targets the public API.
func NewSendGrid(apiKey, baseURL string, ratePerSec, maxInFlight int) (*SendGridMailer, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid: API key is required")
	}
	req := sendgrid.GetRequest(apiKey, "/v3/mail/send", baseURL)
	req.Method = rest.Post
	return &SendGridMailer{base: req, th: newThrottle(ratePerSec, maxInFlight)}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, e domain.Email) error {
	start := time.Now()
	err := m.send(ctx, e)
	observability.ObserveMail("sendgrid", err, time.Since(start))
	if err != nil {
		log.Error().Err(err).Str("to", e.To).Msg("sendgrid send failed")
		return &domain.TransportError{Provider: "sendgrid", Err: err}
	}
	log.Info().Str("to", e.To).Str("subject", e.Subject).Msg("sendgrid send ok")
	return nil
}

func (m *SendGridMailer) send(ctx context.Context, e domain.Email) error {
	msg := sgmail.NewSingleEmail(sgmail.NewEmail(e.FromName, e.From), e.Subject, sgmail.NewEmail("", e.To), "", e.HTML)
	if e.ReplyTo != "" {
		msg.SetReplyTo(sgmail.NewEmail("", e.ReplyTo))
	}

	release, err := m.th.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	// the client writes the body into its request, so each send gets its own copy
	client := &sendgrid.Client{Request: m.base}
	resp, err := client.SendWithContext(ctx, msg)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}
	return nil
}
