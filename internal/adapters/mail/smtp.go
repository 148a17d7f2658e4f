// Package mail holds the outbound mail transports. Each is configured once at
// startup and used through domain.Mailer.
package mail

import (
	"context"
	"errors"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_mailer/internal/adapters/observability"
	"hotel_mailer/internal/domain"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	RatePerSec  int
	MaxInFlight int
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPMailer struct {
	addr     string
	auth     smtp.Auth
	th       *throttle
	sendMail sendFunc
}

func NewSMTP(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp: host is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth:     auth,
		th:       newThrottle(cfg.RatePerSec, cfg.MaxInFlight),
		sendMail: smtp.SendMail,
	}, nil
}

// Send delivers one message. ctx bounds the wait for a send slot; the SMTP
// exchange itself is not interruptible.
func (m *SMTPMailer) Send(ctx context.Context, e domain.Email) error {
	start := time.Now()
	err := m.send(ctx, e)
	observability.ObserveMail("smtp", err, time.Since(start))
	if err != nil {
		log.Error().Err(err).Str("to", e.To).Msg("smtp send failed")
		return &domain.TransportError{Provider: "smtp", Err: err}
	}
	log.Info().Str("to", e.To).Str("subject", e.Subject).Msg("smtp send ok")
	return nil
}

func (m *SMTPMailer) send(ctx context.Context, e domain.Email) error {
	msg, env, err := buildMessage(e, time.Now())
	if err != nil {
		return err
	}
	release, err := m.th.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return m.sendMail(m.addr, m.auth, env.from, []string{env.to}, msg)
}
