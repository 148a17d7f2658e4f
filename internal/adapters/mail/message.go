package mail

import (
	"bytes"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_mailer/internal/domain"
)

// envelope is the parsed sender and recipient of a message.
type envelope struct {
	from string
	to   string
}

// buildMessage renders an RFC 5322 message with a quoted-printable HTML body.
func buildMessage(e domain.Email, now time.Time) ([]byte, envelope, error) {
	from, err := mail.ParseAddress(e.From)
	if err != nil {
		return nil, envelope{}, fmt.Errorf("invalid sender address %q: %w", e.From, err)
	}
	from.Name = e.FromName
	to, err := mail.ParseAddress(e.To)
	if err != nil {
		return nil, envelope{}, fmt.Errorf("invalid recipient address %q: %w", e.To, err)
	}

	var buf bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }

	header("From", from.String())
	header("To", to.String())
	if e.ReplyTo != "" {
		if rt, err := mail.ParseAddress(e.ReplyTo); err == nil {
			header("Reply-To", rt.String())
		} else {
			log.Warn().Str("reply_to", e.ReplyTo).Msg("dropping unparsable Reply-To")
		}
	}
	header("Subject", mime.QEncoding.Encode("utf-8", e.Subject))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), hostOf(from.Address)))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(e.HTML)); err != nil {
		return nil, envelope{}, err
	}
	if err := qp.Close(); err != nil {
		return nil, envelope{}, err
	}
	return buf.Bytes(), envelope{from: from.Address, to: to.Address}, nil
}

func hostOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}
