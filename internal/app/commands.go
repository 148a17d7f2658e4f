package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_mailer/internal/domain"
)

const (
	KindBooking = "booking"
	KindContact = "contact"
)

// Sender is the configured From identity plus the mailbox used when a
// submission names no destination.
type Sender struct {
	Name            string
	Address         string
	FallbackMailbox string
}

// Receipt describes a handled submission.
type Receipt struct {
	Recipient string
	Duplicate bool // already delivered within the guard window; not sent again
}

// SubmissionService normalizes, renders and hands submissions to the mailer.
// dir and guard are optional.
type SubmissionService struct {
	mailer   domain.Mailer
	renderer *Renderer
	dir      domain.MailboxDirectory
	guard    domain.SubmissionGuard
	guardTTL time.Duration
	sender   Sender
}

func NewSubmissionService(m domain.Mailer, r *Renderer, dir domain.MailboxDirectory, guard domain.SubmissionGuard, guardTTL time.Duration, s Sender) *SubmissionService {
	return &SubmissionService{mailer: m, renderer: r, dir: dir, guard: guard, guardTTL: guardTTL, sender: s}
}

func (s *SubmissionService) SendBooking(ctx context.Context, payload map[string]any) (Receipt, error) {
	b, err := NormalizeBooking(payload, s.fallbackFor(ctx, payload, KindBooking))
	if err != nil {
		return Receipt{}, err
	}
	html, err := s.renderer.Booking(b)
	if err != nil {
		return Receipt{}, err
	}
	return s.deliver(ctx, KindBooking, domain.Email{
		To:      b.HotelEmail,
		ReplyTo: b.Customer.Email,
		Subject: "New Booking from " + orDefault(b.Customer.FullName, "guest"),
		HTML:    html,
	})
}

func (s *SubmissionService) SendContact(ctx context.Context, payload map[string]any) (Receipt, error) {
	c, err := NormalizeContact(payload, s.fallbackFor(ctx, payload, KindContact))
	if err != nil {
		return Receipt{}, err
	}
	html, err := s.renderer.Contact(c)
	if err != nil {
		return Receipt{}, err
	}
	return s.deliver(ctx, KindContact, domain.Email{
		To:      c.HotelEmail,
		ReplyTo: c.Email,
		Subject: "New Contact Request from " + orDefault(c.FullName, "guest"),
		HTML:    html,
	})
}

// fallbackFor picks the computed default mailbox: the directory entry for the
// submitted hotel id, else the configured fallback. The directory is only
// consulted when the payload names no mailbox itself.
func (s *SubmissionService) fallbackFor(ctx context.Context, payload map[string]any, kind string) string {
	if s.dir == nil || HasExplicitMailbox(payload, kind) {
		return s.sender.FallbackMailbox
	}
	id := HotelIDOf(payload)
	if id == "" {
		return s.sender.FallbackMailbox
	}
	mailbox, err := s.dir.LookupMailbox(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Str("hotel_id", id).Msg("mailbox directory lookup failed")
		}
		return s.sender.FallbackMailbox
	}
	return mailbox
}

func (s *SubmissionService) deliver(ctx context.Context, kind string, e domain.Email) (Receipt, error) {
	e.FromName = s.sender.Name
	e.From = s.sender.Address
	rc := Receipt{Recipient: e.To}

	key := submissionKey(kind, e)
	if s.guard != nil {
		seen, err := s.guard.Seen(ctx, key)
		if err != nil {
			// guard is best-effort; a broken store must not block delivery
			log.Warn().Err(err).Str("kind", kind).Msg("submission guard lookup failed")
		} else if seen {
			log.Info().Str("kind", kind).Str("recipient", e.To).Msg("duplicate submission, not resent")
			rc.Duplicate = true
			return rc, nil
		}
	}

	if err := s.mailer.Send(ctx, e); err != nil {
		var te *domain.TransportError
		if !errors.As(err, &te) {
			err = &domain.TransportError{Err: err}
		}
		return Receipt{}, err
	}

	if s.guard != nil {
		if err := s.guard.Mark(ctx, key, s.guardTTL); err != nil {
			log.Warn().Err(err).Str("kind", kind).Msg("submission guard mark failed")
		}
	}
	return rc, nil
}

// submissionKey hashes everything that ends up in the mail, so only an
// identical resubmission collides.
func submissionKey(kind string, e domain.Email) string {
	sum := sha1.Sum([]byte(kind + "|" + e.To + "|" + e.ReplyTo + "|" + e.Subject + "|" + e.HTML))
	return kind + ":" + hex.EncodeToString(sum[:])
}
