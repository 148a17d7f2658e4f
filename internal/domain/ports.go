package domain

import (
	"context"
	"time"
)

type Email struct {
	FromName string
	From     string
	To       string
	ReplyTo  string // empty when the customer left no address
	Subject  string
	HTML     string
}

type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// MailboxDirectory resolves a hotel identifier to its mailbox.
type MailboxDirectory interface {
	LookupMailbox(ctx context.Context, hotelID string) (string, error)
}

// SubmissionGuard remembers recently delivered submissions by key.
type SubmissionGuard interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string, ttl time.Duration) error
}
