package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"hotel_mailer/internal/domain"
	"hotel_mailer/internal/storage/mysql/migrations"
)

// Repo is the hotel mailbox directory.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects and pings. The DSN should carry parseTime=true.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, db *sql.DB) error {
	p, err := goose.NewProvider(goose.DialectMySQL, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	res, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range res {
		log.Info().Str("migration", r.Source.Path).Dur("took", r.Duration).Msg("migration applied")
	}
	return nil
}

// LookupMailbox returns the active mailbox for hotelID, or domain.ErrNotFound.
func (r *Repo) LookupMailbox(ctx context.Context, hotelID string) (string, error) {
	var mailbox string
	err := r.db.QueryRowContext(ctx, lookupMailboxSQL, hotelID).Scan(&mailbox)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup mailbox %s: %w", hotelID, err)
	}
	if mailbox = strings.TrimSpace(mailbox); mailbox == "" {
		return "", domain.ErrNotFound
	}
	return mailbox, nil
}

func (r *Repo) UpsertMailbox(ctx context.Context, hotelID, mailbox string, active bool) error {
	hotelID, mailbox = strings.TrimSpace(hotelID), strings.TrimSpace(mailbox)
	if hotelID == "" || mailbox == "" {
		return errors.New("hotel id and mailbox are required")
	}
	if _, err := r.db.ExecContext(ctx, upsertMailboxSQL, hotelID, mailbox, active); err != nil {
		return fmt.Errorf("upsert mailbox %s: %w", hotelID, err)
	}
	return nil
}
