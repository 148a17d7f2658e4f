// Command mailboxes loads the hotel mailbox directory from a JSON file:
//
//	[{"hotelId": "1001", "mailbox": "desk@hotel.test"}, ...]
//
// It applies pending migrations first, then upserts every entry.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_mailer/internal/adapters/observability"
	"hotel_mailer/internal/shared"
	mysqlrepo "hotel_mailer/internal/storage/mysql"
)

type entry struct {
	HotelID  string `json:"hotelId"`
	Mailbox  string `json:"mailbox"`
	Inactive bool   `json:"inactive,omitempty"`
}

func main() {
	file := flag.String("file", "mailboxes.json", "JSON array of {hotelId, mailbox} entries")
	workers := flag.Int("workers", 8, "concurrent upserts")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if cfg.MailboxDSN == "" {
		log.Fatal().Msg("MAILBOX_DSN is empty")
	}
	entries, err := readEntries(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("read entries failed")
	}
	log.Info().Str("file", *file).Int("entries", len(entries)).Int("workers", *workers).Msg("mailbox load starting")

	db, err := mysqlrepo.Open(ctx, cfg.MailboxDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
	repo := mysqlrepo.New(db)

	if *workers < 1 {
		*workers = 1
	}
	sem := semaphore.NewWeighted(int64(*workers))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, e := range entries {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(e entry) {
			defer wg.Done()
			defer sem.Release(1)

			if err := repo.UpsertMailbox(ctx, e.HotelID, e.Mailbox, !e.Inactive); err != nil {
				failed.Add(1)
				log.Warn().Str("hotel_id", e.HotelID).Err(err).Msg("upsert failed")
				return
			}
			log.Debug().Str("hotel_id", e.HotelID).Msg("upsert ok")
		}(e)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Error().Int64("failed", n).Msg("mailbox load finished with failures")
		os.Exit(1)
	}
	log.Info().Msg("mailbox load completed")
}

func readEntries(path string) ([]entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []entry
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
