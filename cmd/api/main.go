package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_mailer/internal/adapters/http_server"
	"hotel_mailer/internal/adapters/mail"
	"hotel_mailer/internal/adapters/observability"
	redisad "hotel_mailer/internal/adapters/redis"
	"hotel_mailer/internal/app"
	"hotel_mailer/internal/domain"
	"hotel_mailer/internal/shared"
	mysqlrepo "hotel_mailer/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	mailer, err := newMailer(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.MailProvider).Msg("mail transport setup failed")
	}
	log.Info().Str("provider", cfg.MailProvider).Msg("mail transport ready")

	// optional: duplicate-submission guard
	var guard domain.SubmissionGuard
	if cfg.RedisAddr != "" {
		g := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := g.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; guard stays on and degrades per request")
		}
		defer g.Close()
		guard = g
	}

	// optional: hotel mailbox directory
	var dir domain.MailboxDirectory
	if cfg.MailboxDSN != "" {
		db, err := mysqlrepo.Open(ctx, cfg.MailboxDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("mailbox directory unavailable")
		}
		defer func(db *sql.DB) { _ = db.Close() }(db)
		log.Info().Msg("mailbox directory connection ok")
		dir = mysqlrepo.New(db)
	}

	renderer := app.NewRenderer(app.NewLocaleFormatter(cfg.MailLocale, cfg.CurrencyAware))
	svc := app.NewSubmissionService(mailer, renderer, dir, guard, cfg.DedupTTL, app.Sender{
		Name:            cfg.MailFromName,
		Address:         cfg.MailUser,
		FallbackMailbox: cfg.HotelEmail,
	})

	// http
	srv := server.New(server.Options{
		Timeout:      cfg.RequestTimeout,
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

// newMailer builds the single transport this process sends through.
func newMailer(cfg shared.Config) (domain.Mailer, error) {
	switch cfg.MailProvider {
	case "smtp":
		return mail.NewSMTP(mail.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.MailUser,
			Password:    cfg.MailPass,
			RatePerSec:  cfg.MailRate,
			MaxInFlight: cfg.MailInFlight,
		})
	case "sendgrid":
		return mail.NewSendGrid(cfg.SendGridKey, cfg.SendGridBase, cfg.MailRate, cfg.MailInFlight)
	default:
		return nil, errors.New("unknown MAIL_PROVIDER " + cfg.MailProvider)
	}
}
