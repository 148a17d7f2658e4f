package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	CORSOrigins []string

	MailProvider  string
	MailUser      string
	MailPass      string
	MailFromName  string
	HotelEmail    string
	SMTPHost      string
	SMTPPort      int
	SendGridKey   string
	SendGridBase  string
	MailRate      int
	MailInFlight  int
	MailLocale    string
	CurrencyAware bool

	RedisAddr string
	RedisDB   int
	RedisPass string
	DedupTTL  time.Duration

	MailboxDSN string

	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Load reads the process environment, after merging a .env file when one exists.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":"+env("PORT", "3000")),
		MetricsAddr: env("METRICS_ADDR", ""),
		CORSOrigins: list(env("CORS_ORIGINS", "*")),

		MailProvider:  strings.ToLower(env("MAIL_PROVIDER", "smtp")),
		MailUser:      env("EMAIL_USER", ""),
		MailPass:      env("EMAIL_PASS", ""),
		MailFromName:  env("MAIL_FROM_NAME", "Hotel Booking System"),
		SMTPHost:      env("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      atoi("SMTP_PORT", 587),
		SendGridKey:   env("SENDGRID_API_KEY", ""),
		SendGridBase:  env("SENDGRID_BASE_URL", ""),
		MailRate:      atoi("MAIL_RATE_PER_SEC", 5),
		MailInFlight:  atoi("MAIL_MAX_INFLIGHT", 4),
		MailLocale:    env("MAIL_LOCALE", "en-US"),
		CurrencyAware: flag("MAIL_CURRENCY_AWARE"),

		RedisAddr: env("REDIS_ADDR", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		RedisPass: env("REDIS_PASSWORD", ""),
		DedupTTL:  time.Duration(atoi("DEDUP_TTL_SECONDS", 300)) * time.Second,

		MailboxDSN: env("MAILBOX_DSN", ""),

		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		MaxBodyBytes:   int64(atoi("MAX_BODY_BYTES", 1<<20)),
	}
	c.HotelEmail = env("HOTEL_EMAIL", c.MailUser)

	if c.MailUser == "" {
		log.Warn().Msg("EMAIL_USER is empty")
	}
	if c.MailProvider == "smtp" && c.MailPass == "" {
		log.Warn().Msg("EMAIL_PASS is empty")
	}
	if c.MailProvider == "sendgrid" && c.SendGridKey == "" {
		log.Warn().Msg("SENDGRID_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func flag(k string) bool {
	b, _ := strconv.ParseBool(os.Getenv(k))
	return b
}

func list(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
