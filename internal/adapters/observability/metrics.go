package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelmail", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotelmail", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	MailSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelmail", Name: "mail_sends_total", Help: "Outbound mail sends."},
		[]string{"provider", "outcome"}, // outcome: ok|error
	)
	MailLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotelmail", Name: "mail_send_duration_seconds",
			Help:    "Outbound mail send duration seconds, including throttling waits.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelmail", Name: "submissions_total", Help: "Form submissions by outcome."},
		[]string{"kind", "outcome"}, // outcome: sent|duplicate|invalid|failed
	)
	GuardEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelmail", Name: "guard_events_total", Help: "Duplicate guard hits/misses/marks."},
		[]string{"event"},
	)
)

// Serve exposes reg on a separate listener. Empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, MailSends, MailLatency, Submissions, GuardEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveMail(provider string, err error, dur time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	MailSends.WithLabelValues(provider, outcome).Inc()
	MailLatency.WithLabelValues(provider).Observe(dur.Seconds())
}

func ObserveSubmission(kind, outcome string) {
	Submissions.WithLabelValues(kind, outcome).Inc()
}

func ObserveGuard(event string) { // event: hit|miss|mark
	GuardEvents.WithLabelValues(event).Inc()
}
