package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_mailer/internal/adapters/observability"
	"hotel_mailer/internal/app"
	"hotel_mailer/internal/domain"
)

// Submitter is the part of app.SubmissionService the handlers need.
type Submitter interface {
	SendBooking(ctx context.Context, payload map[string]any) (app.Receipt, error)
	SendContact(ctx context.Context, payload map[string]any) (app.Receipt, error)
}

type Handlers struct{ S Submitter }

type reply struct {
	Message   string `json:"message"`
	Recipient string `json:"recipient,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/api/bookings/send-email", h.sendBooking)
	s.mux.Post("/api/contact", h.sendContact)
	s.mux.Post("/api/contact/", h.sendContact)
}

func writeJSON(w http.ResponseWriter, status int, v reply) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decodePayload reads a JSON object. An empty body or `null` is an empty object.
func decodePayload(r *http.Request) (map[string]any, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	p := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return p, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	if p == nil {
		p = map[string]any{}
	}
	return p, nil
}

func (h *Handlers) sendBooking(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, app.KindBooking, h.S.SendBooking, "Booking email sent successfully to hotel owner!")
}

func (h *Handlers) sendContact(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, app.KindContact, h.S.SendContact, "Contact email sent to hotel successfully!")
}

type sendFunc func(ctx context.Context, payload map[string]any) (app.Receipt, error)

func (h *Handlers) submit(w http.ResponseWriter, r *http.Request, kind string, send sendFunc, okMsg string) {
	payload, err := decodePayload(r)
	if err != nil {
		observability.ObserveSubmission(kind, "invalid")
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, reply{Message: "Request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, reply{Message: "Invalid JSON body"})
		return
	}

	rc, err := send(r.Context(), payload)
	switch {
	case errors.Is(err, domain.ErrMissingHotelEmail):
		observability.ObserveSubmission(kind, "invalid")
		writeJSON(w, http.StatusBadRequest, reply{Message: "Missing hotel email"})
		return
	case err != nil:
		observability.ObserveSubmission(kind, "failed")
		log.Error().Err(err).Str("kind", kind).Msg("submission failed")
		writeJSON(w, http.StatusInternalServerError, reply{Message: "Failed to send email", Error: err.Error()})
		return
	}

	outcome := "sent"
	if rc.Duplicate {
		outcome = "duplicate"
	}
	observability.ObserveSubmission(kind, outcome)
	writeJSON(w, http.StatusOK, reply{Message: okMsg, Recipient: rc.Recipient})
}
