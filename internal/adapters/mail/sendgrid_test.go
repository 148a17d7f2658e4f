package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_mailer/internal/domain"
)

func TestSendGridMailer_Send(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m, err := NewSendGrid("sg-key", srv.URL, 0, 0)
	require.NoError(t, err)
	require.NoError(t, m.Send(context.Background(), sample))

	from := body["from"].(map[string]any)
	assert.Equal(t, "bot@hotel.test", from["email"])
	assert.Equal(t, "Hotel Booking System", from["name"])
	assert.Equal(t, sample.Subject, body["subject"])
	replyTo := body["reply_to"].(map[string]any)
	assert.Equal(t, "jane@mail.test", replyTo["email"])

	pers := body["personalizations"].([]any)[0].(map[string]any)
	to := pers["to"].([]any)[0].(map[string]any)
	assert.Equal(t, "front@hotel.test", to["email"])
}

func TestSendGridMailer_RejectedIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad from"}]}`))
	}))
	defer srv.Close()

	m, err := NewSendGrid("sg-key", srv.URL, 0, 0)
	require.NoError(t, err)

	err = m.Send(context.Background(), sample)
	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "sendgrid", te.Provider)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "bad from")
}

func TestSendGridMailer_NoReplyToWhenAbsent(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m, err := NewSendGrid("sg-key", srv.URL, 0, 0)
	require.NoError(t, err)
	e := sample
	e.ReplyTo = ""
	require.NoError(t, m.Send(context.Background(), e))
	_, ok := body["reply_to"]
	assert.False(t, ok)
}

func TestNewSendGrid_RequiresKey(t *testing.T) {
	_, err := NewSendGrid("", "", 0, 0)
	assert.Error(t, err)
}
