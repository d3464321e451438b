package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendSender_Send(t *testing.T) {
	var got resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	sender := NewResendSender(httpx.NewClient(5*time.Second), srv.URL, "re_test", "noreply@example.com")
	err := sender.Send(context.Background(), Message{To: "admin@example.com", Subject: "hello", Text: "body"})
	require.NoError(t, err)

	assert.Equal(t, "noreply@example.com", got.From)
	assert.Equal(t, []string{"admin@example.com"}, got.To)
	assert.Equal(t, "hello", got.Subject)
	assert.Equal(t, "body", got.Text)
}

func TestResendSender_RejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	sender := NewResendSender(httpx.NewClient(5*time.Second), srv.URL, "bad", "noreply@example.com")
	err := sender.Send(context.Background(), Message{To: "admin@example.com", Subject: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestResendSender_NoRecipient(t *testing.T) {
	sender := NewResendSender(http.DefaultClient, "http://127.0.0.1:0", "k", "f")
	assert.ErrorIs(t, sender.Send(context.Background(), Message{}), ErrNoRecipient)
}
