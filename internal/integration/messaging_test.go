package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagingSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "provider-key", r.Header.Get("X-Api-Key"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "help is on the way", req["message"])
		assert.Equal(t, "+56912345678", req["phone_number"])

		w.Write([]byte(`{"delivery_id":"msg-1","status":"queued"}`))
	}))
	defer srv.Close()

	m := NewMessagingClient(srv.URL, "provider-key")
	body, err := m.Send(context.Background(), "help is on the way", "+56912345678")
	require.NoError(t, err)

	// The provider body passes through untouched.
	assert.JSONEq(t, `{"delivery_id":"msg-1","status":"queued"}`, string(body))
}

func TestMessagingSendUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid phone number"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m := NewMessagingClient(srv.URL, "provider-key")
	_, err := m.Send(context.Background(), "hi", "not-a-phone")
	require.Error(t, err)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "messaging", ue.Service)
	assert.Equal(t, http.StatusUnprocessableEntity, ue.Status)
	assert.Contains(t, ue.Body, "invalid phone number")
}

func TestMessagingSendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // closed on purpose

	m := NewMessagingClient(srv.URL, "provider-key")
	_, err := m.Send(context.Background(), "hi", "+56912345678")
	require.Error(t, err)

	var ue *UpstreamError
	assert.False(t, errors.As(err, &ue))
}
