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

	"github.com/rescuelink/emergency-data-api/internal/model"
)

func TestAgentCompute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "agent-key", r.Header.Get("X-Api-Key"))

		var payload map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		// Every section is present, filled or null.
		for _, key := range []string{"user", "emergency_contacts", "medical_info", "health_insurances", "bank_accounts", "addresses"} {
			assert.Contains(t, payload, key)
		}
		assert.Equal(t, "null", string(payload["medical_info"]))

		w.Write([]byte(`{"risk_score":0.12}`))
	}))
	defer srv.Close()

	a := NewAgentClient(srv.URL, "agent-key")
	body, err := a.Compute(context.Background(), AgentPayload{
		User:              &model.User{ID: "auth0|abc123", Email: "ada@example.com"},
		EmergencyContacts: []*model.EmergencyContact{},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"risk_score":0.12}`, string(body))
}

func TestAgentComputeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := NewAgentClient(srv.URL, "agent-key")
	_, err := a.Compute(context.Background(), AgentPayload{})
	require.Error(t, err)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "agent", ue.Service)
	assert.Equal(t, http.StatusServiceUnavailable, ue.Status)
}
