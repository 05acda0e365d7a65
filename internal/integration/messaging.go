// Package integration holds the outbound HTTP adapters for the messaging
// and agent services. Both POST a JSON payload with an API-key header and
// surface the remote response body verbatim; a non-2xx answer becomes an
// UpstreamError carrying the remote status and body so handlers can embed
// them in the error envelope.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UpstreamError reports a failed call to an external service.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service returned %d: %s", e.Service, e.Status, e.Body)
}

// MessagingClient delivers text messages through the external messaging
// provider.
type MessagingClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewMessagingClient(endpoint, apiKey string) *MessagingClient {
	return &MessagingClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Send POSTs {message, phone_number} to the provider and returns the remote
// response body untouched.
func (m *MessagingClient) Send(ctx context.Context, message, phoneNumber string) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]string{
		"message":      message,
		"phone_number": phoneNumber,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", m.apiKey)

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("messaging service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Service: "messaging", Status: resp.StatusCode, Body: string(body)}
	}
	return json.RawMessage(body), nil
}
