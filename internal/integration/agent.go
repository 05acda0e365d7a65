package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

// AgentPayload is the aggregated user snapshot sent to the agent
// data-processing API. Absent sections marshal as null; the agent treats
// missing data as "not on file".
type AgentPayload struct {
	User              *model.User               `json:"user"`
	EmergencyContacts []*model.EmergencyContact `json:"emergency_contacts"`
	MedicalInfo       *model.MedicalInfo        `json:"medical_info"`
	HealthInsurances  []*model.HealthInsurance  `json:"health_insurances"`
	BankAccounts      []*model.BankAccount      `json:"bank_accounts"`
	Addresses         []*model.Address          `json:"addresses"`
}

// AgentClient forwards aggregated user data to the agent API.
type AgentClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewAgentClient(endpoint, apiKey string) *AgentClient {
	return &AgentClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		// The agent runs model inference on the payload; give it more room
		// than the messaging provider before timing out.
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

// Compute POSTs the payload and returns the remote response body untouched.
func (a *AgentClient) Compute(ctx context.Context, payload AgentPayload) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", a.apiKey)

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent service unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Service: "agent", Status: resp.StatusCode, Body: string(respBody)}
	}
	return json.RawMessage(respBody), nil
}
