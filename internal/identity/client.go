// Package identity wraps the external identity provider. The provider owns
// account creation, token issuance and verification; the core only calls its
// admin API over HTTP and trusts the subject ids it hands back.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrAccountNotFound is returned by lookups when the provider knows no
// account for the given id or email.
var ErrAccountNotFound = errors.New("identity account not found")

// ErrEmailTaken is returned by CreateAccount when the provider already has
// an account registered under the email.
var ErrEmailTaken = errors.New("email already registered at identity provider")

// Account is the provider's view of an identity.
type Account struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Phone       *string `json:"phone,omitempty"`
	PictureURL  *string `json:"picture_url,omitempty"`
}

// Client talks to the identity provider admin API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient constructs a Client for the given base URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateAccount registers a new identity and returns it, including the
// provider-assigned subject id. A 409 from the provider means the email is
// already registered there.
func (c *Client) CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error) {
	payload, err := json.Marshal(map[string]string{
		"email":        email,
		"password":     password,
		"display_name": displayName,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/accounts", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusConflict {
		return nil, ErrEmailTaken
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, string(body))
	}
	var acc Account
	if err := json.Unmarshal(body, &acc); err != nil {
		return nil, fmt.Errorf("identity provider sent malformed account: %w", err)
	}
	return &acc, nil
}

// LookupByEmail fetches an account by email. ErrAccountNotFound on 404.
func (c *Client) LookupByEmail(ctx context.Context, email string) (*Account, error) {
	u := c.baseURL + "/v1/accounts?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	switch resp.StatusCode {
	case http.StatusOK:
		var acc Account
		if err := json.Unmarshal(body, &acc); err != nil {
			return nil, fmt.Errorf("identity provider sent malformed account: %w", err)
		}
		return &acc, nil
	case http.StatusNotFound:
		return nil, ErrAccountNotFound
	default:
		return nil, fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, string(body))
	}
}

// DeleteAccount removes an identity by subject id. Deleting an already
// missing account is not an error; the compensation path in registration
// calls this after a failed local write and must stay idempotent.
func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/accounts/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, string(body))
}
