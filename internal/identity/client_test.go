package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/accounts", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("X-Api-Key"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req["email"])
		assert.Equal(t, "Ada Lovelace", req["display_name"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Account{ID: "auth0|new123", Email: req["email"], DisplayName: req["display_name"]})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key")
	acc, err := c.CreateAccount(context.Background(), "ada@example.com", "s3cret!", "Ada Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "auth0|new123", acc.ID)
	assert.Equal(t, "ada@example.com", acc.Email)
}

func TestCreateAccountConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"email already registered"}`, http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key")
	_, err := c.CreateAccount(context.Background(), "ada@example.com", "s3cret!", "Ada Lovelace")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLookupByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ada@example.com", r.URL.Query().Get("email"))
		json.NewEncoder(w).Encode(Account{ID: "auth0|abc123", Email: "ada@example.com"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key")
	acc, err := c.LookupByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc123", acc.ID)
}

func TestLookupByEmailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key")
	_, err := c.LookupByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

// Compensation after a failed local write must tolerate an account that is
// already gone.
func TestDeleteAccountIdempotent(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusOK, http.StatusNotFound} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/v1/accounts/auth0|abc123", r.URL.Path)
			w.WriteHeader(status)
		}))
		c := NewClient(srv.URL, "secret-key")
		assert.NoError(t, c.DeleteAccount(context.Background(), "auth0|abc123"))
		srv.Close()
	}
}

func TestDeleteAccountServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key")
	assert.Error(t, c.DeleteAccount(context.Background(), "auth0|abc123"))
}
