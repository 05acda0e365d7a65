package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "test-auth-secret"
	testServiceKey = "test-service-key"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// runAuth sends a request through the Auth middleware and reports the
// resolved caller, if the request got through.
func runAuth(t *testing.T, decorate func(*http.Request)) (int, Caller, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	decorate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var caller Caller
	var reached bool
	h := Auth(testSecret, testServiceKey)(func(c echo.Context) error {
		caller, reached = CallerFrom(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec.Code, caller, reached
}

func TestAuthServiceKey(t *testing.T) {
	code, caller, reached := runAuth(t, func(r *http.Request) {
		r.Header.Set("X-Service-Key", testServiceKey)
	})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, reached)
	assert.True(t, caller.Service)
	assert.Empty(t, caller.UserID)
}

func TestAuthServiceKeyWrong(t *testing.T) {
	code, _, reached := runAuth(t, func(r *http.Request) {
		r.Header.Set("X-Service-Key", "wrong")
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, reached)
}

func TestAuthBearerToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "auth0|abc123",
		"email": "ada@example.com",
		"name":  "Ada Lovelace",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	code, caller, reached := runAuth(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, reached)
	assert.False(t, caller.Service)
	assert.Equal(t, "auth0|abc123", caller.UserID)
	assert.Equal(t, "ada@example.com", caller.Email)
	assert.Equal(t, "Ada Lovelace", caller.Name)
}

func TestAuthBearerTokenRejected(t *testing.T) {
	cases := map[string]string{
		"wrong secret": signToken(t, "other-secret", jwt.MapClaims{
			"sub": "auth0|abc123",
			"exp": time.Now().Add(time.Hour).Unix(),
		}),
		"expired": signToken(t, testSecret, jwt.MapClaims{
			"sub": "auth0|abc123",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}),
		"missing sub": signToken(t, testSecret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		}),
		"garbage": "not.a.token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			code, _, reached := runAuth(t, func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+token)
			})
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.False(t, reached)
		})
	}
}

func TestAuthNoCredentials(t *testing.T) {
	code, _, reached := runAuth(t, func(*http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, reached)
}

// A service key wins even when a bearer token is also forwarded.
func TestAuthServiceKeyPrecedence(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "auth0|abc123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	code, caller, reached := runAuth(t, func(r *http.Request) {
		r.Header.Set("X-Service-Key", testServiceKey)
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, reached)
	assert.True(t, caller.Service)
}
