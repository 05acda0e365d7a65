package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescuelink/emergency-data-api/internal/middleware"
)

func ctxWithCaller(t *testing.T, caller *middleware.Caller) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		// Matches the context key the auth middleware uses.
		c.Set("caller", *caller)
	}
	return c
}

func TestResolveOwnerUser(t *testing.T) {
	c := ctxWithCaller(t, &middleware.Caller{UserID: "auth0|abc123"})

	// A user resolves to themselves, explicit target ignored.
	owner, err := resolveOwner(c, "")
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc123", owner)

	owner, err = resolveOwner(c, "auth0|other")
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc123", owner)
}

func TestResolveOwnerService(t *testing.T) {
	c := ctxWithCaller(t, &middleware.Caller{Service: true})

	owner, err := resolveOwner(c, "auth0|target")
	require.NoError(t, err)
	assert.Equal(t, "auth0|target", owner)

	// Service callers must name a target.
	_, err = resolveOwner(c, "  ")
	assert.Error(t, err)
}

func TestResolveOwnerNoCaller(t *testing.T) {
	c := ctxWithCaller(t, nil)
	_, err := resolveOwner(c, "auth0|target")
	assert.ErrorIs(t, err, errNoCaller)
}

func TestRespondOwnerError(t *testing.T) {
	e := echo.New()

	// A missing caller means a route escaped the auth middleware; that is
	// a server fault, not a bad request.
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, respondOwnerError(c, errNoCaller))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// A service caller without a target stays a validation failure.
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, respondOwnerError(c, errors.New("user_id is required for service callers")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("42")

	id, err := parseID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.SetParamValues("not-a-number")
	_, err = parseID(c)
	assert.Error(t, err)

	c.SetParamValues("-1")
	_, err = parseID(c)
	assert.Error(t, err)
}
