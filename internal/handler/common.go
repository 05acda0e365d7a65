package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rescuelink/emergency-data-api/internal/middleware"
)

// errNoCaller is returned when a protected handler runs without a resolved
// caller, which means the auth middleware was not applied to its route.
var errNoCaller = errors.New("no caller in context")

// reqCtx bounds a request-scoped operation; database and broker calls
// triggered by a single request share this deadline.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// parseID parses the numeric :id route parameter.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// resolveOwner returns the user whose data the request targets. Users act
// on their own rows; service-key callers must name the target user
// explicitly (body field or query parameter, passed in as explicit).
func resolveOwner(c echo.Context, explicit string) (string, error) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return "", errNoCaller
	}
	if caller.Service {
		explicit = strings.TrimSpace(explicit)
		if explicit == "" {
			return "", errors.New("user_id is required for service callers")
		}
		return explicit, nil
	}
	return caller.UserID, nil
}

// respondOwnerError reports a failed owner resolution. A missing caller
// means the route was mounted without the auth middleware, which is a
// server fault, not a bad request.
func respondOwnerError(c echo.Context, err error) error {
	if errors.Is(err, errNoCaller) {
		return respondError(c, http.StatusInternalServerError, "caller not resolved")
	}
	return respondError(c, http.StatusBadRequest, err.Error())
}
