// Package handler contains the HTTP handlers. Every response uses one JSON
// envelope: {success, data?, message?, error?}, plus count on plain lists
// and pagination on paginated ones. Handlers map repository sentinels and
// upstream failures onto the envelope themselves; nothing escapes
// unformatted.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pagination describes one page of a paginated list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      any         `json:"error,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func respondOK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func respondCreated(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: true, Message: msg})
}

func respondList(c echo.Context, items any, count int) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: items, Count: &count})
}

func respondPage(c echo.Context, items any, p Pagination) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: items, Pagination: &p})
}

func respondError(c echo.Context, status int, err any) error {
	return c.JSON(status, envelope{Success: false, Error: err})
}

// respondValidation reports a 400 with the field-level message list.
func respondValidation(c echo.Context, msgs []string) error {
	return c.JSON(http.StatusBadRequest, envelope{Success: false, Error: msgs})
}
