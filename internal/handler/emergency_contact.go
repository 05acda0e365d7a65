package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rescuelink/emergency-data-api/internal/model"
	"github.com/rescuelink/emergency-data-api/internal/repository"
)

// ListContacts handles GET /v1/emergency-contacts.
func (h *ResourceHandler) ListContacts(c echo.Context) error {
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Contacts.ListByUser(ctx, owner)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondList(c, items, len(items))
}

// GetContact handles GET /v1/emergency-contacts/:id.
func (h *ResourceHandler) GetContact(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ec, err := h.Contacts.GetByIDAndUser(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return respondError(c, http.StatusNotFound, "emergency contact not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondOK(c, ec)
}

// CreateContact handles POST /v1/emergency-contacts.
func (h *ResourceHandler) CreateContact(c echo.Context) error {
	var req struct {
		UserID       string `json:"user_id"`
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		Relationship string `json:"relationship"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}

	var problems []string
	if strings.TrimSpace(req.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(req.Phone) == "" {
		problems = append(problems, "phone is required")
	}
	if strings.TrimSpace(req.Relationship) == "" {
		problems = append(problems, "relationship is required")
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ec := &model.EmergencyContact{
		UserID:       owner,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Relationship: strings.TrimSpace(req.Relationship),
	}
	if err := h.Contacts.Create(ctx, ec); err != nil {
		return respondError(c, http.StatusInternalServerError, "could not create emergency contact")
	}
	return respondCreated(c, ec)
}

// UpdateContact handles PATCH /v1/emergency-contacts/:id.
func (h *ResourceHandler) UpdateContact(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var patch repository.EmergencyContactPatch
	if err := c.Bind(&patch); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ec, err := h.Contacts.Update(ctx, id, owner, patch)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return respondError(c, http.StatusNotFound, "emergency contact not found")
		}
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	return respondOK(c, ec)
}

// DeleteContact handles DELETE /v1/emergency-contacts/:id.
func (h *ResourceHandler) DeleteContact(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Contacts.Delete(ctx, id, owner); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return respondError(c, http.StatusNotFound, "emergency contact not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "emergency contact deleted")
}
