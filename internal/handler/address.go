package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rescuelink/emergency-data-api/internal/model"
	"github.com/rescuelink/emergency-data-api/internal/repository"
)

// ListAddresses handles GET /v1/addresses. The primary address, if any,
// comes first.
func (h *ResourceHandler) ListAddresses(c echo.Context) error {
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Addresses.ListByUser(ctx, owner)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondList(c, items, len(items))
}

// GetAddress handles GET /v1/addresses/:id.
func (h *ResourceHandler) GetAddress(c echo.Context) error {
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

	a, err := h.Addresses.GetByIDAndUser(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return respondError(c, http.StatusNotFound, "address not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondOK(c, a)
}

// CreateAddress handles POST /v1/addresses. A new address flagged primary
// demotes the previous primary atomically.
func (h *ResourceHandler) CreateAddress(c echo.Context) error {
	var req struct {
		UserID     string  `json:"user_id"`
		Street     string  `json:"street"`
		City       string  `json:"city"`
		Region     string  `json:"region"`
		PostalCode *string `json:"postal_code"`
		IsPrimary  bool    `json:"is_primary"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}

	var problems []string
	if strings.TrimSpace(req.Street) == "" {
		problems = append(problems, "street is required")
	}
	if strings.TrimSpace(req.City) == "" {
		problems = append(problems, "city is required")
	}
	if strings.TrimSpace(req.Region) == "" {
		problems = append(problems, "region is required")
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := &model.Address{
		UserID:     owner,
		Street:     req.Street,
		City:       req.City,
		Region:     req.Region,
		PostalCode: req.PostalCode,
		IsPrimary:  req.IsPrimary,
	}
	if err := h.Addresses.Create(ctx, a); err != nil {
		return respondError(c, http.StatusInternalServerError, "create failed")
	}
	return respondCreated(c, a)
}

// UpdateAddress handles PATCH /v1/addresses/:id.
func (h *ResourceHandler) UpdateAddress(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		UserID string `json:"user_id"`
		repository.AddressPatch
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}

	var problems []string
	if req.Street != nil && strings.TrimSpace(*req.Street) == "" {
		problems = append(problems, "street cannot be empty")
	}
	if req.City != nil && strings.TrimSpace(*req.City) == "" {
		problems = append(problems, "city cannot be empty")
	}
	if req.Region != nil && strings.TrimSpace(*req.Region) == "" {
		problems = append(problems, "region cannot be empty")
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Addresses.Update(ctx, id, owner, req.AddressPatch)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return respondError(c, http.StatusNotFound, "address not found")
		}
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	return respondOK(c, a)
}

// SetPrimaryAddress handles PUT /v1/addresses/:id/primary. Idempotent:
// promoting the current primary is a no-op that still returns 200.
func (h *ResourceHandler) SetPrimaryAddress(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		UserID string `json:"user_id"`
	}
	// Body is optional here; service callers may pass user_id via query.
	_ = c.Bind(&req)
	target := req.UserID
	if target == "" {
		target = c.QueryParam("user_id")
	}
	owner, err := resolveOwner(c, target)
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Addresses.SetPrimary(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return respondError(c, http.StatusNotFound, "address not found")
		}
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	return respondOK(c, a)
}

// DeleteAddress handles DELETE /v1/addresses/:id. Deleting the primary
// address leaves the user without one until another is promoted.
func (h *ResourceHandler) DeleteAddress(c echo.Context) error {
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

	if err := h.Addresses.Delete(ctx, id, owner); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return respondError(c, http.StatusNotFound, "address not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "address deleted")
}
