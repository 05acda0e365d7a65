package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rescuelink/emergency-data-api/internal/model"
	"github.com/rescuelink/emergency-data-api/internal/repository"
)

// ListHealthInsurances handles GET /v1/health-insurances.
func (h *ResourceHandler) ListHealthInsurances(c echo.Context) error {
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Insurances.ListByUser(ctx, owner)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondList(c, items, len(items))
}

// GetHealthInsurance handles GET /v1/health-insurances/:id.
func (h *ResourceHandler) GetHealthInsurance(c echo.Context) error {
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

	hi, err := h.Insurances.GetByIDAndUser(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrHealthInsuranceNotFound) {
			return respondError(c, http.StatusNotFound, "health insurance not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondOK(c, hi)
}

// CreateHealthInsurance handles POST /v1/health-insurances.
func (h *ResourceHandler) CreateHealthInsurance(c echo.Context) error {
	var req struct {
		UserID       string  `json:"user_id"`
		Provider     string  `json:"provider"`
		PlanName     *string `json:"plan_name"`
		PolicyNumber *string `json:"policy_number"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}
	if strings.TrimSpace(req.Provider) == "" {
		return respondValidation(c, []string{"provider is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	hi := &model.HealthInsurance{
		UserID:       owner,
		Provider:     req.Provider,
		PlanName:     req.PlanName,
		PolicyNumber: req.PolicyNumber,
	}
	if err := h.Insurances.Create(ctx, hi); err != nil {
		return respondError(c, http.StatusInternalServerError, "create failed")
	}
	return respondCreated(c, hi)
}

// UpdateHealthInsurance handles PATCH /v1/health-insurances/:id.
func (h *ResourceHandler) UpdateHealthInsurance(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		UserID string `json:"user_id"`
		repository.HealthInsurancePatch
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}
	if req.Provider != nil && strings.TrimSpace(*req.Provider) == "" {
		return respondValidation(c, []string{"provider cannot be empty"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	hi, err := h.Insurances.Update(ctx, id, owner, req.HealthInsurancePatch)
	if err != nil {
		if errors.Is(err, repository.ErrHealthInsuranceNotFound) {
			return respondError(c, http.StatusNotFound, "health insurance not found")
		}
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	return respondOK(c, hi)
}

// DeleteHealthInsurance handles DELETE /v1/health-insurances/:id.
func (h *ResourceHandler) DeleteHealthInsurance(c echo.Context) error {
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

	if err := h.Insurances.Delete(ctx, id, owner); err != nil {
		if errors.Is(err, repository.ErrHealthInsuranceNotFound) {
			return respondError(c, http.StatusNotFound, "health insurance not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "health insurance deleted")
}
