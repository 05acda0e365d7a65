package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rescuelink/emergency-data-api/internal/model"
	"github.com/rescuelink/emergency-data-api/internal/repository"
)

// ListVehicles handles GET /v1/vehicles.
func (h *ResourceHandler) ListVehicles(c echo.Context) error {
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Vehicles.ListByUser(ctx, owner)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondList(c, items, len(items))
}

// GetVehicle handles GET /v1/vehicles/:id.
func (h *ResourceHandler) GetVehicle(c echo.Context) error {
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

	v, err := h.Vehicles.GetByIDAndUser(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return respondError(c, http.StatusNotFound, "vehicle not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondOK(c, v)
}

// CreateVehicle handles POST /v1/vehicles.
func (h *ResourceHandler) CreateVehicle(c echo.Context) error {
	var req struct {
		UserID       string  `json:"user_id"`
		LicensePlate string  `json:"license_plate"`
		Make         string  `json:"make"`
		Model        string  `json:"model"`
		Year         int     `json:"year"`
		Color        *string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}

	var problems []string
	if strings.TrimSpace(req.LicensePlate) == "" {
		problems = append(problems, "license_plate is required")
	}
	if strings.TrimSpace(req.Make) == "" {
		problems = append(problems, "make is required")
	}
	if strings.TrimSpace(req.Model) == "" {
		problems = append(problems, "model is required")
	}
	if req.Year < 1900 || req.Year > time.Now().Year()+1 {
		problems = append(problems, "year is out of range")
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	v := &model.Vehicle{
		UserID:       owner,
		LicensePlate: strings.ToUpper(strings.TrimSpace(req.LicensePlate)),
		Make:         strings.TrimSpace(req.Make),
		Model:        strings.TrimSpace(req.Model),
		Year:         req.Year,
		Color:        req.Color,
	}
	if err := h.Vehicles.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return respondError(c, http.StatusConflict, "license plate already registered")
		}
		return respondError(c, http.StatusInternalServerError, "could not create vehicle")
	}
	return respondCreated(c, v)
}

// UpdateVehicle handles PATCH /v1/vehicles/:id.
func (h *ResourceHandler) UpdateVehicle(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var patch repository.VehiclePatch
	if err := c.Bind(&patch); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Vehicles.Update(ctx, id, owner, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVehicleNotFound):
			return respondError(c, http.StatusNotFound, "vehicle not found")
		case errors.Is(err, repository.ErrConflict):
			return respondError(c, http.StatusConflict, "license plate already registered")
		default:
			return respondError(c, http.StatusInternalServerError, "update failed")
		}
	}
	return respondOK(c, v)
}

// DeleteVehicle handles DELETE /v1/vehicles/:id. Insurance rows cascade.
func (h *ResourceHandler) DeleteVehicle(c echo.Context) error {
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

	if err := h.Vehicles.Delete(ctx, id, owner); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return respondError(c, http.StatusNotFound, "vehicle not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "vehicle deleted")
}

// ----- vehicle insurance -----

// ListVehicleInsurance handles GET /v1/vehicles/:id/insurance.
func (h *ResourceHandler) ListVehicleInsurance(c echo.Context) error {
	vehicleID, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Vehicles.ListInsurance(ctx, vehicleID, owner)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return respondError(c, http.StatusNotFound, "vehicle not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondList(c, items, len(items))
}

// CreateVehicleInsurance handles POST /v1/vehicles/:id/insurance.
func (h *ResourceHandler) CreateVehicleInsurance(c echo.Context) error {
	vehicleID, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		UserID       string     `json:"user_id"`
		Company      string     `json:"company"`
		PolicyNumber string     `json:"policy_number"`
		ExpiresAt    *time.Time `json:"expires_at"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}

	var problems []string
	if strings.TrimSpace(req.Company) == "" {
		problems = append(problems, "company is required")
	}
	if strings.TrimSpace(req.PolicyNumber) == "" {
		problems = append(problems, "policy_number is required")
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	vi := &model.VehicleInsurance{
		VehicleID:    vehicleID,
		Company:      strings.TrimSpace(req.Company),
		PolicyNumber: strings.TrimSpace(req.PolicyNumber),
		ExpiresAt:    req.ExpiresAt,
	}
	if err := h.Vehicles.CreateInsurance(ctx, owner, vi); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return respondError(c, http.StatusNotFound, "vehicle not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not create vehicle insurance")
	}
	return respondCreated(c, vi)
}

// UpdateVehicleInsurance handles PATCH /v1/vehicle-insurance/:id.
func (h *ResourceHandler) UpdateVehicleInsurance(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var patch repository.VehicleInsurancePatch
	if err := c.Bind(&patch); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	vi, err := h.Vehicles.UpdateInsurance(ctx, id, owner, patch)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleInsuranceNotFound) {
			return respondError(c, http.StatusNotFound, "vehicle insurance not found")
		}
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	return respondOK(c, vi)
}

// DeleteVehicleInsurance handles DELETE /v1/vehicle-insurance/:id.
func (h *ResourceHandler) DeleteVehicleInsurance(c echo.Context) error {
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

	if err := h.Vehicles.DeleteInsurance(ctx, id, owner); err != nil {
		if errors.Is(err, repository.ErrVehicleInsuranceNotFound) {
			return respondError(c, http.StatusNotFound, "vehicle insurance not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "vehicle insurance deleted")
}
