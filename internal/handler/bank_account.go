package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rescuelink/emergency-data-api/internal/model"
	"github.com/rescuelink/emergency-data-api/internal/repository"
	"github.com/rescuelink/emergency-data-api/internal/utils"
)

// ListBankAccounts handles GET /v1/bank-accounts.
func (h *ResourceHandler) ListBankAccounts(c echo.Context) error {
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Banks.ListByUser(ctx, owner)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondList(c, items, len(items))
}

// GetBankAccount handles GET /v1/bank-accounts/:id.
func (h *ResourceHandler) GetBankAccount(c echo.Context) error {
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

	b, err := h.Banks.GetByIDAndUser(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrBankAccountNotFound) {
			return respondError(c, http.StatusNotFound, "bank account not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondOK(c, b)
}

// CreateBankAccount handles POST /v1/bank-accounts.
func (h *ResourceHandler) CreateBankAccount(c echo.Context) error {
	var req struct {
		UserID        string  `json:"user_id"`
		BankName      string  `json:"bank_name"`
		AccountType   string  `json:"account_type"`
		AccountNumber string  `json:"account_number"`
		HolderName    string  `json:"holder_name"`
		HolderRUT     *string `json:"holder_rut"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}

	var problems []string
	if strings.TrimSpace(req.BankName) == "" {
		problems = append(problems, "bank_name is required")
	}
	if strings.TrimSpace(req.AccountType) == "" {
		problems = append(problems, "account_type is required")
	}
	if strings.TrimSpace(req.AccountNumber) == "" {
		problems = append(problems, "account_number is required")
	}
	if strings.TrimSpace(req.HolderName) == "" {
		problems = append(problems, "holder_name is required")
	}
	if req.HolderRUT != nil {
		normalized, ok := utils.ValidateRUT(*req.HolderRUT)
		if !ok {
			problems = append(problems, "holder_rut is invalid")
		} else {
			req.HolderRUT = &normalized
		}
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b := &model.BankAccount{
		UserID:        owner,
		BankName:      req.BankName,
		AccountType:   req.AccountType,
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
		HolderRUT:     req.HolderRUT,
	}
	if err := h.Banks.Create(ctx, b); err != nil {
		return respondError(c, http.StatusInternalServerError, "create failed")
	}
	return respondCreated(c, b)
}

// UpdateBankAccount handles PATCH /v1/bank-accounts/:id.
func (h *ResourceHandler) UpdateBankAccount(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		UserID string `json:"user_id"`
		repository.BankAccountPatch
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}

	var problems []string
	if req.BankName != nil && strings.TrimSpace(*req.BankName) == "" {
		problems = append(problems, "bank_name cannot be empty")
	}
	if req.AccountType != nil && strings.TrimSpace(*req.AccountType) == "" {
		problems = append(problems, "account_type cannot be empty")
	}
	if req.AccountNumber != nil && strings.TrimSpace(*req.AccountNumber) == "" {
		problems = append(problems, "account_number cannot be empty")
	}
	if req.HolderName != nil && strings.TrimSpace(*req.HolderName) == "" {
		problems = append(problems, "holder_name cannot be empty")
	}
	if req.HolderRUT.Set && req.HolderRUT.Value != nil {
		normalized, ok := utils.ValidateRUT(*req.HolderRUT.Value)
		if !ok {
			problems = append(problems, "holder_rut is invalid")
		} else {
			req.HolderRUT.Value = &normalized
		}
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Banks.Update(ctx, id, owner, req.BankAccountPatch)
	if err != nil {
		if errors.Is(err, repository.ErrBankAccountNotFound) {
			return respondError(c, http.StatusNotFound, "bank account not found")
		}
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	return respondOK(c, b)
}

// DeleteBankAccount handles DELETE /v1/bank-accounts/:id.
func (h *ResourceHandler) DeleteBankAccount(c echo.Context) error {
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

	if err := h.Banks.Delete(ctx, id, owner); err != nil {
		if errors.Is(err, repository.ErrBankAccountNotFound) {
			return respondError(c, http.StatusNotFound, "bank account not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "bank account deleted")
}
