package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rescuelink/emergency-data-api/internal/model"
	"github.com/rescuelink/emergency-data-api/internal/repository"
)

type medicalInfoReq struct {
	UserID      string  `json:"user_id"` // service callers only
	BloodType   *string `json:"blood_type"`
	Allergies   *string `json:"allergies"`
	Medications *string `json:"medications"`
	Conditions  *string `json:"conditions"`
	Notes       *string `json:"notes"`
}

// GetMedicalInfo handles GET /v1/medical-info.
func (h *ResourceHandler) GetMedicalInfo(c echo.Context) error {
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Medical.GetByUser(ctx, owner)
	if err != nil {
		if errors.Is(err, repository.ErrMedicalInfoNotFound) {
			return respondError(c, http.StatusNotFound, "medical info not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondOK(c, m)
}

// CreateMedicalInfo handles POST /v1/medical-info. Medical info is a
// singleton per user: a second create conflicts.
func (h *ResourceHandler) CreateMedicalInfo(c echo.Context) error {
	var req medicalInfoReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m := &model.MedicalInfo{
		UserID:      owner,
		BloodType:   req.BloodType,
		Allergies:   req.Allergies,
		Medications: req.Medications,
		Conditions:  req.Conditions,
		Notes:       req.Notes,
	}
	if err := h.Medical.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return respondError(c, http.StatusConflict, "medical info already exists")
		}
		return respondError(c, http.StatusInternalServerError, "could not create medical info")
	}
	return respondCreated(c, m)
}

// UpsertMedicalInfo handles PUT /v1/medical-info: create-or-replace without
// the singleton conflict. 201 when a row was created, 200 when replaced.
func (h *ResourceHandler) UpsertMedicalInfo(c echo.Context) error {
	var req medicalInfoReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m := &model.MedicalInfo{
		UserID:      owner,
		BloodType:   req.BloodType,
		Allergies:   req.Allergies,
		Medications: req.Medications,
		Conditions:  req.Conditions,
		Notes:       req.Notes,
	}
	inserted, err := h.Medical.Upsert(ctx, m)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not save medical info")
	}
	if inserted {
		return respondCreated(c, m)
	}
	return respondOK(c, m)
}

// UpdateMedicalInfo handles PATCH /v1/medical-info.
func (h *ResourceHandler) UpdateMedicalInfo(c echo.Context) error {
	var patch repository.MedicalInfoPatch
	if err := c.Bind(&patch); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Medical.Update(ctx, owner, patch)
	if err != nil {
		if errors.Is(err, repository.ErrMedicalInfoNotFound) {
			return respondError(c, http.StatusNotFound, "medical info not found")
		}
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	return respondOK(c, m)
}

// DeleteMedicalInfo handles DELETE /v1/medical-info.
func (h *ResourceHandler) DeleteMedicalInfo(c echo.Context) error {
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Medical.Delete(ctx, owner); err != nil {
		if errors.Is(err, repository.ErrMedicalInfoNotFound) {
			return respondError(c, http.StatusNotFound, "medical info not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "medical info deleted")
}
