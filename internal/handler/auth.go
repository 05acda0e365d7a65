package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rescuelink/emergency-data-api/internal/identity"
	"github.com/rescuelink/emergency-data-api/internal/middleware"
	"github.com/rescuelink/emergency-data-api/internal/model"
	"github.com/rescuelink/emergency-data-api/internal/repository"
	"github.com/rescuelink/emergency-data-api/internal/utils"
)

// AuthHandler bundles what registration and profile endpoints need: the
// users table and the identity provider client.
type AuthHandler struct {
	Users    *repository.UserRepo
	Identity *identity.Client
}

func NewAuthHandler(users *repository.UserRepo, idc *identity.Client) *AuthHandler {
	if users == nil || idc == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Users: users, Identity: idc}
}

type registerReq struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	FullName   string  `json:"full_name"`
	Phone      *string `json:"phone"`
	RUT        *string `json:"rut"`
	PictureURL *string `json:"picture_url"`
}

// Register handles POST /v1/auth/register. It creates the identity-provider
// account first, then the local user row keyed by the provider's subject
// id. If the local write fails the just-created identity is deleted so no
// orphan account survives, and the database failure is what the caller
// sees.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	var problems []string
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		problems = append(problems, "email is required and must be valid")
	}
	if req.Password == "" {
		problems = append(problems, "password is required")
	}
	if req.FullName == "" {
		problems = append(problems, "full_name is required")
	}
	var rut *string
	if req.RUT != nil && strings.TrimSpace(*req.RUT) != "" {
		formatted, ok := utils.ValidateRUT(*req.RUT)
		if !ok {
			problems = append(problems, "invalid RUT")
		} else {
			rut = &formatted
		}
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// The local table is the cheaper check; refuse before touching the
	// identity provider when the email is already registered here.
	exists, err := h.Users.EmailExists(ctx, req.Email)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not check email")
	}
	if exists {
		return respondError(c, http.StatusConflict, "email already registered")
	}

	acc, err := h.Identity.CreateAccount(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return respondError(c, http.StatusConflict, "email already registered")
		}
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	u := &model.User{
		ID:         acc.ID,
		Email:      req.Email,
		FullName:   req.FullName,
		Phone:      req.Phone,
		RUT:        rut,
		PictureURL: req.PictureURL,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		// Compensate: remove the identity account so a retry can succeed.
		_ = h.Identity.DeleteAccount(ctx, acc.ID)
		if errors.Is(err, repository.ErrConflict) {
			return respondError(c, http.StatusConflict, "email or RUT already registered")
		}
		return respondError(c, http.StatusInternalServerError, "could not create user")
	}
	return respondCreated(c, u)
}

// CheckEmail handles GET /v1/auth/check-email?email=. It reports whether
// the address is free to register, checking both the local table and the
// identity provider.
func (h *AuthHandler) CheckEmail(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
	if email == "" || !strings.Contains(email, "@") {
		return respondValidation(c, []string{"email is required and must be valid"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	inDB, err := h.Users.EmailExists(ctx, email)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not check email")
	}
	inIdentity := false
	if _, err := h.Identity.LookupByEmail(ctx, email); err == nil {
		inIdentity = true
	} else if !errors.Is(err, identity.ErrAccountNotFound) {
		return respondError(c, http.StatusInternalServerError, err.Error())
	}

	return respondOK(c, echo.Map{
		"available":          !inDB && !inIdentity,
		"exists_in_database": inDB,
		"exists_in_identity": inIdentity,
	})
}

// Me handles GET /v1/users/me.
func (h *AuthHandler) Me(c echo.Context) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok || caller.Service {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondOK(c, u)
}

// UpdateMe handles PATCH /v1/users/me. Only supplied fields change; an
// explicit null clears a nullable column.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok || caller.Service {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var patch repository.UserPatch
	if err := c.Bind(&patch); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if patch.FullName != nil && strings.TrimSpace(*patch.FullName) == "" {
		return respondValidation(c, []string{"full_name cannot be empty"})
	}
	if patch.RUT.Set && patch.RUT.Value != nil {
		formatted, okRut := utils.ValidateRUT(*patch.RUT.Value)
		if !okRut {
			return respondValidation(c, []string{"invalid RUT"})
		}
		patch.RUT.Value = &formatted
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Update(ctx, caller.UserID, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, repository.ErrConflict):
			return respondError(c, http.StatusConflict, "RUT already registered")
		default:
			return respondError(c, http.StatusInternalServerError, "update failed")
		}
	}
	return respondOK(c, u)
}

// DeleteMe handles DELETE /v1/users/me. The database cascades the delete to
// every owned resource; the identity account is removed best effort
// afterwards.
func (h *AuthHandler) DeleteMe(c echo.Context) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok || caller.Service {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, caller.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	_ = h.Identity.DeleteAccount(ctx, caller.UserID)
	return respondMessage(c, http.StatusOK, "user deleted")
}
