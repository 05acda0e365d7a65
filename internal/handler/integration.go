package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/rescuelink/emergency-data-api/internal/integration"
	"github.com/rescuelink/emergency-data-api/internal/repository"
)

// IntegrationHandler serves the endpoints that proxy to the external
// messaging and agent services, plus the aggregated profile read they both
// build on. Upstream failures come back as 500 with the remote status and
// body embedded, so callers can tell a platform fault from a provider
// fault.
type IntegrationHandler struct {
	Messaging *integration.MessagingClient
	Agent     *integration.AgentClient

	Users      *repository.UserRepo
	Contacts   *repository.EmergencyContactRepo
	Medical    *repository.MedicalInfoRepo
	Insurances *repository.HealthInsuranceRepo
	Banks      *repository.BankAccountRepo
	Addresses  *repository.AddressRepo
}

func NewIntegrationHandler(
	messaging *integration.MessagingClient,
	agent *integration.AgentClient,
	users *repository.UserRepo,
	contacts *repository.EmergencyContactRepo,
	medical *repository.MedicalInfoRepo,
	insurances *repository.HealthInsuranceRepo,
	banks *repository.BankAccountRepo,
	addresses *repository.AddressRepo,
) *IntegrationHandler {
	if messaging == nil || agent == nil {
		panic("nil client passed to NewIntegrationHandler")
	}
	if users == nil || contacts == nil || medical == nil || insurances == nil || banks == nil || addresses == nil {
		panic("nil repository passed to NewIntegrationHandler")
	}
	return &IntegrationHandler{
		Messaging:  messaging,
		Agent:      agent,
		Users:      users,
		Contacts:   contacts,
		Medical:    medical,
		Insurances: insurances,
		Banks:      banks,
		Addresses:  addresses,
	}
}

// SendMessage handles POST /v1/messaging/send. The provider response body is
// returned to the caller untouched.
func (h *IntegrationHandler) SendMessage(c echo.Context) error {
	var req struct {
		Message     string `json:"message"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	var problems []string
	if strings.TrimSpace(req.Message) == "" {
		problems = append(problems, "message is required")
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		problems = append(problems, "phone_number is required")
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 20*time.Second)
	defer cancel()

	body, err := h.Messaging.Send(ctx, req.Message, req.PhoneNumber)
	if err != nil {
		var ue *integration.UpstreamError
		if errors.As(err, &ue) {
			return respondError(c, http.StatusInternalServerError, ue.Error())
		}
		return respondError(c, http.StatusInternalServerError, "messaging service unreachable")
	}
	return respondOK(c, body)
}

// ComputeAgent handles POST /v1/agent/compute. The caller's profile,
// contacts, medical info, insurances, bank accounts and addresses are
// gathered concurrently, bundled into one payload and forwarded to the
// agent API; its response body passes through untouched.
func (h *IntegrationHandler) ComputeAgent(c echo.Context) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	_ = c.Bind(&req)
	target := req.UserID
	if target == "" {
		target = c.QueryParam("user_id")
	}
	owner, err := resolveOwner(c, target)
	if err != nil {
		return respondOwnerError(c, err)
	}

	// The agent call can run long; the aggregation itself shares the same
	// deadline but finishes in milliseconds.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 75*time.Second)
	defer cancel()

	payload, err := h.aggregate(ctx, owner)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}

	body, err := h.Agent.Compute(ctx, payload)
	if err != nil {
		var ue *integration.UpstreamError
		if errors.As(err, &ue) {
			return respondError(c, http.StatusInternalServerError, ue.Error())
		}
		return respondError(c, http.StatusInternalServerError, "agent service unreachable")
	}
	return respondOK(c, body)
}

// FullProfile handles GET /v1/users/me/full: the same aggregated snapshot
// the agent receives, returned to the caller directly.
func (h *IntegrationHandler) FullProfile(c echo.Context) error {
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	payload, err := h.aggregate(ctx, owner)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondOK(c, payload)
}

// aggregate gathers the six per-user datasets concurrently. Missing medical
// info is not an error; the section stays null.
func (h *IntegrationHandler) aggregate(ctx context.Context, owner string) (integration.AgentPayload, error) {
	var payload integration.AgentPayload
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := h.Users.GetByID(gctx, owner)
		if err != nil {
			return err
		}
		payload.User = u
		return nil
	})
	g.Go(func() error {
		items, err := h.Contacts.ListByUser(gctx, owner)
		if err != nil {
			return err
		}
		payload.EmergencyContacts = items
		return nil
	})
	g.Go(func() error {
		mi, err := h.Medical.GetByUser(gctx, owner)
		if err != nil {
			if errors.Is(err, repository.ErrMedicalInfoNotFound) {
				return nil
			}
			return err
		}
		payload.MedicalInfo = mi
		return nil
	})
	g.Go(func() error {
		items, err := h.Insurances.ListByUser(gctx, owner)
		if err != nil {
			return err
		}
		payload.HealthInsurances = items
		return nil
	})
	g.Go(func() error {
		items, err := h.Banks.ListByUser(gctx, owner)
		if err != nil {
			return err
		}
		payload.BankAccounts = items
		return nil
	})
	g.Go(func() error {
		items, err := h.Addresses.ListByUser(gctx, owner)
		if err != nil {
			return err
		}
		payload.Addresses = items
		return nil
	})
	err := g.Wait()
	return payload, err
}
