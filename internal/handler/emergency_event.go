package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rescuelink/emergency-data-api/internal/model"
	"github.com/rescuelink/emergency-data-api/internal/queue"
	"github.com/rescuelink/emergency-data-api/internal/repository"
)

// EventHandler serves the emergency-event endpoints. Creations and status
// changes are announced on the broker; publish failures are logged, never
// surfaced, because the row is already committed when the publish runs.
type EventHandler struct {
	Events *repository.EmergencyEventRepo
}

func NewEventHandler(events *repository.EmergencyEventRepo) *EventHandler {
	if events == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events}
}

// ListEvents handles GET /v1/emergency-events. Supports ?status= filtering
// and ?page= / ?limit= pagination.
func (h *EventHandler) ListEvents(c echo.Context) error {
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}

	status := strings.TrimSpace(c.QueryParam("status"))
	if status != "" && !model.ValidEventStatus(status) {
		return respondValidation(c, []string{"status must be one of active, resolved, cancelled"})
	}
	page := 1
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Events.ListByUser(ctx, owner, status, page, limit)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondPage(c, items, Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	})
}

// GetEvent handles GET /v1/emergency-events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
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

	e, err := h.Events.GetByIDAndUser(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return respondError(c, http.StatusNotFound, "emergency event not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondOK(c, e)
}

// CreateEvent handles POST /v1/emergency-events. The new event defaults to
// active unless the request names another valid status.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req struct {
		UserID      string  `json:"user_id"`
		EventType   string  `json:"event_type"`
		Description *string `json:"description"`
		Location    *string `json:"location"`
		Status      string  `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}

	var problems []string
	if strings.TrimSpace(req.EventType) == "" {
		problems = append(problems, "event_type is required")
	}
	if req.Status != "" && !model.ValidEventStatus(req.Status) {
		problems = append(problems, "status must be one of active, resolved, cancelled")
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e := &model.EmergencyEvent{
		UserID:      owner,
		EventType:   req.EventType,
		Description: req.Description,
		Location:    req.Location,
		Status:      req.Status,
	}
	if err := h.Events.Create(ctx, e); err != nil {
		return respondError(c, http.StatusInternalServerError, "create failed")
	}

	h.publish(queue.ActionCreated, e)
	return respondCreated(c, e)
}

// UpdateEvent handles PATCH /v1/emergency-events/:id. A status change is
// announced on the broker.
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		UserID string `json:"user_id"`
		repository.EmergencyEventPatch
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}

	var problems []string
	if req.EventType != nil && strings.TrimSpace(*req.EventType) == "" {
		problems = append(problems, "event_type cannot be empty")
	}
	if req.Status != nil && !model.ValidEventStatus(*req.Status) {
		problems = append(problems, "status must be one of active, resolved, cancelled")
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	before, err := h.Events.GetByIDAndUser(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return respondError(c, http.StatusNotFound, "emergency event not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}

	e, err := h.Events.Update(ctx, id, owner, req.EmergencyEventPatch)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return respondError(c, http.StatusNotFound, "emergency event not found")
		}
		return respondError(c, http.StatusInternalServerError, "update failed")
	}

	if req.Status != nil && before.Status != e.Status {
		h.publish(queue.ActionStatusChanged, e)
	}
	return respondOK(c, e)
}

// DeleteEvent handles DELETE /v1/emergency-events/:id.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
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

	if err := h.Events.Delete(ctx, id, owner); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return respondError(c, http.StatusNotFound, "emergency event not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "emergency event deleted")
}

// publish announces an event on the broker in the background with its own
// deadline, detached from the request context.
func (h *EventHandler) publish(action string, e *model.EmergencyEvent) {
	msg := queue.EmergencyEventMessage{
		MessageID:  uuid.NewString(),
		Action:     action,
		EventID:    e.ID,
		UserID:     e.UserID,
		EventType:  e.EventType,
		Status:     e.Status,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if e.Location != nil {
		msg.Location = *e.Location
	}
	if e.Description != nil {
		msg.Description = *e.Description
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue.PublishEmergencyEvent(ctx, msg); err != nil {
			log.Printf("event publish failed (event %d, action %s): %v", msg.EventID, msg.Action, err)
		}
	}()
}
