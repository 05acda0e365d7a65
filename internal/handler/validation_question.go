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

// QuestionHandler serves the validation-question endpoints. Answers are
// normalized and bcrypt-hashed before storage; plaintext answers never leave
// the request.
type QuestionHandler struct {
	Questions  *repository.ValidationQuestionRepo
	BcryptCost int
}

func NewQuestionHandler(questions *repository.ValidationQuestionRepo, bcryptCost int) *QuestionHandler {
	if questions == nil {
		panic("nil repository passed to NewQuestionHandler")
	}
	return &QuestionHandler{Questions: questions, BcryptCost: bcryptCost}
}

// ListQuestions handles GET /v1/validation-questions.
func (h *QuestionHandler) ListQuestions(c echo.Context) error {
	owner, err := resolveOwner(c, c.QueryParam("user_id"))
	if err != nil {
		return respondOwnerError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Questions.ListByUser(ctx, owner)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondList(c, items, len(items))
}

// GetQuestion handles GET /v1/validation-questions/:id.
func (h *QuestionHandler) GetQuestion(c echo.Context) error {
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

	vq, err := h.Questions.GetByIDAndUser(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return respondError(c, http.StatusNotFound, "validation question not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}
	return respondOK(c, vq)
}

// CreateQuestion handles POST /v1/validation-questions.
func (h *QuestionHandler) CreateQuestion(c echo.Context) error {
	var req struct {
		UserID   string `json:"user_id"`
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}

	var problems []string
	if strings.TrimSpace(req.Question) == "" {
		problems = append(problems, "question is required")
	}
	if utils.NormalizeAnswer(req.Answer) == "" {
		problems = append(problems, "answer is required")
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	hash, err := utils.HashAnswer(req.Answer, h.BcryptCost)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not hash answer")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	vq := &model.ValidationQuestion{
		UserID:     owner,
		Question:   req.Question,
		AnswerHash: hash,
	}
	if err := h.Questions.Create(ctx, vq); err != nil {
		return respondError(c, http.StatusInternalServerError, "create failed")
	}
	return respondCreated(c, vq)
}

// UpdateQuestion handles PATCH /v1/validation-questions/:id. Omitting a
// field leaves it unchanged; supplying a new answer re-hashes it.
func (h *QuestionHandler) UpdateQuestion(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		UserID   string `json:"user_id"`
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	owner, err := resolveOwner(c, req.UserID)
	if err != nil {
		return respondOwnerError(c, err)
	}
	if strings.TrimSpace(req.Question) == "" && utils.NormalizeAnswer(req.Answer) == "" {
		return respondValidation(c, []string{"question or answer is required"})
	}

	var hash string
	if utils.NormalizeAnswer(req.Answer) != "" {
		hash, err = utils.HashAnswer(req.Answer, h.BcryptCost)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not hash answer")
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	vq, err := h.Questions.Update(ctx, id, owner, strings.TrimSpace(req.Question), hash)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return respondError(c, http.StatusNotFound, "validation question not found")
		}
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	return respondOK(c, vq)
}

// DeleteQuestion handles DELETE /v1/validation-questions/:id.
func (h *QuestionHandler) DeleteQuestion(c echo.Context) error {
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

	if err := h.Questions.Delete(ctx, id, owner); err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return respondError(c, http.StatusNotFound, "validation question not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "validation question deleted")
}

// VerifyAnswer handles POST /v1/validation-questions/:id/verify. This route
// is unauthenticated: emergency responders hold only a question id and a
// candidate answer. The response never distinguishes a wrong answer from a
// missing question beyond the 404, and never echoes the stored hash.
func (h *QuestionHandler) VerifyAnswer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Answer string `json:"answer"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if utils.NormalizeAnswer(req.Answer) == "" {
		return respondValidation(c, []string{"answer is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	vq, err := h.Questions.GetForVerification(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return respondError(c, http.StatusNotFound, "validation question not found")
		}
		return respondError(c, http.StatusInternalServerError, "db error")
	}

	return respondOK(c, map[string]any{
		"verified": utils.VerifyAnswer(vq.AnswerHash, req.Answer),
	})
}
