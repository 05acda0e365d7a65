package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

// ErrQuestionNotFound is returned when a validation question cannot be
// found.
var ErrQuestionNotFound = errors.New("validation question not found")

// ValidationQuestionRepo encapsulates queries against validation_questions.
// GetForVerification deliberately skips the ownership filter: verification
// happens in emergency flows where the caller holds only a question id, not
// a session.
type ValidationQuestionRepo struct {
	db *sql.DB
}

func NewValidationQuestionRepo(db *sql.DB) *ValidationQuestionRepo {
	return &ValidationQuestionRepo{db: db}
}

const questionColumns = "id, user_id, question, answer_hash, created_at, updated_at"

func scanQuestion(row interface{ Scan(...any) error }) (*model.ValidationQuestion, error) {
	var vq model.ValidationQuestion
	err := row.Scan(&vq.ID, &vq.UserID, &vq.Question, &vq.AnswerHash, &vq.CreatedAt, &vq.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &vq, nil
}

// ListByUser returns all questions owned by a user, newest first.
func (r *ValidationQuestionRepo) ListByUser(ctx context.Context, userID string) ([]*model.ValidationQuestion, error) {
	const q = "SELECT " + questionColumns + " FROM validation_questions WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.ValidationQuestion{}
	for rows.Next() {
		vq, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, vq)
	}
	return out, rows.Err()
}

// GetByIDAndUser fetches a question constrained by both id and owner.
func (r *ValidationQuestionRepo) GetByIDAndUser(ctx context.Context, id uint64, userID string) (*model.ValidationQuestion, error) {
	const q = "SELECT " + questionColumns + " FROM validation_questions WHERE id = ? AND user_id = ?"
	vq, err := scanQuestion(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuestionNotFound
	}
	return vq, err
}

// GetForVerification fetches a question by id alone. Any caller who knows a
// question id may attempt verification against its stored hash.
func (r *ValidationQuestionRepo) GetForVerification(ctx context.Context, id uint64) (*model.ValidationQuestion, error) {
	const q = "SELECT " + questionColumns + " FROM validation_questions WHERE id = ?"
	vq, err := scanQuestion(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuestionNotFound
	}
	return vq, err
}

// Create inserts a new question with its already-hashed answer.
func (r *ValidationQuestionRepo) Create(ctx context.Context, vq *model.ValidationQuestion) error {
	const q = "INSERT INTO validation_questions (user_id, question, answer_hash) VALUES (?,?,?)"
	res, err := r.db.ExecContext(ctx, q, vq.UserID, vq.Question, vq.AnswerHash)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByIDAndUser(ctx, uint64(id), vq.UserID)
	if err != nil {
		return err
	}
	*vq = *created
	return nil
}

// Update replaces the question text and/or answer hash of a question owned
// by the user. Empty arguments leave the corresponding column untouched.
func (r *ValidationQuestionRepo) Update(ctx context.Context, id uint64, userID, question, answerHash string) (*model.ValidationQuestion, error) {
	if _, err := r.GetByIDAndUser(ctx, id, userID); err != nil {
		return nil, err
	}
	sets := "updated_at = CURRENT_TIMESTAMP"
	args := []any{}
	if question != "" {
		sets += ", question = ?"
		args = append(args, question)
	}
	if answerHash != "" {
		sets += ", answer_hash = ?"
		args = append(args, answerHash)
	}
	args = append(args, id, userID)
	if _, err := r.db.ExecContext(ctx, "UPDATE validation_questions SET "+sets+" WHERE id = ? AND user_id = ?", args...); err != nil {
		return nil, err
	}
	return r.GetByIDAndUser(ctx, id, userID)
}

// Delete removes a question owned by the user.
func (r *ValidationQuestionRepo) Delete(ctx context.Context, id uint64, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM validation_questions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuestionNotFound
	}
	return nil
}
