package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

// ErrHealthInsuranceNotFound is returned when a policy cannot be found for
// the given id and owner.
var ErrHealthInsuranceNotFound = errors.New("health insurance not found")

// HealthInsuranceRepo encapsulates queries against health_insurances.
type HealthInsuranceRepo struct {
	db *sql.DB
}

func NewHealthInsuranceRepo(db *sql.DB) *HealthInsuranceRepo { return &HealthInsuranceRepo{db: db} }

const healthInsuranceColumns = "id, user_id, provider, plan_name, policy_number, created_at, updated_at"

func scanHealthInsurance(row interface{ Scan(...any) error }) (*model.HealthInsurance, error) {
	var hi model.HealthInsurance
	err := row.Scan(&hi.ID, &hi.UserID, &hi.Provider, &hi.PlanName, &hi.PolicyNumber, &hi.CreatedAt, &hi.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &hi, nil
}

// ListByUser returns all policies owned by a user, newest first.
func (r *HealthInsuranceRepo) ListByUser(ctx context.Context, userID string) ([]*model.HealthInsurance, error) {
	const q = "SELECT " + healthInsuranceColumns + " FROM health_insurances WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.HealthInsurance{}
	for rows.Next() {
		hi, err := scanHealthInsurance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, hi)
	}
	return out, rows.Err()
}

// GetByIDAndUser fetches a policy constrained by both id and owner.
func (r *HealthInsuranceRepo) GetByIDAndUser(ctx context.Context, id uint64, userID string) (*model.HealthInsurance, error) {
	const q = "SELECT " + healthInsuranceColumns + " FROM health_insurances WHERE id = ? AND user_id = ?"
	hi, err := scanHealthInsurance(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHealthInsuranceNotFound
	}
	return hi, err
}

// Create inserts a new policy.
func (r *HealthInsuranceRepo) Create(ctx context.Context, hi *model.HealthInsurance) error {
	const q = "INSERT INTO health_insurances (user_id, provider, plan_name, policy_number) VALUES (?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, hi.UserID, hi.Provider, hi.PlanName, hi.PolicyNumber)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByIDAndUser(ctx, uint64(id), hi.UserID)
	if err != nil {
		return err
	}
	*hi = *created
	return nil
}

// HealthInsurancePatch carries the selectively updatable policy fields.
// PlanName and PolicyNumber accept explicit null to clear the column.
type HealthInsurancePatch struct {
	Provider     *string                `json:"provider"`
	PlanName     model.Optional[string] `json:"plan_name"`
	PolicyNumber model.Optional[string] `json:"policy_number"`
}

// Update applies supplied fields to a policy owned by the user.
func (r *HealthInsuranceRepo) Update(ctx context.Context, id uint64, userID string, p HealthInsurancePatch) (*model.HealthInsurance, error) {
	if _, err := r.GetByIDAndUser(ctx, id, userID); err != nil {
		return nil, err
	}
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if p.Provider != nil {
		sets = append(sets, "provider = ?")
		args = append(args, *p.Provider)
	}
	if p.PlanName.Set {
		sets = append(sets, "plan_name = ?")
		args = append(args, p.PlanName.Value)
	}
	if p.PolicyNumber.Set {
		sets = append(sets, "policy_number = ?")
		args = append(args, p.PolicyNumber.Value)
	}
	q := "UPDATE health_insurances SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	args = append(args, id, userID)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.GetByIDAndUser(ctx, id, userID)
}

// Delete removes a policy owned by the user.
func (r *HealthInsuranceRepo) Delete(ctx context.Context, id uint64, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM health_insurances WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHealthInsuranceNotFound
	}
	return nil
}
