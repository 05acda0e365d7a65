package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

// ErrMedicalInfoNotFound is returned when no medical-info row exists for a
// lookup.
var ErrMedicalInfoNotFound = errors.New("medical info not found")

// MedicalInfoRepo manages the per-user singleton medical_info table. The
// user_id column is unique, so Create fails with ErrConflict on a second
// insert for the same user while Upsert replaces the existing row.
type MedicalInfoRepo struct {
	db *sql.DB
}

func NewMedicalInfoRepo(db *sql.DB) *MedicalInfoRepo { return &MedicalInfoRepo{db: db} }

const medicalInfoColumns = "id, user_id, blood_type, allergies, medications, conditions, notes, created_at, updated_at"

func scanMedicalInfo(row interface{ Scan(...any) error }) (*model.MedicalInfo, error) {
	var m model.MedicalInfo
	err := row.Scan(&m.ID, &m.UserID, &m.BloodType, &m.Allergies, &m.Medications, &m.Conditions, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByUser fetches the singleton row for a user.
func (r *MedicalInfoRepo) GetByUser(ctx context.Context, userID string) (*model.MedicalInfo, error) {
	const q = "SELECT " + medicalInfoColumns + " FROM medical_info WHERE user_id = ?"
	m, err := scanMedicalInfo(r.db.QueryRowContext(ctx, q, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMedicalInfoNotFound
	}
	return m, err
}

// Create inserts the singleton row. ErrConflict when one already exists.
func (r *MedicalInfoRepo) Create(ctx context.Context, m *model.MedicalInfo) error {
	const q = `INSERT INTO medical_info (user_id, blood_type, allergies, medications, conditions, notes)
	           VALUES (?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, m.UserID, m.BloodType, m.Allergies, m.Medications, m.Conditions, m.Notes)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	created, err := r.GetByUser(ctx, m.UserID)
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// Upsert unconditionally creates or replaces the user's row. The returned
// bool is true when a new row was inserted rather than replaced.
func (r *MedicalInfoRepo) Upsert(ctx context.Context, m *model.MedicalInfo) (bool, error) {
	const q = `INSERT INTO medical_info (user_id, blood_type, allergies, medications, conditions, notes)
	           VALUES (?,?,?,?,?,?)
	           ON DUPLICATE KEY UPDATE
	             blood_type = VALUES(blood_type), allergies = VALUES(allergies),
	             medications = VALUES(medications), conditions = VALUES(conditions),
	             notes = VALUES(notes), updated_at = CURRENT_TIMESTAMP`
	res, err := r.db.ExecContext(ctx, q, m.UserID, m.BloodType, m.Allergies, m.Medications, m.Conditions, m.Notes)
	if err != nil {
		return false, err
	}
	// MySQL reports 1 affected row for a fresh insert and 2 for a replace.
	n, _ := res.RowsAffected()
	stored, err := r.GetByUser(ctx, m.UserID)
	if err != nil {
		return false, err
	}
	*m = *stored
	return n == 1, nil
}

// MedicalInfoPatch carries the selectively updatable fields; all columns are
// nullable, so every field distinguishes omitted from explicit null.
type MedicalInfoPatch struct {
	BloodType   model.Optional[string] `json:"blood_type"`
	Allergies   model.Optional[string] `json:"allergies"`
	Medications model.Optional[string] `json:"medications"`
	Conditions  model.Optional[string] `json:"conditions"`
	Notes       model.Optional[string] `json:"notes"`
}

// Update applies the supplied fields to the user's singleton row.
func (r *MedicalInfoRepo) Update(ctx context.Context, userID string, p MedicalInfoPatch) (*model.MedicalInfo, error) {
	if _, err := r.GetByUser(ctx, userID); err != nil {
		return nil, err
	}
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if p.BloodType.Set {
		sets = append(sets, "blood_type = ?")
		args = append(args, p.BloodType.Value)
	}
	if p.Allergies.Set {
		sets = append(sets, "allergies = ?")
		args = append(args, p.Allergies.Value)
	}
	if p.Medications.Set {
		sets = append(sets, "medications = ?")
		args = append(args, p.Medications.Value)
	}
	if p.Conditions.Set {
		sets = append(sets, "conditions = ?")
		args = append(args, p.Conditions.Value)
	}
	if p.Notes.Set {
		sets = append(sets, "notes = ?")
		args = append(args, p.Notes.Value)
	}
	q := "UPDATE medical_info SET " + strings.Join(sets, ", ") + " WHERE user_id = ?"
	args = append(args, userID)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.GetByUser(ctx, userID)
}

// Delete removes the user's singleton row.
func (r *MedicalInfoRepo) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM medical_info WHERE user_id = ?", userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMedicalInfoNotFound
	}
	return nil
}
