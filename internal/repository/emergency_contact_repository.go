package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

// ErrContactNotFound is returned when a contact cannot be found for the
// given id and owner.
var ErrContactNotFound = errors.New("emergency contact not found")

// EmergencyContactRepo encapsulates queries against emergency_contacts.
type EmergencyContactRepo struct {
	db *sql.DB
}

func NewEmergencyContactRepo(db *sql.DB) *EmergencyContactRepo { return &EmergencyContactRepo{db: db} }

const contactColumns = "id, user_id, name, phone, relationship, created_at, updated_at"

func scanContact(row interface{ Scan(...any) error }) (*model.EmergencyContact, error) {
	var ec model.EmergencyContact
	err := row.Scan(&ec.ID, &ec.UserID, &ec.Name, &ec.Phone, &ec.Relationship, &ec.CreatedAt, &ec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ec, nil
}

// ListByUser returns all contacts owned by a user, newest first.
func (r *EmergencyContactRepo) ListByUser(ctx context.Context, userID string) ([]*model.EmergencyContact, error) {
	const q = "SELECT " + contactColumns + " FROM emergency_contacts WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.EmergencyContact{}
	for rows.Next() {
		ec, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ec)
	}
	return out, rows.Err()
}

// GetByIDAndUser fetches a contact constrained by both id and owner. A row
// owned by a different user is indistinguishable from a missing one.
func (r *EmergencyContactRepo) GetByIDAndUser(ctx context.Context, id uint64, userID string) (*model.EmergencyContact, error) {
	const q = "SELECT " + contactColumns + " FROM emergency_contacts WHERE id = ? AND user_id = ?"
	ec, err := scanContact(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	return ec, err
}

// Create inserts a new contact and populates generated fields.
func (r *EmergencyContactRepo) Create(ctx context.Context, ec *model.EmergencyContact) error {
	const q = "INSERT INTO emergency_contacts (user_id, name, phone, relationship) VALUES (?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, ec.UserID, ec.Name, ec.Phone, ec.Relationship)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByIDAndUser(ctx, uint64(id), ec.UserID)
	if err != nil {
		return err
	}
	*ec = *created
	return nil
}

// EmergencyContactPatch carries the selectively updatable contact fields.
type EmergencyContactPatch struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Relationship *string `json:"relationship"`
}

// Update applies supplied fields to a contact owned by the user.
func (r *EmergencyContactRepo) Update(ctx context.Context, id uint64, userID string, p EmergencyContactPatch) (*model.EmergencyContact, error) {
	if _, err := r.GetByIDAndUser(ctx, id, userID); err != nil {
		return nil, err
	}
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *p.Phone)
	}
	if p.Relationship != nil {
		sets = append(sets, "relationship = ?")
		args = append(args, *p.Relationship)
	}
	q := "UPDATE emergency_contacts SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	args = append(args, id, userID)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.GetByIDAndUser(ctx, id, userID)
}

// Delete removes a contact owned by the user.
func (r *EmergencyContactRepo) Delete(ctx context.Context, id uint64, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM emergency_contacts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContactNotFound
	}
	return nil
}
