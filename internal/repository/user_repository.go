package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

// ErrUserNotFound is returned when a user row cannot be found.
var ErrUserNotFound = errors.New("user not found")

// UserRepo encapsulates all database queries against the users table.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = "id, email, full_name, phone, rut, picture_url, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.RUT, &u.PictureURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user row. The ID comes from the identity provider, not
// from the database. A duplicate email or RUT yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	const q = `INSERT INTO users (id, email, full_name, phone, rut, picture_url) VALUES (?,?,?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, q, u.ID, u.Email, u.FullName, u.Phone, u.RUT, u.PictureURL); err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	const qSel = "SELECT " + userColumns + " FROM users WHERE id = ?"
	created, err := scanUser(r.db.QueryRowContext(ctx, qSel, u.ID))
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

// GetByID fetches a user by its identity-provider subject id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	const q = "SELECT " + userColumns + " FROM users WHERE id = ?"
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = "SELECT " + userColumns + " FROM users WHERE email = ?"
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// EmailExists reports whether a user row exists for the normalized email.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ? LIMIT 1", email).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// UserPatch carries the selectively updatable profile fields. Plain pointers
// mean "present when non-nil"; Optional fields additionally allow explicit
// nulls to clear nullable columns.
type UserPatch struct {
	FullName   *string                `json:"full_name"`
	Phone      model.Optional[string] `json:"phone"`
	RUT        model.Optional[string] `json:"rut"`
	PictureURL model.Optional[string] `json:"picture_url"`
}

// Update applies the supplied fields to a user row and returns the updated
// record. Omitted fields are left untouched. ErrUserNotFound is returned if
// the row does not exist; ErrConflict if the new RUT duplicates another row.
func (r *UserRepo) Update(ctx context.Context, id string, p UserPatch) (*model.User, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if p.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *p.FullName)
	}
	if p.Phone.Set {
		sets = append(sets, "phone = ?")
		args = append(args, p.Phone.Value)
	}
	if p.RUT.Set {
		sets = append(sets, "rut = ?")
		args = append(args, p.RUT.Value)
	}
	if p.PictureURL.Set {
		sets = append(sets, "picture_url = ?")
		args = append(args, p.PictureURL.Value)
	}
	q := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		if isDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user row. Foreign keys cascade the delete to every owned
// resource.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
