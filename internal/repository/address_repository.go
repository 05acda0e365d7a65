package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

// ErrAddressNotFound is returned when an address cannot be found for the
// given id and owner.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepo encapsulates queries against the addresses table and enforces
// the primary-address invariant: at most one address per user carries
// is_primary = true. There is no partial-unique constraint in the schema;
// every path that flips a primary flag runs the unset-then-set sequence
// inside a single transaction so concurrent requests for the same user
// cannot end up with zero or two primaries.
type AddressRepo struct {
	db *sql.DB
}

func NewAddressRepo(db *sql.DB) *AddressRepo { return &AddressRepo{db: db} }

const addressColumns = "id, user_id, street, city, region, postal_code, is_primary, created_at, updated_at"

func scanAddress(row interface{ Scan(...any) error }) (*model.Address, error) {
	var a model.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.Region, &a.PostalCode, &a.IsPrimary, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByUser returns all addresses owned by a user, primary first, then
// newest first.
func (r *AddressRepo) ListByUser(ctx context.Context, userID string) ([]*model.Address, error) {
	const q = "SELECT " + addressColumns + ` FROM addresses
	           WHERE user_id = ? ORDER BY is_primary DESC, created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetByIDAndUser fetches an address constrained by both id and owner.
func (r *AddressRepo) GetByIDAndUser(ctx context.Context, id uint64, userID string) (*model.Address, error) {
	const q = "SELECT " + addressColumns + " FROM addresses WHERE id = ? AND user_id = ?"
	a, err := scanAddress(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	return a, err
}

// Create inserts a new address. When the new address is flagged primary,
// every existing address of the user is demoted first, inside the same
// transaction, so exactly one primary survives.
func (r *AddressRepo) Create(ctx context.Context, a *model.Address) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// err is a named result so a failed commit reaches the caller.
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if a.IsPrimary {
		if _, err = tx.ExecContext(ctx,
			"UPDATE addresses SET is_primary = FALSE, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND is_primary = TRUE",
			a.UserID); err != nil {
			return err
		}
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"INSERT INTO addresses (user_id, street, city, region, postal_code, is_primary) VALUES (?,?,?,?,?,?)",
		a.UserID, a.Street, a.City, a.Region, a.PostalCode, a.IsPrimary)
	if err != nil {
		return err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := scanAddress(tx.QueryRowContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE id = ?", id))
	if err != nil {
		return err
	}
	*a = *created
	return nil
}

// AddressPatch carries the selectively updatable address fields.
type AddressPatch struct {
	Street     *string                `json:"street"`
	City       *string                `json:"city"`
	Region     *string                `json:"region"`
	PostalCode model.Optional[string] `json:"postal_code"`
	IsPrimary  *bool                  `json:"is_primary"`
}

// Update applies supplied fields to an address owned by the user. When the
// patch promotes the address to primary and it was not primary before, the
// user's other addresses are demoted in the same transaction.
func (r *AddressRepo) Update(ctx context.Context, id uint64, userID string, p AddressPatch) (updated *model.Address, err error) {
	current, err := r.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if err = tx.Commit(); err != nil {
			updated = nil
		}
	}()

	if p.IsPrimary != nil && *p.IsPrimary && !current.IsPrimary {
		if _, err = tx.ExecContext(ctx,
			"UPDATE addresses SET is_primary = FALSE, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND id <> ? AND is_primary = TRUE",
			userID, id); err != nil {
			return nil, err
		}
	}
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if p.Street != nil {
		sets = append(sets, "street = ?")
		args = append(args, *p.Street)
	}
	if p.City != nil {
		sets = append(sets, "city = ?")
		args = append(args, *p.City)
	}
	if p.Region != nil {
		sets = append(sets, "region = ?")
		args = append(args, *p.Region)
	}
	if p.PostalCode.Set {
		sets = append(sets, "postal_code = ?")
		args = append(args, p.PostalCode.Value)
	}
	if p.IsPrimary != nil {
		sets = append(sets, "is_primary = ?")
		args = append(args, *p.IsPrimary)
	}
	q := "UPDATE addresses SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	args = append(args, id, userID)
	if _, err = tx.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	updated, err = scanAddress(tx.QueryRowContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetPrimary demotes all of the user's addresses and promotes the specified
// one, in one transaction. ErrAddressNotFound if the address does not belong
// to the user.
func (r *AddressRepo) SetPrimary(ctx context.Context, id uint64, userID string) (promoted *model.Address, err error) {
	if _, err := r.GetByIDAndUser(ctx, id, userID); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if err = tx.Commit(); err != nil {
			promoted = nil
		}
	}()

	if _, err = tx.ExecContext(ctx,
		"UPDATE addresses SET is_primary = FALSE, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND is_primary = TRUE",
		userID); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE addresses SET is_primary = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?",
		id, userID); err != nil {
		return nil, err
	}
	promoted, err = scanAddress(tx.QueryRowContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

// Delete removes an address owned by the user.
func (r *AddressRepo) Delete(ctx context.Context, id uint64, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM addresses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAddressNotFound
	}
	return nil
}
