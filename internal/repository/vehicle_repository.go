package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

// Sentinel errors for vehicles and their insurance policies.
var (
	ErrVehicleNotFound          = errors.New("vehicle not found")
	ErrVehicleInsuranceNotFound = errors.New("vehicle insurance not found")
)

// VehicleRepo encapsulates queries against vehicles and vehicle_insurance.
// Insurance rows hang off a vehicle; ownership checks always go through the
// vehicle's user_id, and deleting a vehicle cascades to its policies.
type VehicleRepo struct {
	db *sql.DB
}

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

const vehicleColumns = "id, user_id, license_plate, make, model, year, color, created_at, updated_at"

func scanVehicle(row interface{ Scan(...any) error }) (*model.Vehicle, error) {
	var v model.Vehicle
	err := row.Scan(&v.ID, &v.UserID, &v.LicensePlate, &v.Make, &v.Model, &v.Year, &v.Color, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByUser returns all vehicles owned by a user, newest first.
func (r *VehicleRepo) ListByUser(ctx context.Context, userID string) ([]*model.Vehicle, error) {
	const q = "SELECT " + vehicleColumns + " FROM vehicles WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetByIDAndUser fetches a vehicle constrained by both id and owner.
func (r *VehicleRepo) GetByIDAndUser(ctx context.Context, id uint64, userID string) (*model.Vehicle, error) {
	const q = "SELECT " + vehicleColumns + " FROM vehicles WHERE id = ? AND user_id = ?"
	v, err := scanVehicle(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVehicleNotFound
	}
	return v, err
}

// Create inserts a new vehicle. A duplicate license plate yields ErrConflict.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	const q = "INSERT INTO vehicles (user_id, license_plate, make, model, year, color) VALUES (?,?,?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, v.UserID, v.LicensePlate, v.Make, v.Model, v.Year, v.Color)
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
	created, err := r.GetByIDAndUser(ctx, uint64(id), v.UserID)
	if err != nil {
		return err
	}
	*v = *created
	return nil
}

// VehiclePatch carries the selectively updatable vehicle fields.
type VehiclePatch struct {
	LicensePlate *string                `json:"license_plate"`
	Make         *string                `json:"make"`
	Model        *string                `json:"model"`
	Year         *int                   `json:"year"`
	Color        model.Optional[string] `json:"color"`
}

// Update applies supplied fields to a vehicle owned by the user.
func (r *VehicleRepo) Update(ctx context.Context, id uint64, userID string, p VehiclePatch) (*model.Vehicle, error) {
	if _, err := r.GetByIDAndUser(ctx, id, userID); err != nil {
		return nil, err
	}
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if p.LicensePlate != nil {
		sets = append(sets, "license_plate = ?")
		args = append(args, *p.LicensePlate)
	}
	if p.Make != nil {
		sets = append(sets, "make = ?")
		args = append(args, *p.Make)
	}
	if p.Model != nil {
		sets = append(sets, "model = ?")
		args = append(args, *p.Model)
	}
	if p.Year != nil {
		sets = append(sets, "year = ?")
		args = append(args, *p.Year)
	}
	if p.Color.Set {
		sets = append(sets, "color = ?")
		args = append(args, p.Color.Value)
	}
	q := "UPDATE vehicles SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	args = append(args, id, userID)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		if isDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return r.GetByIDAndUser(ctx, id, userID)
}

// Delete removes a vehicle owned by the user; insurance rows cascade.
func (r *VehicleRepo) Delete(ctx context.Context, id uint64, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM vehicles WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// ----- vehicle insurance -----

const vehicleInsuranceColumns = "vi.id, vi.vehicle_id, vi.company, vi.policy_number, vi.expires_at, vi.created_at, vi.updated_at"

func scanVehicleInsurance(row interface{ Scan(...any) error }) (*model.VehicleInsurance, error) {
	var vi model.VehicleInsurance
	err := row.Scan(&vi.ID, &vi.VehicleID, &vi.Company, &vi.PolicyNumber, &vi.ExpiresAt, &vi.CreatedAt, &vi.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &vi, nil
}

// ListInsurance returns the policies of a vehicle owned by the user, newest
// first. ErrVehicleNotFound if the vehicle itself fails the ownership check.
func (r *VehicleRepo) ListInsurance(ctx context.Context, vehicleID uint64, userID string) ([]*model.VehicleInsurance, error) {
	if _, err := r.GetByIDAndUser(ctx, vehicleID, userID); err != nil {
		return nil, err
	}
	const q = "SELECT " + vehicleInsuranceColumns + ` FROM vehicle_insurance vi
	           WHERE vi.vehicle_id = ? ORDER BY vi.created_at DESC, vi.id DESC`
	rows, err := r.db.QueryContext(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.VehicleInsurance{}
	for rows.Next() {
		vi, err := scanVehicleInsurance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, vi)
	}
	return out, rows.Err()
}

// GetInsurance fetches a policy joined through its vehicle's owner, so a
// policy on another user's vehicle reads as missing.
func (r *VehicleRepo) GetInsurance(ctx context.Context, id uint64, userID string) (*model.VehicleInsurance, error) {
	const q = "SELECT " + vehicleInsuranceColumns + ` FROM vehicle_insurance vi
	           JOIN vehicles v ON v.id = vi.vehicle_id
	           WHERE vi.id = ? AND v.user_id = ?`
	vi, err := scanVehicleInsurance(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVehicleInsuranceNotFound
	}
	return vi, err
}

// CreateInsurance inserts a policy under a vehicle owned by the user.
func (r *VehicleRepo) CreateInsurance(ctx context.Context, userID string, vi *model.VehicleInsurance) error {
	if _, err := r.GetByIDAndUser(ctx, vi.VehicleID, userID); err != nil {
		return err
	}
	const q = "INSERT INTO vehicle_insurance (vehicle_id, company, policy_number, expires_at) VALUES (?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, vi.VehicleID, vi.Company, vi.PolicyNumber, vi.ExpiresAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetInsurance(ctx, uint64(id), userID)
	if err != nil {
		return err
	}
	*vi = *created
	return nil
}

// VehicleInsurancePatch carries the selectively updatable policy fields.
type VehicleInsurancePatch struct {
	Company      *string                   `json:"company"`
	PolicyNumber *string                   `json:"policy_number"`
	ExpiresAt    model.Optional[time.Time] `json:"expires_at"`
}

// UpdateInsurance applies supplied fields to a policy reachable by the user.
func (r *VehicleRepo) UpdateInsurance(ctx context.Context, id uint64, userID string, p VehicleInsurancePatch) (*model.VehicleInsurance, error) {
	if _, err := r.GetInsurance(ctx, id, userID); err != nil {
		return nil, err
	}
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if p.Company != nil {
		sets = append(sets, "company = ?")
		args = append(args, *p.Company)
	}
	if p.PolicyNumber != nil {
		sets = append(sets, "policy_number = ?")
		args = append(args, *p.PolicyNumber)
	}
	if p.ExpiresAt.Set {
		sets = append(sets, "expires_at = ?")
		args = append(args, p.ExpiresAt.Value)
	}
	q := "UPDATE vehicle_insurance SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.GetInsurance(ctx, id, userID)
}

// DeleteInsurance removes a policy reachable by the user.
func (r *VehicleRepo) DeleteInsurance(ctx context.Context, id uint64, userID string) error {
	if _, err := r.GetInsurance(ctx, id, userID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, "DELETE FROM vehicle_insurance WHERE id = ?", id)
	return err
}
