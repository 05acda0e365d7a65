package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

// ErrBankAccountNotFound is returned when a bank account cannot be found for
// the given id and owner.
var ErrBankAccountNotFound = errors.New("bank account not found")

// BankAccountRepo encapsulates queries against the bank_accounts table.
// Holder RUTs arrive already normalized and check-digit verified.
type BankAccountRepo struct {
	db *sql.DB
}

func NewBankAccountRepo(db *sql.DB) *BankAccountRepo { return &BankAccountRepo{db: db} }

const bankAccountColumns = "id, user_id, bank_name, account_type, account_number, holder_name, holder_rut, created_at, updated_at"

func scanBankAccount(row interface{ Scan(...any) error }) (*model.BankAccount, error) {
	var b model.BankAccount
	err := row.Scan(&b.ID, &b.UserID, &b.BankName, &b.AccountType, &b.AccountNumber, &b.HolderName, &b.HolderRUT, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns all bank accounts owned by a user, newest first.
func (r *BankAccountRepo) ListByUser(ctx context.Context, userID string) ([]*model.BankAccount, error) {
	const q = "SELECT " + bankAccountColumns + " FROM bank_accounts WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.BankAccount{}
	for rows.Next() {
		b, err := scanBankAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByIDAndUser fetches an account constrained by both id and owner.
func (r *BankAccountRepo) GetByIDAndUser(ctx context.Context, id uint64, userID string) (*model.BankAccount, error) {
	const q = "SELECT " + bankAccountColumns + " FROM bank_accounts WHERE id = ? AND user_id = ?"
	b, err := scanBankAccount(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBankAccountNotFound
	}
	return b, err
}

// Create inserts a new bank account.
func (r *BankAccountRepo) Create(ctx context.Context, b *model.BankAccount) error {
	const q = "INSERT INTO bank_accounts (user_id, bank_name, account_type, account_number, holder_name, holder_rut) VALUES (?,?,?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, b.UserID, b.BankName, b.AccountType, b.AccountNumber, b.HolderName, b.HolderRUT)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByIDAndUser(ctx, uint64(id), b.UserID)
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// BankAccountPatch carries the selectively updatable account fields.
type BankAccountPatch struct {
	BankName      *string                `json:"bank_name"`
	AccountType   *string                `json:"account_type"`
	AccountNumber *string                `json:"account_number"`
	HolderName    *string                `json:"holder_name"`
	HolderRUT     model.Optional[string] `json:"holder_rut"`
}

// Update applies supplied fields to an account owned by the user.
func (r *BankAccountRepo) Update(ctx context.Context, id uint64, userID string, p BankAccountPatch) (*model.BankAccount, error) {
	if _, err := r.GetByIDAndUser(ctx, id, userID); err != nil {
		return nil, err
	}
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if p.BankName != nil {
		sets = append(sets, "bank_name = ?")
		args = append(args, *p.BankName)
	}
	if p.AccountType != nil {
		sets = append(sets, "account_type = ?")
		args = append(args, *p.AccountType)
	}
	if p.AccountNumber != nil {
		sets = append(sets, "account_number = ?")
		args = append(args, *p.AccountNumber)
	}
	if p.HolderName != nil {
		sets = append(sets, "holder_name = ?")
		args = append(args, *p.HolderName)
	}
	if p.HolderRUT.Set {
		sets = append(sets, "holder_rut = ?")
		args = append(args, p.HolderRUT.Value)
	}
	q := "UPDATE bank_accounts SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	args = append(args, id, userID)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.GetByIDAndUser(ctx, id, userID)
}

// Delete removes an account owned by the user.
func (r *BankAccountRepo) Delete(ctx context.Context, id uint64, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bank_accounts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBankAccountNotFound
	}
	return nil
}
