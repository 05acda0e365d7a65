package model

import "time"

// BankAccount is a bank account registered by a user, used for emergency
// reimbursement flows. The holder RUT, when present, is stored normalized
// and check-digit verified.
type BankAccount struct {
	ID            uint64    `json:"id"`
	UserID        string    `json:"user_id"`
	BankName      string    `json:"bank_name"`
	AccountType   string    `json:"account_type"`
	AccountNumber string    `json:"account_number"`
	HolderName    string    `json:"holder_name"`
	HolderRUT     *string   `json:"holder_rut,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
