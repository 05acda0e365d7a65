// Package repository contains data access logic separated from HTTP
// handlers. Every lookup that targets an owned resource constrains the query
// by both id and user_id, so a row owned by someone else is reported with
// the same not-found sentinel as a row that does not exist. Handlers
// translate these sentinels into HTTP responses.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update violates a uniqueness
// rule, such as a duplicate email or RUT, or a second medical-info row for
// the same user. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
