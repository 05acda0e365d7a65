package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

// ErrEventNotFound is returned when an event cannot be found for the given
// id and owner.
var ErrEventNotFound = errors.New("emergency event not found")

// EmergencyEventRepo encapsulates queries against emergency_events. Listing
// is paginated and optionally filtered by status; this is the only resource
// with enough volume to warrant it.
type EmergencyEventRepo struct {
	db *sql.DB
}

func NewEmergencyEventRepo(db *sql.DB) *EmergencyEventRepo { return &EmergencyEventRepo{db: db} }

const eventColumns = "id, user_id, event_type, description, location, status, created_at, updated_at"

func scanEvent(row interface{ Scan(...any) error }) (*model.EmergencyEvent, error) {
	var e model.EmergencyEvent
	err := row.Scan(&e.ID, &e.UserID, &e.EventType, &e.Description, &e.Location, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByUser returns one page of a user's events, newest first, optionally
// filtered by status, along with the total row count for the filter.
func (r *EmergencyEventRepo) ListByUser(ctx context.Context, userID, status string, page, limit int) ([]*model.EmergencyEvent, int, error) {
	where := "WHERE user_id = ?"
	args := []any{userID}
	if status != "" {
		where += " AND status = ?"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM emergency_events "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + eventColumns + " FROM emergency_events " + where +
		" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*model.EmergencyEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// GetByIDAndUser fetches an event constrained by both id and owner.
func (r *EmergencyEventRepo) GetByIDAndUser(ctx context.Context, id uint64, userID string) (*model.EmergencyEvent, error) {
	const q = "SELECT " + eventColumns + " FROM emergency_events WHERE id = ? AND user_id = ?"
	e, err := scanEvent(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return e, err
}

// Create inserts a new event. Status defaults to active when unset.
func (r *EmergencyEventRepo) Create(ctx context.Context, e *model.EmergencyEvent) error {
	if e.Status == "" {
		e.Status = model.EventStatusActive
	}
	const q = "INSERT INTO emergency_events (user_id, event_type, description, location, status) VALUES (?,?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, e.UserID, e.EventType, e.Description, e.Location, e.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByIDAndUser(ctx, uint64(id), e.UserID)
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

// EmergencyEventPatch carries the selectively updatable event fields. Any
// status value may replace any other; no transition rules apply.
type EmergencyEventPatch struct {
	EventType   *string                `json:"event_type"`
	Description model.Optional[string] `json:"description"`
	Location    model.Optional[string] `json:"location"`
	Status      *string                `json:"status"`
}

// Update applies supplied fields to an event owned by the user.
func (r *EmergencyEventRepo) Update(ctx context.Context, id uint64, userID string, p EmergencyEventPatch) (*model.EmergencyEvent, error) {
	if _, err := r.GetByIDAndUser(ctx, id, userID); err != nil {
		return nil, err
	}
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if p.EventType != nil {
		sets = append(sets, "event_type = ?")
		args = append(args, *p.EventType)
	}
	if p.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, p.Description.Value)
	}
	if p.Location.Set {
		sets = append(sets, "location = ?")
		args = append(args, p.Location.Value)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	q := "UPDATE emergency_events SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	args = append(args, id, userID)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.GetByIDAndUser(ctx, id, userID)
}

// Delete removes an event owned by the user.
func (r *EmergencyEventRepo) Delete(ctx context.Context, id uint64, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM emergency_events WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}
	return nil
}
