package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jondawson917/snappycamper/internal/apperr"
)

// ReservationRepo enforces the one-reservation-per-(user,camp) invariant.
// Every multi-step operation runs inside a single transaction so a concurrent
// conflicting operation either fully precedes or fully follows it; this code
// holds no in-process locks. The composite primary key on (user_id, camp_id)
// is the authoritative guard — the pre-checks here exist for deterministic,
// friendlier errors, and a racing insert that trips the constraint is
// translated to the same Conflict the pre-check produces.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// Reserve books a camp for a user. Checks run in a fixed order — camp
// existence, user existence, then duplicate reservation — so "not found" is
// always reported ahead of "conflict" even under racing deletes.
func (r *ReservationRepo) Reserve(ctx context.Context, userID, campID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM camps WHERE id = $1)`, campID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(fmt.Sprintf("no camp: %d", campID))
	}
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(fmt.Sprintf("no user: %d", userID))
	}
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reservations WHERE user_id = $1 AND camp_id = $2)`,
		userID, campID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return apperr.Conflict("already reserved")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (user_id, camp_id) VALUES ($1, $2)`, userID, campID); err != nil {
		// Two racing reserves can both pass the pre-check; the constraint
		// settles it. Racing deletes of the user or camp land here too.
		if isUniqueViolation(err) {
			return apperr.Conflict("already reserved")
		}
		if isForeignKeyViolation(err) {
			return apperr.NotFound("user or camp no longer exists")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Unreserve deletes a reservation. Deleting a pair with no reservation is an
// observable NotFound, not a silent no-op.
func (r *ReservationRepo) Unreserve(ctx context.Context, userID, campID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM reservations WHERE user_id = $1 AND camp_id = $2`, userID, campID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(fmt.Sprintf("no reservation for user %d camp %d", userID, campID))
	}
	return nil
}

// Exists reports whether a reservation row exists for the pair.
func (r *ReservationRepo) Exists(ctx context.Context, userID, campID int64) (bool, error) {
	var exists bool
	if err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reservations WHERE user_id = $1 AND camp_id = $2)`,
		userID, campID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
