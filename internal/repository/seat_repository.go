package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"fmt"          // fmt wraps errors with query context
	"strings"      // strings builds IN (...) placeholder lists

	"github.com/iliyamo/seat-booking/internal/model"   // model holds row types
	"github.com/iliyamo/seat-booking/internal/seating" // seating defines statuses and the grid
)

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// List retrieves every seat ordered by seat number.
func (r *SeatRepo) List(ctx context.Context) ([]model.Seat, error) {
	const q = `SELECT seat_number, status, updated_at
	           FROM seats
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Seat, 0, seating.TotalSeats)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.Number, &s.Status, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LockStoreTx reads all seats with FOR UPDATE and returns them as a
// seating.Store.  The rows stay locked until the transaction ends.
func (r *SeatRepo) LockStoreTx(ctx context.Context, tx *sql.Tx) (seating.Store, error) {
	const q = `SELECT status FROM seats ORDER BY seat_number FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	raw := make([]string, 0, seating.TotalSeats)
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return nil, err
		}
		raw = append(raw, status)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seating.FromStatuses(raw)
}

// BookTx marks the given seat numbers as booked inside tx.  The seats are
// locked first; ErrSeatNotFound is returned when a number has no row and
// ErrConflict when any of them is already booked.  In both cases nothing
// is updated.
func (r *SeatRepo) BookTx(ctx context.Context, tx *sql.Tx, numbers []int) error {
	if len(numbers) == 0 {
		return nil
	}
	placeholders, args := inClause(numbers)

	rows, err := tx.QueryContext(ctx,
		`SELECT seat_number, status FROM seats WHERE seat_number IN (`+placeholders+`) FOR UPDATE`,
		args...)
	if err != nil {
		return err
	}
	found := 0
	taken := false
	for rows.Next() {
		var number int
		var status string
		if scanErr := rows.Scan(&number, &status); scanErr != nil {
			rows.Close()
			return scanErr
		}
		found++
		if status == string(seating.Booked) {
			taken = true
		}
	}
	if err = rows.Close(); err != nil {
		return err
	}
	if found != len(numbers) {
		return ErrSeatNotFound
	}
	if taken {
		return ErrConflict
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE seats SET status = 'booked' WHERE seat_number IN (`+placeholders+`)`,
		args...); err != nil {
		return fmt.Errorf("update seats: %w", err)
	}
	return nil
}

// ResetAll marks every seat available and returns how many rows changed.
func (r *SeatRepo) ResetAll(ctx context.Context) (int64, error) {
	const q = `UPDATE seats SET status = 'available' WHERE status <> 'available'`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func inClause(numbers []int) (string, []interface{}) {
	ph := make([]string, 0, len(numbers))
	args := make([]interface{}, 0, len(numbers))
	for _, n := range numbers {
		ph = append(ph, "?")
		args = append(args, n)
	}
	return strings.Join(ph, ","), args
}
