package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/seat-booking/internal/model"
	"github.com/iliyamo/seat-booking/internal/seating"
)

// Ledger runs the seat-changing operations of the gateway.  Each call
// opens its own transaction; a booking either lands in full (seats
// flipped and the booking recorded) or not at all.
type Ledger struct {
	db       *sql.DB
	seats    *SeatRepo
	bookings *BookingRepo
}

// NewLedger builds a Ledger over db.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db, seats: NewSeatRepo(db), bookings: NewBookingRepo(db)}
}

// Seats lists every seat in seat-number order.
func (l *Ledger) Seats(ctx context.Context) ([]model.Seat, error) {
	return l.seats.List(ctx)
}

// Book marks the given 1-based seat numbers as booked and records the
// booking.  The numbers are kept in the order given.
func (l *Ledger) Book(ctx context.Context, numbers []int) (*model.Booking, error) {
	var out *model.Booking
	err := l.inTx(ctx, func(tx *sql.Tx) error {
		b, err := l.bookTx(ctx, tx, numbers)
		out = b
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Allocate picks n seats with seating.Allocate against the locked seat rows
// and books them in the same transaction.
func (l *Ledger) Allocate(ctx context.Context, n int) (*model.Booking, error) {
	if n < 1 {
		return nil, seating.ErrInvalidRequestCount
	}
	if n > seating.MaxPerRequest {
		return nil, seating.ErrTooManyRequested
	}
	var out *model.Booking
	err := l.inTx(ctx, func(tx *sql.Tx) error {
		store, err := l.seats.LockStoreTx(ctx, tx)
		if err != nil {
			return fmt.Errorf("load seats: %w", err)
		}
		indices, err := seating.Allocate(store, n)
		if err != nil {
			return err
		}
		b, err := l.bookTx(ctx, tx, seating.Numbers(indices))
		out = b
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reset marks every seat available.  Booking history is kept.
func (l *Ledger) Reset(ctx context.Context) (int64, error) {
	return l.seats.ResetAll(ctx)
}

// Recent returns the latest bookings, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]model.Booking, error) {
	return l.bookings.ListRecent(ctx, limit)
}

func (l *Ledger) bookTx(ctx context.Context, tx *sql.Tx, numbers []int) (*model.Booking, error) {
	if err := l.seats.BookTx(ctx, tx, numbers); err != nil {
		return nil, err
	}
	b := &model.Booking{
		Reference:   uuid.NewString(),
		SeatNumbers: append([]int(nil), numbers...),
	}
	if err := l.bookings.CreateTx(ctx, tx, b); err != nil {
		return nil, fmt.Errorf("record booking: %w", err)
	}
	return b, nil
}

func (l *Ledger) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}
