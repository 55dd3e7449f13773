package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/seat-booking/internal/model"
)

// BookingRepo records confirmed bookings and the seats they cover.  A
// booking row is written in the same transaction that flips the seats to
// booked, so the history never shows a booking the seats table does not.
// All timestamp fields are assumed to be stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a booking and its booking_seats rows within the scope
// of an existing transaction.  It populates the generated ID and creation
// time on the provided record.  The caller must commit or rollback the
// transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings (reference, seat_count) VALUES (?, ?)`
    result, err := tx.ExecContext(ctx, q, b.Reference, len(b.SeatNumbers))
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    b.SeatCount = len(b.SeatNumbers)
    b.CreatedAt = time.Now().UTC()
    if len(b.SeatNumbers) == 0 {
        return nil
    }
    query := `INSERT INTO booking_seats (booking_id, seat_number) VALUES `
    args := make([]interface{}, 0, len(b.SeatNumbers)*2)
    for i, n := range b.SeatNumbers {
        if i > 0 {
            query += ","
        }
        query += "(?, ?)"
        args = append(args, b.ID, n)
    }
    _, err = tx.ExecContext(ctx, query, args...)
    return err
}

// ListRecent returns up to limit bookings, newest first, with their seat
// numbers populated in ascending order.  When no bookings exist an empty
// slice is returned.
func (r *BookingRepo) ListRecent(ctx context.Context, limit int) ([]model.Booking, error) {
    if limit <= 0 {
        limit = 50
    }
    const q = `SELECT id, reference, seat_count, created_at
               FROM bookings
               ORDER BY created_at DESC, id DESC
               LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    bookings := make([]model.Booking, 0)
    // Keep track of index by booking ID for quick lookup
    index := make(map[uint64]int)
    for rows.Next() {
        var b model.Booking
        if err := rows.Scan(&b.ID, &b.Reference, &b.SeatCount, &b.CreatedAt); err != nil {
            return nil, err
        }
        b.SeatNumbers = []int{}
        index[b.ID] = len(bookings)
        bookings = append(bookings, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(bookings) == 0 {
        return bookings, nil
    }
    // Fetch seats for all bookings in one query
    ids := make([]interface{}, 0, len(bookings))
    placeholders := make([]string, 0, len(bookings))
    for _, b := range bookings {
        ids = append(ids, b.ID)
        placeholders = append(placeholders, "?")
    }
    seatQuery := `SELECT booking_id, seat_number
                  FROM booking_seats
                  WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)
                  ORDER BY booking_id, seat_number`
    srows, err := r.db.QueryContext(ctx, seatQuery, ids...)
    if err != nil {
        return nil, err
    }
    defer srows.Close()
    for srows.Next() {
        var bookingID uint64
        var number int
        if err := srows.Scan(&bookingID, &number); err != nil {
            return nil, err
        }
        idx, ok := index[bookingID]
        if !ok {
            continue
        }
        bookings[idx].SeatNumbers = append(bookings[idx].SeatNumbers, number)
    }
    if err := srows.Err(); err != nil {
        return nil, err
    }
    return bookings, nil
}
