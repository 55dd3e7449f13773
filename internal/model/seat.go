package model

import "time"

// Seat is one row of the `seats` table.  Seats are identified by
// their 1-based seat number; the row of the grid is derived from the
// number and never stored.
//
// Fields:
//  Number    – seat number (1..77), primary key.
//  Status    – available or booked.
//  UpdatedAt – last time the status changed.
type Seat struct {
    Number    int       // seats.seat_number
    Status    string    // seats.status
    UpdatedAt time.Time // seats.updated_at
}
