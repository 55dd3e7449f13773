package model

import "time"

// Booking records one confirmed request for seats.  The seats
// themselves live in `booking_seats`; together they form the
// allocation the client asked the gateway to persist.
//
// Fields:
//  ID          – primary key identifier.
//  Reference   – UUID handed back to the client.
//  SeatCount   – number of seats booked.
//  SeatNumbers – seat numbers; allocation order on create, ascending when listed.
//  CreatedAt   – creation timestamp.
type Booking struct {
    ID          uint64    // bookings.id
    Reference   string    // bookings.reference
    SeatCount   int       // bookings.seat_count
    SeatNumbers []int     // booking_seats.seat_number
    CreatedAt   time.Time // bookings.created_at
}
