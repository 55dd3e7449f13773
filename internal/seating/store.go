// Package seating holds the seat grid, its status store and the seat
// allocator.  Everything here is pure: nothing talks to the network or the
// database, so both the gateway server and the booking client share it.
package seating

import (
	"errors"
	"fmt"
)

// Grid dimensions.  Seats are numbered row-major: index = row*SeatsPerRow + col.
const (
	Rows        = 11
	SeatsPerRow = 7
	TotalSeats  = Rows * SeatsPerRow
)

// Status is the booking state of a single seat.
type Status string

const (
	Available Status = "available"
	Booked    Status = "booked"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == Available || s == Booked
}

// ErrInvalidStore is returned when a store does not hold exactly TotalSeats
// known statuses.
var ErrInvalidStore = errors.New("invalid seat store")

// Store is the flat, index-addressed list of seat statuses.
type Store []Status

// NewStore returns a store with every seat available.
func NewStore() Store {
	s := make(Store, TotalSeats)
	for i := range s {
		s[i] = Available
	}
	return s
}

// FromStatuses builds a store from raw status strings in seat order.
func FromStatuses(raw []string) (Store, error) {
	s := make(Store, len(raw))
	for i, v := range raw {
		s[i] = Status(v)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the length and status invariants.
func (s Store) Validate() error {
	if len(s) != TotalSeats {
		return fmt.Errorf("%w: expected %d seats, got %d", ErrInvalidStore, TotalSeats, len(s))
	}
	for i, st := range s {
		if !st.Valid() {
			return fmt.Errorf("%w: seat %d has status %q", ErrInvalidStore, NumberOf(i), st)
		}
	}
	return nil
}

// Clone returns an independent copy of the store.
func (s Store) Clone() Store {
	out := make(Store, len(s))
	copy(out, s)
	return out
}

// Counts returns the number of booked and available seats.
func (s Store) Counts() (booked, available int) {
	for _, st := range s {
		switch st {
		case Booked:
			booked++
		case Available:
			available++
		}
	}
	return booked, available
}

// Row returns the indices belonging to row r, in column order.
func Row(r int) []int {
	if r < 0 || r >= Rows {
		return nil
	}
	out := make([]int, SeatsPerRow)
	for c := range out {
		out[c] = r*SeatsPerRow + c
	}
	return out
}

// NumberOf converts a 0-based index to the 1-based seat number used on the wire.
func NumberOf(index int) int { return index + 1 }

// IndexOf converts a 1-based seat number to its 0-based index.
func IndexOf(number int) int { return number - 1 }

// ValidNumber reports whether n is a seat number on the grid.
func ValidNumber(n int) bool { return n >= 1 && n <= TotalSeats }

// Numbers converts indices to 1-based seat numbers, keeping order.
func Numbers(indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = NumberOf(idx)
	}
	return out
}

// Reset returns a store with every seat available.  The input is not modified.
func Reset(s Store) Store {
	out := make(Store, len(s))
	for i := range out {
		out[i] = Available
	}
	return out
}

// Apply returns a copy of s with the given indices marked booked.  It is the
// commit step callers run once a booking has been confirmed.
func Apply(s Store, indices []int) Store {
	out := s.Clone()
	for _, idx := range indices {
		if idx >= 0 && idx < len(out) {
			out[idx] = Booked
		}
	}
	return out
}
