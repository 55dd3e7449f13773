// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/google/uuid"
)

// Event types carried in SeatEvent.Type.
const (
    EventSeatsBooked = "seats.booked"
    EventSeatsReset  = "seats.reset"
)

// SeatEvent is published after a booking or reset has been committed.  It
// carries enough for downstream consumers to log or notify without querying
// the seats table.
type SeatEvent struct {
    ID         string `json:"id"`
    Type       string `json:"type"`
    Reference  string `json:"reference,omitempty"` // booking reference, empty for resets
    Seats      []int  `json:"seats,omitempty"`     // 1-based seat numbers in allocation order
    Count      int    `json:"count"`               // seats booked, or seats released by a reset
    OccurredAt string `json:"occurred_at"`         // RFC3339, UTC
}

// NewBookedEvent builds the event for a confirmed booking.
func NewBookedEvent(reference string, seats []int) SeatEvent {
    return SeatEvent{
        ID:         uuid.NewString(),
        Type:       EventSeatsBooked,
        Reference:  reference,
        Seats:      append([]int(nil), seats...),
        Count:      len(seats),
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}

// NewResetEvent builds the event for a full reset that released n seats.
func NewResetEvent(released int64) SeatEvent {
    return SeatEvent{
        ID:         uuid.NewString(),
        Type:       EventSeatsReset,
        Count:      int(released),
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}
