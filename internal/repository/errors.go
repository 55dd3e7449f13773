// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrConflict signals that a booking cannot proceed because
// one of its seats is already taken, while ErrSeatNotFound indicates
// that a seat number does not exist on the grid.
package repository

import "errors"

// ErrConflict is returned when a booking touches a seat that is
// already booked. Nothing is written in that case. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrSeatNotFound is returned when a seat number has no row in the
// seats table. Handlers should translate this into an HTTP 400 response.
var ErrSeatNotFound = errors.New("seat not found")
