// Package booking drives a client-side booking session: it keeps a local
// snapshot of the seat store, allocates against it and commits a booking
// to the snapshot only after the gateway has accepted it.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/iliyamo/seat-booking/internal/gateway"
	"github.com/iliyamo/seat-booking/internal/seating"
)

// ErrBusy is returned when another load, book or reset is still in flight.
var ErrBusy = errors.New("another request is in progress")

// ResetMessage is reported after a successful reset.
const ResetMessage = "All bookings have been reset."

// Confirmation describes a booking the gateway accepted.
type Confirmation struct {
	Indices []int  // 0-based, allocation order
	Numbers []int  // 1-based, as sent to the gateway
	Message string // "Seat Booking Successful! Seats: 1, 2, 3"
}

// Session owns the local seat snapshot.  Snapshot and Counts may be called
// at any time; Load, Book and Reset are serialised by a single-permit
// guard and fail fast with ErrBusy instead of queueing.
type Session struct {
	gw    gateway.Gateway
	guard *semaphore.Weighted

	mu    sync.RWMutex
	store seating.Store
}

// NewSession returns a session whose snapshot starts with every seat
// available.  Call Load to pull the real state from the gateway.
func NewSession(gw gateway.Gateway) *Session {
	return &Session{
		gw:    gw,
		guard: semaphore.NewWeighted(1),
		store: seating.NewStore(),
	}
}

// Load fetches the seat statuses and replaces the snapshot.  On any error
// the snapshot is left as it was.
func (s *Session) Load(ctx context.Context) error {
	if !s.guard.TryAcquire(1) {
		return ErrBusy
	}
	defer s.guard.Release(1)

	store, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	s.set(store)
	return nil
}

// Book allocates n seats on the snapshot, sends them to the gateway and
// commits them locally once the gateway acknowledges.  Allocation errors
// are the seating sentinels; gateway errors wrap gateway.ErrGatewayFailure.
func (s *Session) Book(ctx context.Context, n int) (*Confirmation, error) {
	if !s.guard.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer s.guard.Release(1)

	current := s.Snapshot()
	indices, err := seating.Allocate(current, n)
	if err != nil {
		return nil, err
	}
	numbers := seating.Numbers(indices)
	if err := s.gw.BookSeats(ctx, numbers); err != nil {
		return nil, err
	}
	s.set(seating.Apply(current, indices))

	return &Confirmation{
		Indices: indices,
		Numbers: numbers,
		Message: SuccessMessage(numbers),
	}, nil
}

// Reset asks the gateway to release every seat, then reloads the snapshot
// from it.  If either call fails the snapshot is left as it was.
func (s *Session) Reset(ctx context.Context) (string, error) {
	if !s.guard.TryAcquire(1) {
		return "", ErrBusy
	}
	defer s.guard.Release(1)

	if err := s.gw.ResetSeats(ctx); err != nil {
		return "", err
	}
	store, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}
	s.set(store)
	return ResetMessage, nil
}

// Snapshot returns a copy of the local seat store.
func (s *Session) Snapshot() seating.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Clone()
}

// Counts returns the booked and available totals of the snapshot.
func (s *Session) Counts() (booked, available int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Counts()
}

// SuccessMessage formats the confirmation text for the given seat numbers.
func SuccessMessage(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return "Seat Booking Successful! Seats: " + strings.Join(parts, ", ")
}

func (s *Session) set(store seating.Store) {
	s.mu.Lock()
	s.store = store
	s.mu.Unlock()
}

func (s *Session) fetch(ctx context.Context) (seating.Store, error) {
	states, err := s.gw.FetchSeats(ctx)
	if err != nil {
		return nil, err
	}
	return storeFromStates(states)
}

// storeFromStates places each state at its seat index.  Every seat on the
// grid must be reported exactly once.
func storeFromStates(states []gateway.SeatState) (seating.Store, error) {
	if len(states) != seating.TotalSeats {
		return nil, fmt.Errorf("%w: expected %d seats, got %d", seating.ErrInvalidStore, seating.TotalSeats, len(states))
	}
	raw := make([]string, seating.TotalSeats)
	for _, st := range states {
		if !seating.ValidNumber(st.SeatNumber) {
			return nil, fmt.Errorf("%w: seat number %d", seating.ErrInvalidStore, st.SeatNumber)
		}
		idx := seating.IndexOf(st.SeatNumber)
		if raw[idx] != "" {
			return nil, fmt.Errorf("%w: seat %d reported twice", seating.ErrInvalidStore, st.SeatNumber)
		}
		raw[idx] = st.Status
	}
	return seating.FromStatuses(raw)
}
