package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-booking/internal/gateway"
	"github.com/iliyamo/seat-booking/internal/seating"
)

// fakeGateway keeps its own seat store and records what it was sent.
type fakeGateway struct {
	mu       sync.Mutex
	store    seating.Store
	booked   [][]int
	fetchErr error
	bookErr  error
	resetErr error
	block    chan struct{} // when set, BookSeats waits on it
	entered  chan struct{}
}

func newFakeGateway() *fakeGateway { return &fakeGateway{store: seating.NewStore()} }

func (f *fakeGateway) FetchSeats(ctx context.Context) ([]gateway.SeatState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]gateway.SeatState, len(f.store))
	for i, st := range f.store {
		out[i] = gateway.SeatState{SeatNumber: seating.NumberOf(i), Status: string(st)}
	}
	return out, nil
}

func (f *fakeGateway) BookSeats(ctx context.Context, numbers []int) error {
	if f.block != nil {
		close(f.entered)
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookErr != nil {
		return f.bookErr
	}
	f.booked = append(f.booked, numbers)
	for _, n := range numbers {
		f.store[seating.IndexOf(n)] = seating.Booked
	}
	return nil
}

func (f *fakeGateway) ResetSeats(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return f.resetErr
	}
	f.store = seating.Reset(f.store)
	return nil
}

func gatewayErr(op string) error {
	return fmt.Errorf("%s: %w: connection refused", op, gateway.ErrGatewayFailure)
}

func TestSession_LoadReplacesSnapshot(t *testing.T) {
	gw := newFakeGateway()
	gw.store[0], gw.store[76] = seating.Booked, seating.Booked
	s := NewSession(gw)

	require.NoError(t, s.Load(context.Background()))
	booked, available := s.Counts()
	assert.Equal(t, 2, booked)
	assert.Equal(t, 75, available)
	assert.Equal(t, seating.Booked, s.Snapshot()[76])
}

func TestSession_LoadFailureKeepsSnapshot(t *testing.T) {
	gw := newFakeGateway()
	s := NewSession(gw)
	gw.fetchErr = gatewayErr("fetch seats")

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, gateway.ErrGatewayFailure)
	assert.Equal(t, seating.NewStore(), s.Snapshot())
}

func TestSession_BookCommitsAfterAck(t *testing.T) {
	gw := newFakeGateway()
	s := NewSession(gw)
	require.NoError(t, s.Load(context.Background()))

	c, err := s.Book(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, c.Indices)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, c.Numbers)
	assert.Equal(t, "Seat Booking Successful! Seats: 1, 2, 3, 4, 5", c.Message)
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5}}, gw.booked)

	booked, _ := s.Counts()
	assert.Equal(t, 5, booked)

	// row 0 now has two free seats, so a request for 4 moves to row 1
	c, err = s.Book(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9, 10, 11}, c.Numbers)
}

func TestSession_BookGatewayFailureLeavesSnapshot(t *testing.T) {
	gw := newFakeGateway()
	s := NewSession(gw)
	gw.bookErr = gatewayErr("book seats")

	_, err := s.Book(context.Background(), 3)
	assert.ErrorIs(t, err, gateway.ErrGatewayFailure)
	booked, available := s.Counts()
	assert.Equal(t, 0, booked)
	assert.Equal(t, seating.TotalSeats, available)
}

func TestSession_BookValidation(t *testing.T) {
	gw := newFakeGateway()
	s := NewSession(gw)

	_, err := s.Book(context.Background(), 0)
	assert.ErrorIs(t, err, seating.ErrInvalidRequestCount)
	_, err = s.Book(context.Background(), 8)
	assert.ErrorIs(t, err, seating.ErrTooManyRequested)
	assert.Empty(t, gw.booked)
}

func TestSession_BookInsufficient(t *testing.T) {
	gw := newFakeGateway()
	for i := range gw.store {
		gw.store[i] = seating.Booked
	}
	gw.store[40] = seating.Available
	s := NewSession(gw)
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Book(context.Background(), 2)
	assert.ErrorIs(t, err, seating.ErrInsufficientSeats)
	assert.Empty(t, gw.booked)
}

func TestSession_ResetReloads(t *testing.T) {
	gw := newFakeGateway()
	s := NewSession(gw)
	_, err := s.Book(context.Background(), 7)
	require.NoError(t, err)

	msg, err := s.Reset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ResetMessage, msg)
	assert.Equal(t, seating.NewStore(), s.Snapshot())
}

func TestSession_ResetFailureKeepsSnapshot(t *testing.T) {
	gw := newFakeGateway()
	s := NewSession(gw)
	_, err := s.Book(context.Background(), 2)
	require.NoError(t, err)
	before := s.Snapshot()

	gw.resetErr = gatewayErr("reset seats")
	_, err = s.Reset(context.Background())
	assert.ErrorIs(t, err, gateway.ErrGatewayFailure)
	assert.Equal(t, before, s.Snapshot())

	// reset succeeded remotely but the refresh failed
	gw.resetErr = nil
	gw.fetchErr = errors.New("timeout")
	_, err = s.Reset(context.Background())
	assert.Error(t, err)
	assert.Equal(t, before, s.Snapshot())
}

func TestSession_BusyGuard(t *testing.T) {
	gw := newFakeGateway()
	gw.block = make(chan struct{})
	gw.entered = make(chan struct{})
	s := NewSession(gw)

	done := make(chan error, 1)
	go func() {
		_, err := s.Book(context.Background(), 1)
		done <- err
	}()
	<-gw.entered

	_, err := s.Book(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBusy)
	_, err = s.Reset(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, s.Load(context.Background()), ErrBusy)

	// reads are not guarded
	booked, _ := s.Counts()
	assert.Equal(t, 0, booked)

	close(gw.block)
	require.NoError(t, <-done)
	booked, _ = s.Counts()
	assert.Equal(t, 1, booked)
}

func TestStoreFromStates(t *testing.T) {
	states := make([]gateway.SeatState, seating.TotalSeats)
	for i := range states {
		// reversed order still lands each seat at its index
		states[i] = gateway.SeatState{SeatNumber: seating.TotalSeats - i, Status: "available"}
	}
	states[0].Status = "booked"
	store, err := storeFromStates(states)
	require.NoError(t, err)
	assert.Equal(t, seating.Booked, store[seating.TotalSeats-1])

	_, err = storeFromStates(states[:10])
	assert.ErrorIs(t, err, seating.ErrInvalidStore)

	dup := append([]gateway.SeatState(nil), states...)
	dup[1].SeatNumber = dup[0].SeatNumber
	_, err = storeFromStates(dup)
	assert.ErrorIs(t, err, seating.ErrInvalidStore)

	bad := append([]gateway.SeatState(nil), states...)
	bad[2].Status = "held"
	_, err = storeFromStates(bad)
	assert.ErrorIs(t, err, seating.ErrInvalidStore)
}

func TestSuccessMessage(t *testing.T) {
	assert.Equal(t, "Seat Booking Successful! Seats: 7", SuccessMessage([]int{7}))
}
