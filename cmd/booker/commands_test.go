package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-booking/internal/booking"
	"github.com/iliyamo/seat-booking/internal/config"
	"github.com/iliyamo/seat-booking/internal/gateway"
	"github.com/iliyamo/seat-booking/internal/seating"
)

// stubGateway serves the three gateway routes from an in-memory store.
type stubGateway struct {
	mu      sync.Mutex
	store   seating.Store
	failAll bool
}

func (g *stubGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll {
		http.Error(w, `{"error":"down"}`, http.StatusServiceUnavailable)
		return
	}
	switch r.URL.Path {
	case "/v1/seats":
		items := make([]gateway.SeatState, len(g.store))
		for i, st := range g.store {
			items[i] = gateway.SeatState{SeatNumber: seating.NumberOf(i), Status: string(st)}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	case "/v1/seats/book":
		var body struct {
			Seats []int `json:"seats"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, n := range body.Seats {
			g.store[seating.IndexOf(n)] = seating.Booked
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	case "/v1/seats/reset":
		g.store = seating.Reset(g.store)
		_, _ = w.Write([]byte(`{"reset":0}`))
	default:
		http.NotFound(w, r)
	}
}

func run(t *testing.T, gw *stubGateway, args ...string) (string, string, error) {
	t.Helper()
	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)

	var out, errw bytes.Buffer
	cmd := newRootCmd(config.GatewayConfig{BaseURL: srv.URL, Timeout: time.Second}, &out, &errw)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errw.String(), err
}

func TestBook_PrintsConfirmation(t *testing.T) {
	gw := &stubGateway{store: seating.NewStore()}

	out, _, err := run(t, gw, "book", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Seat Booking Successful! Seats: 1, 2, 3")
	assert.Contains(t, out, "Booked Seats = 3")
	assert.Contains(t, out, "Available Seats = 74")
	assert.Equal(t, seating.Booked, gw.store[2])
}

func TestBook_Rejections(t *testing.T) {
	cases := []struct {
		arg  string
		want string
	}{
		{"abc", msgInvalidCount},
		{"0", msgInvalidCount},
		{"8", msgTooMany},
	}
	for _, tc := range cases {
		t.Run(tc.arg, func(t *testing.T) {
			gw := &stubGateway{store: seating.NewStore()}
			_, errOut, err := run(t, gw, "book", tc.arg)
			assert.Error(t, err)
			assert.Contains(t, errOut, tc.want)
			assert.Equal(t, seating.NewStore(), gw.store)
		})
	}
}

func TestBook_Insufficient(t *testing.T) {
	gw := &stubGateway{store: seating.NewStore()}
	for i := range gw.store {
		gw.store[i] = seating.Booked
	}
	_, errOut, err := run(t, gw, "book", "1")
	assert.ErrorIs(t, err, seating.ErrInsufficientSeats)
	assert.Contains(t, errOut, msgInsufficient)
}

func TestGatewayDown(t *testing.T) {
	gw := &stubGateway{store: seating.NewStore(), failAll: true}

	_, errOut, err := run(t, gw, "seats")
	assert.ErrorIs(t, err, gateway.ErrGatewayFailure)
	assert.Contains(t, errOut, msgLoadFailed)

	_, errOut, err = run(t, gw, "reset")
	assert.ErrorIs(t, err, gateway.ErrGatewayFailure)
	assert.Contains(t, errOut, msgResetFailed)
}

func TestReset(t *testing.T) {
	gw := &stubGateway{store: seating.Apply(seating.NewStore(), []int{0, 1})}

	out, _, err := run(t, gw, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, booking.ResetMessage)
	assert.Contains(t, out, "Booked Seats = 0")
}

func TestSeats(t *testing.T) {
	gw := &stubGateway{store: seating.Apply(seating.NewStore(), []int{10})}

	out, _, err := run(t, gw, "seats")
	require.NoError(t, err)
	assert.Contains(t, out, "11*")
	assert.Contains(t, out, "Booked Seats = 1")
}

func TestBookMessage(t *testing.T) {
	assert.Equal(t, msgBusy, bookMessage(booking.ErrBusy))
	assert.Equal(t, msgBookFailed, bookMessage(fmt.Errorf("book seats: %w", gateway.ErrGatewayFailure)))
	assert.Equal(t, msgBookFailed, bookMessage(errors.New("anything else")))
}
