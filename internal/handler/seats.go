package handler

import (
	"context"  // context for the store and event interfaces
	"errors"   // errors.Is comparisons against repository sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing query parameters
	"time"     // bounded contexts for post-commit side effects

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/seat-booking/internal/model"      // row types returned by the store
	"github.com/iliyamo/seat-booking/internal/queue"      // seat event payloads
	"github.com/iliyamo/seat-booking/internal/repository" // sentinel errors
	"github.com/iliyamo/seat-booking/internal/seating"    // grid limits and allocator errors
)

// SeatStore is the persistence the seat handlers need.  repository.Ledger
// implements it.
type SeatStore interface {
	Seats(ctx context.Context) ([]model.Seat, error)
	Book(ctx context.Context, numbers []int) (*model.Booking, error)
	Allocate(ctx context.Context, n int) (*model.Booking, error)
	Reset(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]model.Booking, error)
}

// EventPublisher sends seat events after a change has been committed.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.SeatEvent) error
}

// CachePurger drops cached seat listings.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// SeatHandler serves the booking gateway: listing seats, booking a given
// set of seats, server-side allocation and reset.  Events and Cache are
// optional; nil disables them.
type SeatHandler struct {
	Store       SeatStore
	Events      EventPublisher
	Cache       CachePurger
	RecentLimit int
}

// NewSeatHandler constructs a SeatHandler.  The store must be non-nil.
func NewSeatHandler(store SeatStore, events EventPublisher, cache CachePurger, recentLimit int) *SeatHandler {
	if store == nil {
		panic("nil store passed to NewSeatHandler")
	}
	if recentLimit <= 0 {
		recentLimit = 50
	}
	return &SeatHandler{Store: store, Events: events, Cache: cache, RecentLimit: recentLimit}
}

type seatItem struct {
	SeatNumber int    `json:"seat_number"`
	Status     string `json:"status"`
}

type bookingItem struct {
	Reference string    `json:"reference"`
	Seats     []int     `json:"seats"`
	CreatedAt time.Time `json:"created_at"`
}

func toBookingItem(b *model.Booking) bookingItem {
	return bookingItem{Reference: b.Reference, Seats: b.SeatNumbers, CreatedAt: b.CreatedAt}
}

// ListSeats handles GET /v1/seats.  It returns every seat in seat-number
// order together with the booked and available counters.
func (h *SeatHandler) ListSeats(c echo.Context) error {
	seats, err := h.Store.Seats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	items := make([]seatItem, 0, len(seats))
	booked := 0
	for _, s := range seats {
		if s.Status == string(seating.Booked) {
			booked++
		}
		items = append(items, seatItem{SeatNumber: s.Number, Status: s.Status})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":     items,
		"booked":    booked,
		"available": len(items) - booked,
	})
}

// BookSeats handles POST /v1/seats/book.  The body carries the 1-based seat
// numbers the client allocated: {"seats":[1,2,3]}.  Either every seat is
// booked or none is; 409 is returned when any of them is already taken.
func (h *SeatHandler) BookSeats(c echo.Context) error {
	var body struct {
		Seats []int `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}
	if len(body.Seats) > seating.MaxPerRequest {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you can book a maximum of 7 seats at a time"})
	}
	seen := make(map[int]struct{}, len(body.Seats))
	for _, n := range body.Seats {
		if !seating.ValidNumber(n) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat number", "seat": n})
		}
		if _, dup := seen[n]; dup {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate seat number", "seat": n})
		}
		seen[n] = struct{}{}
	}

	b, err := h.Store.Book(c.Request().Context(), body.Seats)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "some seats are already booked"})
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat number"})
		}
		c.Logger().Errorf("book seats: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to book seats"})
	}
	h.afterCommit(c, queue.NewBookedEvent(b.Reference, b.SeatNumbers))
	return c.JSON(http.StatusCreated, toBookingItem(b))
}

// CreateBooking handles POST /v1/bookings with {"count": n}.  The server
// picks the seats with the same allocator the client uses, against the
// locked seat rows, and books them in one transaction.
func (h *SeatHandler) CreateBooking(c echo.Context) error {
	var body struct {
		Count int `json:"count"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b, err := h.Store.Allocate(c.Request().Context(), body.Count)
	if err != nil {
		switch {
		case errors.Is(err, seating.ErrInvalidRequestCount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "please enter a valid number of seats"})
		case errors.Is(err, seating.ErrTooManyRequested):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "you can book a maximum of 7 seats at a time"})
		case errors.Is(err, seating.ErrInsufficientSeats):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "not enough seats available to fulfill your booking"})
		}
		c.Logger().Errorf("allocate seats: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to book seats"})
	}
	h.afterCommit(c, queue.NewBookedEvent(b.Reference, b.SeatNumbers))
	return c.JSON(http.StatusCreated, toBookingItem(b))
}

// ResetSeats handles POST /v1/seats/reset.  Every seat becomes available;
// the response reports how many seats were released.
func (h *SeatHandler) ResetSeats(c echo.Context) error {
	n, err := h.Store.Reset(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("reset seats: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reset bookings"})
	}
	h.afterCommit(c, queue.NewResetEvent(n))
	return c.JSON(http.StatusOK, echo.Map{"reset": n})
}

// ListBookings handles GET /v1/bookings.  It returns the latest bookings,
// newest first.  ?limit= caps the page at RecentLimit.
func (h *SeatHandler) ListBookings(c echo.Context) error {
	limit := h.RecentLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		if n < limit {
			limit = n
		}
	}
	bookings, err := h.Store.Recent(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	items := make([]bookingItem, 0, len(bookings))
	for i := range bookings {
		items = append(items, toBookingItem(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// afterCommit purges the seat cache and publishes ev.  Both run after the
// change is durable; failures are logged and never fail the request.
func (h *SeatHandler) afterCommit(c echo.Context, ev queue.SeatEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if h.Cache != nil {
		if err := h.Cache.Purge(ctx); err != nil {
			c.Logger().Warnf("purge seat cache: %v", err)
		}
	}
	if h.Events != nil {
		if err := h.Events.Publish(ctx, ev); err != nil {
			c.Logger().Warnf("publish %s: %v", ev.Type, err)
		}
	}
}
