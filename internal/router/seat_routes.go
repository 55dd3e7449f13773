package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-booking/internal/handler"
)

// RegisterSeats registers the booking gateway endpoints under /v1.  The
// seat listing goes through the listing cache; every route that changes
// seats goes through the seat limiter, which charges per seat requested.
// Either middleware may be nil.
func RegisterSeats(e *echo.Echo, h *handler.SeatHandler, seatLimit, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")

	var read, write []echo.MiddlewareFunc
	if cache != nil {
		read = append(read, cache)
	}
	if seatLimit != nil {
		write = append(write, seatLimit)
	}

	g.GET("/seats", h.ListSeats, read...)
	g.GET("/bookings", h.ListBookings)

	// Mutating endpoints.  The handler purges the cached seat listing
	// after each successful commit.
	g.POST("/seats/book", h.BookSeats, write...)
	g.POST("/seats/reset", h.ResetSeats, write...)
	g.POST("/bookings", h.CreateBooking, write...)
}
