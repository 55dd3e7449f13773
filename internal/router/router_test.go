package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/seat-booking/internal/handler"
	"github.com/iliyamo/seat-booking/internal/model"
)

type noopStore struct{}

func (noopStore) Seats(context.Context) ([]model.Seat, error)           { return nil, nil }
func (noopStore) Book(context.Context, []int) (*model.Booking, error)   { return &model.Booking{}, nil }
func (noopStore) Allocate(context.Context, int) (*model.Booking, error) { return &model.Booking{}, nil }
func (noopStore) Reset(context.Context) (int64, error)                  { return 0, nil }
func (noopStore) Recent(context.Context, int) ([]model.Booking, error)  { return nil, nil }

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func TestRegisterSeats_AppliesMiddleware(t *testing.T) {
	e := echo.New()
	var cached, limited int
	count := func(n *int) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { *n++; return next(c) }
		}
	}
	RegisterRoutes(e, okPinger{})
	RegisterSeats(e, handler.NewSeatHandler(noopStore{}, nil, nil, 0), count(&limited), count(&cached))

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/v1/seats"},
		{http.MethodGet, "/v1/bookings"},
		{http.MethodPost, "/v1/seats/reset"},
		{http.MethodGet, "/healthz"},
		{http.MethodGet, "/readyz"},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(r.method, r.path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, r.path)
	}
	assert.Equal(t, 1, cached)
	assert.Equal(t, 1, limited)
}

func TestRegisterSeats_NilMiddleware(t *testing.T) {
	e := echo.New()
	RegisterSeats(e, handler.NewSeatHandler(noopStore{}, nil, nil, 0), nil, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/seats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
