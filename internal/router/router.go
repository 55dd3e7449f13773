package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/seat-booking/internal/handler" // import the handlers that implement the gateway
)

// RegisterRoutes registers the health endpoints on the provided Echo
// instance.  /healthz answers as long as the process is up; /readyz also
// pings the database.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}
