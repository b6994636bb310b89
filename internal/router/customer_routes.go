package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/handler"
	"github.com/iliyamo/hotel-room-booking/internal/middleware"
	"github.com/iliyamo/hotel-room-booking/internal/utils"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers can
// commit pay-at-reception bookings directly, drive the gateway payment
// flow, and view or cancel their own bookings.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, p *handler.PaymentHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleCustomer),
	)

	g.POST("/bookings", h.CreateBooking)
	g.GET("/my-bookings", h.MyBookings)
	g.GET("/bookings/:id", h.GetBooking)
	g.POST("/bookings/:id/cancel", h.CancelBooking)

	// Gateway flow: initiate stashes the pending stay, callback commits
	// it exactly once, cancel abandons it.
	g.POST("/payments/initiate", p.Initiate)
	g.GET("/payments/callback", p.Callback)
	g.POST("/payments/cancel", p.CancelPending)
}
