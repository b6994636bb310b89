package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/handler"
	"github.com/iliyamo/hotel-room-booking/internal/middleware"
	"github.com/iliyamo/hotel-room-booking/internal/utils"
)

// RegisterAdmin registers the management surface under /v1/admin.  All
// routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, b *handler.AdminBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAdmin),
	)

	g.POST("/room-types", h.CreateRoomType)
	g.GET("/room-types", h.ListRoomTypes)
	g.DELETE("/room-types/:id", h.DeleteRoomType)

	g.POST("/rooms", h.CreateRoom)
	g.GET("/rooms", h.ListRooms)
	g.DELETE("/rooms/:id", h.DeleteRoom)

	g.POST("/meal-plans", h.CreateMealPlan)
	g.GET("/meal-plans", h.ListMealPlans)
	g.DELETE("/meal-plans/:id", h.DeleteMealPlan)

	g.POST("/market-segments", h.CreateMarketSegment)
	g.GET("/market-segments", h.ListMarketSegments)

	g.GET("/dashboard", h.Dashboard)
	g.GET("/bookings", b.ListWithRisk)
	g.GET("/bookings/:id/features", b.Features)
}
