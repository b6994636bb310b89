package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/handler"
	"github.com/iliyamo/hotel-room-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, used by load balancers and
// monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes.  Unauthenticated
// operations live under /v1/auth, while protected endpoints live
// under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access only issues a
	// new access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT middleware: the handler accepts either
	// a bearer token (revoke all sessions) or a refresh_token body
	// (revoke one session).
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)

	// Alias kept for clients that call logout outside the auth group.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints: rooms,
// per-room unavailable date ranges and the booking form catalogs.
// These are the cacheable, rate-limited guest surface.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/rooms", p.ListRooms)
	g.GET("/rooms/:id", p.GetRoom)
	g.GET("/rooms/:id/unavailable", p.RoomUnavailable)
	g.GET("/meal-plans", p.ListMealPlans)
	g.GET("/market-segments", p.ListMarketSegments)
}
