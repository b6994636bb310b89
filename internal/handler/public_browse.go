package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/booking"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browsing surface: rooms,
// their booked-out date ranges and the catalogs a booking form needs.
// These endpoints sit behind the response cache and the rate limiter.
type PublicHandler struct {
	Rooms     *repository.RoomRepo
	MealPlans *repository.MealPlanRepo
	Segments  *repository.MarketSegmentRepo
	Avail     *booking.Checker
}

func NewPublicHandler(rooms *repository.RoomRepo, meals *repository.MealPlanRepo, segs *repository.MarketSegmentRepo, avail *booking.Checker) *PublicHandler {
	if rooms == nil || meals == nil || segs == nil || avail == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Rooms: rooms, MealPlans: meals, Segments: segs, Avail: avail}
}

// ListRooms handles GET /v1/rooms.
func (h *PublicHandler) ListRooms(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomDetailView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out})
}

// roomDetailView shapes a room joined with its type for JSON output.
func roomDetailView(r repository.RoomDetail) echo.Map {
	return echo.Map{
		"id":              r.ID,
		"room_number":     r.RoomNumber,
		"room_type_id":    r.RoomTypeID,
		"room_type_name":  r.RoomTypeName,
		"price_per_night": r.PricePerNight,
		"image_path":      r.ImagePath,
	}
}

// GetRoom handles GET /v1/rooms/:id.
func (h *PublicHandler) GetRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.Rooms.GetDetail(c.Request().Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, roomDetailView(room))
}

// RoomUnavailable handles GET /v1/rooms/:id/unavailable and returns the
// date ranges the room is booked out, so clients can grey out a
// calendar. Checkout days are not included in the ranges.
func (h *PublicHandler) RoomUnavailable(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Rooms.GetDetail(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	ranges, err := h.Avail.UnavailableRanges(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"room_id": id, "unavailable": ranges})
}

// ListMealPlans handles GET /v1/meal-plans.
func (h *PublicHandler) ListMealPlans(c echo.Context) error {
	plans, err := h.MealPlans.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(plans))
	for _, m := range plans {
		out = append(out, echo.Map{"id": m.ID, "name": m.Name, "image_path": m.ImagePath})
	}
	return c.JSON(http.StatusOK, echo.Map{"meal_plans": out})
}

// ListMarketSegments handles GET /v1/market-segments.
func (h *PublicHandler) ListMarketSegments(c echo.Context) error {
	segs, err := h.Segments.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(segs))
	for _, s := range segs {
		out = append(out, echo.Map{"id": s.ID, "name": s.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"market_segments": out})
}
