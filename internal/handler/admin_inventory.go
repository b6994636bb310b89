package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/iliyamo/hotel-room-booking/internal/utils"
)

// AdminHandler bundles the repositories admins use to manage inventory
// and review bookings. Role enforcement happens in middleware.
type AdminHandler struct {
	RoomTypes *repository.RoomTypeRepo
	Rooms     *repository.RoomRepo
	MealPlans *repository.MealPlanRepo
	Segments  *repository.MarketSegmentRepo
	Bookings  *repository.BookingRepo
	Users     *repository.UserRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(rt *repository.RoomTypeRepo, r *repository.RoomRepo, m *repository.MealPlanRepo, s *repository.MarketSegmentRepo, b *repository.BookingRepo, u *repository.UserRepo) *AdminHandler {
	if rt == nil || r == nil || m == nil || s == nil || b == nil || u == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{RoomTypes: rt, Rooms: r, MealPlans: m, Segments: s, Bookings: b, Users: u}
}

// ----- room types -----

// CreateRoomType handles POST /v1/admin/room-types.
func (h *AdminHandler) CreateRoomType(c echo.Context) error {
	var body struct {
		Name          string  `json:"name"`
		Description   string  `json:"description"`
		PricePerNight float64 `json:"price_per_night"`
		ImagePath     string  `json:"image_path"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.PricePerNight <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_night must be positive"})
	}
	t := model.RoomType{Name: body.Name, Description: body.Description, PricePerNight: body.PricePerNight, ImagePath: body.ImagePath}
	id, err := h.RoomTypes.Create(c.Request().Context(), &t)
	if err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room type name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room type failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": t.Name})
}

// ListRoomTypes handles GET /v1/admin/room-types.
func (h *AdminHandler) ListRoomTypes(c echo.Context) error {
	types, err := h.RoomTypes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(types))
	for _, t := range types {
		out = append(out, echo.Map{
			"id":              t.ID,
			"name":            t.Name,
			"description":     t.Description,
			"price_per_night": t.PricePerNight,
			"image_path":      t.ImagePath,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"room_types": out})
}

// DeleteRoomType handles DELETE /v1/admin/room-types/:id. A type that
// still has rooms cannot be removed.
func (h *AdminHandler) DeleteRoomType(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room type id"})
	}
	if err := h.RoomTypes.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "room type still has rooms"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- rooms -----

// CreateRoom handles POST /v1/admin/rooms. Omitting price_per_night
// (or sending zero) inherits the room type's base price.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var body struct {
		RoomNumber    string  `json:"room_number"`
		RoomTypeID    uint64  `json:"room_type_id"`
		PricePerNight float64 `json:"price_per_night"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.RoomNumber = strings.TrimSpace(body.RoomNumber)
	if body.RoomNumber == "" || body.RoomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number and room_type_id are required"})
	}
	room := model.Room{RoomNumber: body.RoomNumber, RoomTypeID: body.RoomTypeID, PricePerNight: body.PricePerNight}
	id, err := h.Rooms.Create(c.Request().Context(), &room)
	if err != nil {
		switch err {
		case repository.ErrRoomTypeNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown room type"})
		case repository.ErrRoomNumberExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":              id,
		"room_number":     room.RoomNumber,
		"price_per_night": room.PricePerNight,
	})
}

// ListRooms handles GET /v1/admin/rooms.
func (h *AdminHandler) ListRooms(c echo.Context) error {
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

// DeleteRoom handles DELETE /v1/admin/rooms/:id. Existing bookings keep
// referencing the deleted room and render with a placeholder name.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- meal plans -----

// CreateMealPlan handles POST /v1/admin/meal-plans. Names should match
// the scorer's encoder classes for risk assessments to pick them up.
func (h *AdminHandler) CreateMealPlan(c echo.Context) error {
	var body struct {
		Name      string `json:"name"`
		ImagePath string `json:"image_path"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	m := model.MealPlan{Name: body.Name, ImagePath: body.ImagePath}
	id, err := h.MealPlans.Create(c.Request().Context(), &m)
	if err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "meal plan name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create meal plan failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": m.Name})
}

// ListMealPlans handles GET /v1/admin/meal-plans.
func (h *AdminHandler) ListMealPlans(c echo.Context) error {
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

// DeleteMealPlan handles DELETE /v1/admin/meal-plans/:id.
func (h *AdminHandler) DeleteMealPlan(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid meal plan id"})
	}
	if err := h.MealPlans.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "meal plan not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "meal plan is referenced by bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- market segments -----

// CreateMarketSegment handles POST /v1/admin/market-segments.
func (h *AdminHandler) CreateMarketSegment(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	s := model.MarketSegment{Name: body.Name}
	id, err := h.Segments.Create(c.Request().Context(), &s)
	if err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "market segment name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create market segment failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": s.Name})
}

// ListMarketSegments handles GET /v1/admin/market-segments.
func (h *AdminHandler) ListMarketSegments(c echo.Context) error {
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

// ----- dashboard -----

// Dashboard handles GET /v1/admin/dashboard with headline counts and
// the most recent bookings.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	bookings, err := h.Bookings.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	rooms, err := h.Rooms.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	customers, err := h.Users.CountByRole(ctx, utils.RoleCustomer)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	recent, err := h.Bookings.RecentDetailed(ctx, 5)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_bookings":  bookings,
		"total_rooms":     rooms,
		"total_customers": customers,
		"recent_bookings": bookingViews(recent),
	})
}
