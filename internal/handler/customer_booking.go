package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/booking"
	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/payment"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
)

// CustomerHandler groups the dependencies for booking endpoints. JWT
// authentication and role validation have already happened in
// middleware; methods return 401 only when the user ID cannot be
// extracted from the context.
type CustomerHandler struct {
	Bookings  *repository.BookingRepo
	Rooms     *repository.RoomRepo
	MealPlans *repository.MealPlanRepo
	Segments  *repository.MarketSegmentRepo
	Avail     *booking.Checker
	Publisher payment.EventPublisher // optional, nil disables events
}

// NewCustomerHandler constructs a CustomerHandler. All repositories
// must be non-nil; the publisher may be nil.
func NewCustomerHandler(b *repository.BookingRepo, r *repository.RoomRepo, m *repository.MealPlanRepo, s *repository.MarketSegmentRepo, avail *booking.Checker, pub payment.EventPublisher) *CustomerHandler {
	if b == nil || r == nil || m == nil || s == nil || avail == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Bookings: b, Rooms: r, MealPlans: m, Segments: s, Avail: avail, Publisher: pub}
}

// bookingReq is the stay payload shared by direct bookings and payment
// initiation. Lead time and history counters are computed server-side
// and ignored if a client tries to send them.
type bookingReq struct {
	RoomID          uint64 `json:"room_id"`
	MealPlanID      uint64 `json:"meal_plan_id"`
	MarketSegmentID uint64 `json:"market_segment_id"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	WeekendNights   int    `json:"weekend_nights"`
	WeekNights      int    `json:"week_nights"`
	ArrivalYear     int    `json:"arrival_year"`
	ArrivalMonth    int    `json:"arrival_month"`
	ArrivalDay      int    `json:"arrival_day"`
	CarParking      bool   `json:"car_parking"`
	SpecialRequests int    `json:"special_requests"`
}

// buildBooking validates the payload against the catalog, fills in the
// room's nightly rate and the customer's history counters, and returns
// a booking ready for availability checks and persistence. The window
// itself is validated by the caller through the booking package.
func (h *CustomerHandler) buildBooking(ctx context.Context, customerID uint64, req bookingReq) (model.Booking, repository.RoomDetail, error) {
	if req.Adults <= 0 {
		return model.Booking{}, repository.RoomDetail{}, errBadRequest("at least one adult is required")
	}
	if req.Children < 0 || req.WeekendNights < 0 || req.WeekNights < 0 || req.SpecialRequests < 0 {
		return model.Booking{}, repository.RoomDetail{}, errBadRequest("negative counts are not allowed")
	}

	room, err := h.Rooms.GetDetail(ctx, req.RoomID)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Booking{}, repository.RoomDetail{}, errNotFound("room not found")
		}
		return model.Booking{}, repository.RoomDetail{}, err
	}
	if _, err := h.MealPlans.GetByID(ctx, req.MealPlanID); err != nil {
		if err == sql.ErrNoRows {
			return model.Booking{}, repository.RoomDetail{}, errBadRequest("unknown meal plan")
		}
		return model.Booking{}, repository.RoomDetail{}, err
	}
	if _, err := h.Segments.GetByID(ctx, req.MarketSegmentID); err != nil {
		if err == sql.ErrNoRows {
			return model.Booking{}, repository.RoomDetail{}, errBadRequest("unknown market segment")
		}
		return model.Booking{}, repository.RoomDetail{}, err
	}

	repeated, prevCanceled, prevKept, err := h.Bookings.HistoryForCustomer(ctx, customerID)
	if err != nil {
		return model.Booking{}, repository.RoomDetail{}, err
	}

	parking := 0
	if req.CarParking {
		parking = 1
	}
	b := model.Booking{
		CustomerID:      customerID,
		RoomID:          req.RoomID,
		MealPlanID:      req.MealPlanID,
		MarketSegmentID: req.MarketSegmentID,
		Adults:          req.Adults,
		Children:        req.Children,
		WeekendNights:   req.WeekendNights,
		WeekNights:      req.WeekNights,
		ArrivalYear:     req.ArrivalYear,
		ArrivalMonth:    req.ArrivalMonth,
		ArrivalDay:      req.ArrivalDay,
		CarParking:      parking,
		RepeatedGuest:   repeated,
		PrevCanceled:    prevCanceled,
		PrevNotCanceled: prevKept,
		AvgPricePerRoom: room.PricePerNight,
		SpecialRequests: req.SpecialRequests,
	}

	// Lead time is days from today to arrival, floored at zero for
	// same-day and past-dated stays.
	if checkIn, _, _, werr := booking.StayFromBooking(b).Window(); werr == nil {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if days := int(checkIn.Sub(today).Hours() / 24); days > 0 {
			b.LeadTime = days
		}
	}
	return b, room, nil
}

// CreateBooking handles POST /v1/bookings: a pay-at-reception booking
// committed directly, without a gateway round trip.
func (h *CustomerHandler) CreateBooking(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	b, _, err := h.buildBooking(ctx, customerID, req)
	if err != nil {
		return respondBuildError(c, err)
	}

	checkIn, checkOut, nights, err := booking.StayFromBooking(b).Window()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrival date"})
	}
	if nights <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stay must be at least one night"})
	}

	ok, err := h.Avail.IsAvailable(ctx, b.RoomID, checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is not available for the selected dates"})
	}

	id, err := h.Bookings.Create(ctx, &b)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrRoomUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room is not available for the selected dates"})
		case errors.Is(err, booking.ErrInvalidDate), errors.Is(err, booking.ErrInvalidStay):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stay"})
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
		}
	}

	if h.Publisher != nil {
		ev := queue.BookingConfirmedEvent{
			BookingID:   id,
			CustomerID:  customerID,
			RoomID:      b.RoomID,
			CheckIn:     checkIn.Format("2006-01-02"),
			CheckOut:    checkOut.Format("2006-01-02"),
			Nights:      nights,
			Guests:      b.Adults + b.Children,
			AmountMinor: payment.MinorUnits(b.AvgPricePerRoom * float64(nights)),
			ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if perr := h.Publisher.PublishBookingConfirmed(ctx, ev); perr != nil {
			log.Printf("booking: publish confirmed event failed: %v", perr)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": id,
		"status":     model.StatusNotCanceled,
		"check_in":   checkIn.Format("2006-01-02"),
		"check_out":  checkOut.Format("2006-01-02"),
		"nights":     nights,
	})
}

// MyBookings handles GET /v1/my-bookings.
func (h *CustomerHandler) MyBookings(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Bookings.ListByCustomer(c.Request().Context(), customerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookingViews(list)})
}

// GetBooking handles GET /v1/bookings/:id, scoped to the caller.
func (h *CustomerHandler) GetBooking(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetByIDForCustomer(c.Request().Context(), id, customerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bookingView(b))
}

// CancelBooking handles POST /v1/bookings/:id/cancel. Canceling an
// already-canceled booking succeeds without changes.
func (h *CustomerHandler) CancelBooking(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Bookings.Cancel(c.Request().Context(), id, customerID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "status": model.StatusCanceled})
}

// ----- views -----

// bookingStayView is the JSON shape for a stored booking. Dates come
// from the derived window; rows whose stored triple no longer parses
// fall back to zeroed date strings rather than erroring a whole list.
type bookingStayView struct {
	ID              uint64  `json:"id"`
	RoomID          uint64  `json:"room_id"`
	Status          string  `json:"status"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Nights          int     `json:"nights"`
	Guests          int     `json:"guests"`
	Adults          int     `json:"adults"`
	Children        int     `json:"children"`
	AvgPricePerRoom float64 `json:"avg_price_per_room"`
	SpecialRequests int     `json:"special_requests"`
	CreatedAt       string  `json:"created_at"`
}

func bookingView(b model.Booking) bookingStayView {
	v := bookingStayView{
		ID:              b.ID,
		RoomID:          b.RoomID,
		Status:          b.Status,
		Nights:          b.Nights(),
		Guests:          b.Guests(),
		Adults:          b.Adults,
		Children:        b.Children,
		AvgPricePerRoom: b.AvgPricePerRoom,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if in, out, _, err := booking.StayFromBooking(b).Window(); err == nil {
		v.CheckIn = in.Format("2006-01-02")
		v.CheckOut = out.Format("2006-01-02")
	}
	return v
}

type bookingDetailView struct {
	bookingStayView
	RoomNumber   string `json:"room_number"`
	RoomTypeName string `json:"room_type_name"`
	MealPlanName string `json:"meal_plan_name"`
	SegmentName  string `json:"segment_name"`
}

func bookingViews(list []repository.BookingDetail) []bookingDetailView {
	out := make([]bookingDetailView, 0, len(list))
	for _, d := range list {
		out = append(out, bookingDetailView{
			bookingStayView: bookingView(d.Booking),
			RoomNumber:      d.RoomNumber,
			RoomTypeName:    d.RoomTypeName,
			MealPlanName:    d.MealPlanName,
			SegmentName:     d.SegmentName,
		})
	}
	return out
}

// ----- request-shape errors -----

type httpError struct {
	code int
	msg  string
}

func (e httpError) Error() string { return e.msg }

func errBadRequest(msg string) error { return httpError{code: http.StatusBadRequest, msg: msg} }
func errNotFound(msg string) error   { return httpError{code: http.StatusNotFound, msg: msg} }

func respondBuildError(c echo.Context, err error) error {
	var he httpError
	if errors.As(err, &he) {
		return c.JSON(he.code, echo.Map{"error": he.msg})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
