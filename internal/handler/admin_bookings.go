package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/iliyamo/hotel-room-booking/internal/scoring"
)

// AdminBookingHandler serves the review surface: every booking with a
// cancellation-risk assessment attached, plus the raw feature vector
// for a single booking. When no model artifacts are loaded the scorer
// degrades to probability 0.0 and the endpoints keep working.
type AdminBookingHandler struct {
	Bookings *repository.BookingRepo
	Scorer   *scoring.Scorer
}

func NewAdminBookingHandler(b *repository.BookingRepo, s *scoring.Scorer) *AdminBookingHandler {
	if b == nil || s == nil {
		panic("nil dependency passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Bookings: b, Scorer: s}
}

// ListWithRisk handles GET /v1/admin/bookings. Each row carries the
// booking view plus the model's probability, label and risk bucket.
func (h *AdminBookingHandler) ListWithRisk(c echo.Context) error {
	list, err := h.Bookings.ListAllDetailed(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(list))
	for _, d := range list {
		a := h.Scorer.Assess(d.Booking, d.MealPlanName, d.RoomTypeName, d.SegmentName)
		view := bookingView(d.Booking)
		out = append(out, echo.Map{
			"booking":       view,
			"customer_name": d.CustomerName,
			"room_number":   d.RoomNumber,
			"room_type":     d.RoomTypeName,
			"meal_plan":     d.MealPlanName,
			"segment":       d.SegmentName,
			"assessment": echo.Map{
				"probability": a.Probability,
				"prediction":  a.Prediction,
				"risk_level":  a.RiskLevel,
			},
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Features handles GET /v1/admin/bookings/:id/features and exposes the
// exact feature vector the model scores, for debugging drift between
// the catalog names and the encoder classes.
func (h *AdminBookingHandler) Features(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	d, err := h.Bookings.GetDetailedByID(c.Request().Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	mealEnc, roomEnc, segEnc := h.Scorer.EncodeCategories(d.MealPlanName, d.RoomTypeName, d.SegmentName)
	features := scoring.BuildFeatures(d.Booking, mealEnc, roomEnc, segEnc)
	a := h.Scorer.Assess(d.Booking, d.MealPlanName, d.RoomTypeName, d.SegmentName)

	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":     d.ID,
		"feature_order":  scoring.FeatureColumns,
		"features":       features,
		"meal_plan":      d.MealPlanName,
		"room_type":      d.RoomTypeName,
		"market_segment": d.SegmentName,
		"assessment": echo.Map{
			"probability": a.Probability,
			"prediction":  a.Prediction,
			"risk_level":  a.RiskLevel,
		},
	})
}
