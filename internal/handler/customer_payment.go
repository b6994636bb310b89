package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/booking"
	"github.com/iliyamo/hotel-room-booking/internal/payment"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
)

// PaymentHandler exposes the gateway-backed booking flow: initiate a
// payment for a pending stay, confirm it on the gateway's callback and
// abandon it. The state machine itself lives in the payment package;
// this layer binds requests and translates coordinator errors into
// HTTP responses.
type PaymentHandler struct {
	Coordinator *payment.Coordinator
	Users       *repository.UserRepo
	Customer    *CustomerHandler // payload validation shared with direct bookings
}

func NewPaymentHandler(co *payment.Coordinator, users *repository.UserRepo, customer *CustomerHandler) *PaymentHandler {
	if co == nil || users == nil || customer == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Coordinator: co, Users: users, Customer: customer}
}

// Initiate handles POST /v1/payments/initiate. On success the client
// receives the gateway redirect URL and the transaction id; the stay
// payload waits in the pending session until the callback arrives.
func (h *PaymentHandler) Initiate(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	b, room, err := h.Customer.buildBooking(ctx, customerID, req)
	if err != nil {
		return respondBuildError(c, err)
	}

	u, err := h.Users.GetByID(ctx, customerID)
	if err != nil && err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	poName := room.RoomTypeName + " " + room.RoomNumber
	resp, err := h.Coordinator.Initiate(ctx, b, poName, u.FullName, u.Email)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidDate), errors.Is(err, booking.ErrInvalidStay):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stay"})
		case errors.Is(err, booking.ErrRoomUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room is not available for the selected dates"})
		case errors.Is(err, payment.ErrGatewayUnreachable):
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway unreachable"})
		case errors.Is(err, payment.ErrPaymentInitiationFailed):
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment initiation failed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment initiation failed"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payment_url":    resp.PaymentURL,
		"transaction_id": resp.TransactionID,
	})
}

// Callback handles GET /v1/payments/callback?pidx=... after the
// customer returns from the gateway. Completed payments commit the
// pending booking exactly once; a redelivered callback finds no
// session and gets 404.
func (h *PaymentHandler) Callback(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	pidx := strings.TrimSpace(c.QueryParam("pidx"))

	bookingID, err := h.Coordinator.Verify(c.Request().Context(), customerID, pidx)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidCallback):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "pidx is required"})
		case errors.Is(err, payment.ErrNoSession):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no pending payment found"})
		case errors.Is(err, payment.ErrSessionMismatch):
			return c.JSON(http.StatusConflict, echo.Map{"error": "callback does not match the pending payment"})
		case errors.Is(err, payment.ErrStillProcessing):
			return c.JSON(http.StatusAccepted, echo.Map{"status": "processing", "message": "payment is still processing, retry shortly"})
		case errors.Is(err, payment.ErrPaymentNotCompleted):
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment was not completed"})
		case errors.Is(err, payment.ErrVerificationUnavailable):
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "could not verify payment, retry shortly"})
		case errors.Is(err, payment.ErrAmountMismatch):
			return c.JSON(http.StatusConflict, echo.Map{"error": "paid amount does not match the quote; flagged for reconciliation", "reference": pidx})
		case errors.Is(err, payment.ErrReferenceMismatch):
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment reference mismatch; flagged for reconciliation", "reference": pidx})
		case errors.Is(err, payment.ErrRoomNoLongerAvailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room was booked while the payment was in flight; flagged for refund", "reference": pidx})
		case errors.Is(err, booking.ErrInvalidStay):
			return c.JSON(http.StatusConflict, echo.Map{"error": "pending stay is no longer valid", "reference": pidx})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not finalize booking, retry the callback"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": bookingID,
		"status":     "confirmed",
	})
}

// CancelPending handles POST /v1/payments/cancel and discards the
// caller's pending payment session, if any.
func (h *PaymentHandler) CancelPending(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Coordinator.Cancel(c.Request().Context(), customerID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
