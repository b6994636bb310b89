package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-room-booking/internal/booking"
	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
)

// Committer finalizes a booking in one all-or-nothing transaction and
// returns the new booking id. It must return booking.ErrRoomUnavailable
// when a concurrent booking consumed the slot; any other error means
// nothing was written. Implemented by repository.BookingRepo.
type Committer interface {
	Create(ctx context.Context, b *model.Booking) (uint64, error)
}

// EventPublisher pushes domain events to the message broker. Publish
// failures are logged and ignored; losing an event must never fail the
// customer-facing flow.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
	PublishReconciliation(ctx context.Context, ev queue.PaymentReconciliationEvent) error
}

// Coordinator drives one payment attempt through its state machine:
//
//	Initiate -> (gateway processing) -> Verify -> committed | discarded
//	                                 -> Cancel -> discarded
//
// A pending session is consumed exactly once. Availability is checked
// at initiation AND again at verification, because an unbounded
// real-world delay separates the two; the final overlap check inside
// the commit transaction closes the residual race.
type Coordinator struct {
	Sessions  SessionStore
	Gateway   Gateway
	Avail     *booking.Checker
	Bookings  Committer
	Publisher EventPublisher // optional
	ReturnURL string
}

// NewCoordinator wires a coordinator. Publisher may be nil, in which
// case events are simply not emitted.
func NewCoordinator(sessions SessionStore, gw Gateway, avail *booking.Checker, committer Committer, pub EventPublisher, returnURL string) *Coordinator {
	if sessions == nil || gw == nil || avail == nil || committer == nil {
		panic("nil dependency passed to NewCoordinator")
	}
	return &Coordinator{
		Sessions:  sessions,
		Gateway:   gw,
		Avail:     avail,
		Bookings:  committer,
		Publisher: pub,
		ReturnURL: returnURL,
	}
}

// newPurchaseOrderID builds an id that is unique per attempt: customer
// id, a high-resolution timestamp and a short random suffix.
func newPurchaseOrderID(customerID uint64) string {
	return fmt.Sprintf("PO-%d-%d-%s", customerID, time.Now().UTC().UnixNano(), uuid.NewString()[:8])
}

// Initiate validates the candidate stay, quotes the amount, opens a
// payment at the gateway and stashes the pending session. The payload's
// AvgPricePerRoom is the nightly price; the quote is price × nights in
// minor units. No booking row is written here.
func (co *Coordinator) Initiate(ctx context.Context, payload model.Booking, poName, customerName, customerEmail string) (*InitiateResponse, error) {
	checkIn, checkOut, nights, err := booking.StayFromBooking(payload).Window()
	if err != nil {
		return nil, err
	}
	if nights <= 0 {
		return nil, booking.ErrInvalidStay
	}
	ok, err := co.Avail.IsAvailable(ctx, payload.RoomID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, booking.ErrRoomUnavailable
	}

	amount := MinorUnits(payload.AvgPricePerRoom * float64(nights))
	poID := newPurchaseOrderID(payload.CustomerID)
	resp, err := co.Gateway.Initiate(ctx, InitiateRequest{
		AmountMinor:       amount,
		PurchaseOrderID:   poID,
		PurchaseOrderName: poName,
		ReturnURL:         co.ReturnURL,
		CustomerName:      customerName,
		CustomerEmail:     customerEmail,
	})
	if err != nil {
		return nil, err
	}

	sess := &PendingSession{
		CustomerID:      payload.CustomerID,
		Payload:         payload,
		AmountMinor:     amount,
		TransactionID:   resp.TransactionID,
		PurchaseOrderID: poID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := co.Sessions.Put(ctx, sess); err != nil {
		// The gateway already opened a payment we can no longer match.
		// Surface it for manual reconciliation rather than losing it.
		co.flag(ctx, sess, "session_store_failed", 0, "")
		return nil, err
	}
	return resp, nil
}

// Verify handles the gateway callback for the customer's pending
// session. On a verified completed payment it commits the booking,
// clears the session and returns the new booking id. The session
// survives ErrSessionMismatch, ErrStillProcessing,
// ErrVerificationUnavailable and commit persistence failures; every
// other outcome consumes it.
func (co *Coordinator) Verify(ctx context.Context, customerID uint64, transactionID string) (uint64, error) {
	if transactionID == "" {
		return 0, ErrInvalidCallback
	}
	sess, err := co.Sessions.Get(ctx, customerID)
	if err != nil {
		return 0, err
	}
	if sess.TransactionID != transactionID {
		// Cross-session replay or a stale redirect; keep the session so
		// the legitimate callback can still arrive.
		return 0, ErrSessionMismatch
	}

	res, err := co.Gateway.Lookup(ctx, transactionID)
	if err != nil {
		if errors.Is(err, ErrVerificationUnavailable) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}

	status := NormalizeStatus(res.Status)
	if IsProcessing(status) {
		return 0, ErrStillProcessing
	}
	if status != StatusCompleted {
		_ = co.Sessions.Delete(ctx, customerID)
		return 0, fmt.Errorf("%w: status %q", ErrPaymentNotCompleted, res.Status)
	}

	// Money has moved. Everything from here on is either a commit or a
	// manual-reconciliation case.
	checkIn, checkOut, nights, werr := booking.StayFromBooking(sess.Payload).Window()
	if werr != nil || nights <= 0 {
		_ = co.Sessions.Delete(ctx, customerID)
		co.flag(ctx, sess, "invalid_stay", res.AmountMinor, res.Status)
		return 0, booking.ErrInvalidStay
	}
	ok, err := co.Avail.IsAvailable(ctx, sess.Payload.RoomID, checkIn, checkOut)
	if err != nil {
		// Transient store failure: keep the session, let the caller retry.
		return 0, fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}
	if !ok {
		_ = co.Sessions.Delete(ctx, customerID)
		co.flag(ctx, sess, "room_unavailable", res.AmountMinor, res.Status)
		return 0, ErrRoomNoLongerAvailable
	}
	if res.ReportedOrderID != "" && sess.PurchaseOrderID != "" && res.ReportedOrderID != sess.PurchaseOrderID {
		_ = co.Sessions.Delete(ctx, customerID)
		co.flag(ctx, sess, "reference_mismatch", res.AmountMinor, res.Status)
		return 0, ErrReferenceMismatch
	}
	if !amountMatches(sess.AmountMinor, res.AmountMinor) {
		_ = co.Sessions.Delete(ctx, customerID)
		co.flag(ctx, sess, "amount_mismatch", res.AmountMinor, res.Status)
		return 0, ErrAmountMismatch
	}

	payload := sess.Payload
	bookingID, err := co.Bookings.Create(ctx, &payload)
	if err != nil {
		if errors.Is(err, booking.ErrRoomUnavailable) {
			// Lost the commit-time race after a completed payment.
			_ = co.Sessions.Delete(ctx, customerID)
			co.flag(ctx, sess, "room_unavailable", res.AmountMinor, res.Status)
			return 0, ErrRoomNoLongerAvailable
		}
		// Persistence failure: the transaction rolled back and the
		// session stays intact so a retry can still commit.
		return 0, err
	}

	// Clear before reporting success so a redelivered callback can never
	// commit twice; it will see ErrNoSession instead.
	if err := co.Sessions.Delete(ctx, customerID); err != nil {
		log.Printf("payment: clearing session after commit failed: %v", err)
	}

	if co.Publisher != nil {
		ev := queue.BookingConfirmedEvent{
			BookingID:       bookingID,
			CustomerID:      payload.CustomerID,
			RoomID:          payload.RoomID,
			CheckIn:         checkIn.Format("2006-01-02"),
			CheckOut:        checkOut.Format("2006-01-02"),
			Nights:          nights,
			Guests:          payload.Guests(),
			AmountMinor:     sess.AmountMinor,
			PaymentRef:      sess.TransactionID,
			PurchaseOrderID: sess.PurchaseOrderID,
			ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		if err := co.Publisher.PublishBookingConfirmed(ctx, ev); err != nil {
			log.Printf("payment: publish booking.confirmed failed: %v", err)
		}
	}
	return bookingID, nil
}

// Cancel discards the customer's pending session unconditionally. No
// refund logic lives here; money is never captured before verification
// in this flow.
func (co *Coordinator) Cancel(ctx context.Context, customerID uint64) error {
	return co.Sessions.Delete(ctx, customerID)
}

// flag emits a reconciliation event for a post-funds failure. Losing
// the event is logged but never surfaced to the customer path.
func (co *Coordinator) flag(ctx context.Context, sess *PendingSession, reason string, reportedMinor int64, gatewayStatus string) {
	if co.Publisher == nil {
		return
	}
	ev := queue.PaymentReconciliationEvent{
		TransactionID:   sess.TransactionID,
		PurchaseOrderID: sess.PurchaseOrderID,
		CustomerID:      sess.CustomerID,
		RoomID:          sess.Payload.RoomID,
		Reason:          reason,
		QuotedMinor:     sess.AmountMinor,
		ReportedMinor:   reportedMinor,
		GatewayStatus:   gatewayStatus,
		FlaggedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := co.Publisher.PublishReconciliation(ctx, ev); err != nil {
		log.Printf("payment: publish reconciliation event failed: %v", err)
	}
}
