// Package payment coordinates the two-phase flow against the external
// payment gateway: reserve intent at initiation, confirm or release at
// callback time. The sentinel values below form the full error taxonomy
// of that flow; handlers translate them into HTTP responses and must
// never retry the post-funds ones automatically.
package payment

import "errors"

// Initiation-time rejections. These fire before any external side
// effect and are safe to retry immediately with corrected input.
var (
	// ErrGatewayUnreachable wraps transport failures talking to the
	// gateway. The caller may retry; nothing was created.
	ErrGatewayUnreachable = errors.New("payment gateway unreachable")

	// ErrPaymentInitiationFailed is returned when the gateway answered
	// but refused to open a payment (non-success response). The
	// gateway's detail message is attached by wrapping.
	ErrPaymentInitiationFailed = errors.New("payment initiation failed")
)

// Callback-time rejections.
var (
	// ErrInvalidCallback is returned when the callback carries no
	// transaction id at all.
	ErrInvalidCallback = errors.New("callback missing transaction id")

	// ErrNoSession is returned when no pending payment session exists
	// for the customer, including redelivery of a callback whose
	// session was already consumed by a successful commit.
	ErrNoSession = errors.New("no pending payment session")

	// ErrSessionMismatch is returned when the presented transaction id
	// does not match the one stored in the pending session. The session
	// is left intact so the legitimate callback can still arrive.
	ErrSessionMismatch = errors.New("transaction id does not match pending session")

	// ErrStillProcessing is returned while the gateway reports the
	// payment as pending or initiated. The session is left intact and
	// the caller should poll verification again later.
	ErrStillProcessing = errors.New("payment still processing")

	// ErrPaymentNotCompleted is returned for terminal non-completed
	// gateway statuses (expired, canceled, refunded, ...). The session
	// is discarded; no booking is created.
	ErrPaymentNotCompleted = errors.New("payment not completed")

	// ErrVerificationUnavailable is returned when the gateway status
	// query itself failed. The session is left intact so a later retry
	// can still succeed.
	ErrVerificationUnavailable = errors.New("payment verification unavailable")
)

// Post-funds failures. Money may already have moved at the gateway when
// these fire, so they are published for manual reconciliation and must
// be surfaced to the user with a reference, never silently swallowed.
var (
	// ErrAmountMismatch is returned when the gateway-reported paid
	// amount differs from the quoted amount by more than the integer
	// minor-unit tolerance.
	ErrAmountMismatch = errors.New("paid amount does not match quoted amount")

	// ErrReferenceMismatch is returned when the gateway-reported
	// purchase order id differs from the one stored in the session.
	ErrReferenceMismatch = errors.New("purchase order reference mismatch")

	// ErrRoomNoLongerAvailable is returned when a completed payment
	// arrives but a concurrent booking consumed the room in the
	// meantime.
	ErrRoomNoLongerAvailable = errors.New("room no longer available after payment")
)
