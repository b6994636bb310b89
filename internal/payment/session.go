package payment

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// PendingSession is the ephemeral state stashed between payment
// initiation and the verified callback. It is scoped to one customer,
// holds the not-yet-committed booking payload and the quoted amount,
// and is consumed exactly once: promoted to a committed booking on a
// verified completed callback, or discarded on cancel/mismatch. It is
// never persisted to the booking store.
type PendingSession struct {
	CustomerID      uint64        `json:"customer_id"`
	Payload         model.Booking `json:"payload"`
	AmountMinor     int64         `json:"amount_minor"`
	TransactionID   string        `json:"transaction_id"`
	PurchaseOrderID string        `json:"purchase_order_id"`
	CreatedAt       time.Time     `json:"created_at"`
}

// SessionStore keeps at most one pending session per customer. Put
// replaces any existing session (a new initiation supersedes an
// abandoned one). Implementations must expire entries so abandoned
// sessions do not linger forever, and Get must return ErrNoSession for
// missing or expired entries.
type SessionStore interface {
	Get(ctx context.Context, customerID uint64) (*PendingSession, error)
	Put(ctx context.Context, s *PendingSession) error
	Delete(ctx context.Context, customerID uint64) error
}
