// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names. Both are declared durable by publisher and consumer.
const (
	BookingConfirmedQueue = "booking.confirmed"
	ReconciliationQueue   = "payment.reconciliation"
)

// BookingConfirmedEvent is published when a booking is successfully
// committed, whether paid at the gateway or payable at reception. It
// contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	CustomerID      uint64 `json:"customer_id"`
	RoomID          uint64 `json:"room_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Nights          int    `json:"nights"`
	Guests          int    `json:"guests"`
	AmountMinor     int64  `json:"amount_minor"`
	PaymentRef      string `json:"payment_ref,omitempty"`
	PurchaseOrderID string `json:"purchase_order_id,omitempty"`
	ConfirmedAt     string `json:"confirmed_at"`
}

// PaymentReconciliationEvent is published when a payment verification
// fails AFTER funds may have moved at the gateway: amount mismatch,
// purchase order reference mismatch, or the room being consumed by a
// concurrent booking between initiation and confirmation. These cases
// need a human to reconcile against the gateway ledger, so the event
// carries the full context of the attempt.
type PaymentReconciliationEvent struct {
	TransactionID   string `json:"transaction_id"`
	PurchaseOrderID string `json:"purchase_order_id"`
	CustomerID      uint64 `json:"customer_id"`
	RoomID          uint64 `json:"room_id"`
	Reason          string `json:"reason"` // amount_mismatch | reference_mismatch | room_unavailable
	QuotedMinor     int64  `json:"quoted_minor"`
	ReportedMinor   int64  `json:"reported_minor"`
	GatewayStatus   string `json:"gateway_status"`
	FlaggedAt       string `json:"flagged_at"`
}
