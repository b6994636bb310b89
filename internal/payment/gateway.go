package payment

import (
	"context"
	"math"
	"strings"
)

// Gateway transaction statuses as reported by the lookup endpoint,
// normalized to lower_snake form. Completed is the only status that
// leads to a booking commit; the processing statuses keep the pending
// session alive; everything else discards it.
const (
	StatusCompleted     = "completed"
	StatusPending       = "pending"
	StatusInitiated     = "initiated"
	StatusUserInitiated = "user_initiated"
)

// NormalizeStatus folds a gateway-reported status string ("User initiated",
// "COMPLETED") into the canonical lower_snake form used for comparisons.
func NormalizeStatus(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// IsProcessing reports whether a normalized status means the payment is
// still in flight and the session must be kept for a later retry.
func IsProcessing(status string) bool {
	switch status {
	case StatusPending, StatusInitiated, StatusUserInitiated:
		return true
	}
	return false
}

// InitiateRequest is the payload sent to the gateway to open a payment.
// All amounts crossing this boundary are integers in the smallest
// currency unit.
type InitiateRequest struct {
	AmountMinor       int64  // quoted amount in minor units
	PurchaseOrderID   string // locally generated, unique per attempt
	PurchaseOrderName string // human-readable label (room number etc.)
	ReturnURL         string // where the gateway redirects the customer
	CustomerName      string
	CustomerEmail     string
}

// InitiateResponse carries the gateway's transaction identifier and the
// URL the customer must be redirected to in order to pay.
type InitiateResponse struct {
	TransactionID string `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
}

// LookupResult is the authoritative view of a transaction as reported
// by the gateway. ReportedOrderID may be empty when the gateway does
// not echo the purchase order back; the reference check is skipped in
// that case.
type LookupResult struct {
	Status          string // raw status as reported
	AmountMinor     int64  // amount the gateway says was paid
	ReportedOrderID string // purchase order id echoed by the gateway
}

// Gateway is the boundary to the external payment provider. Initiate
// opens a payment and Lookup queries its authoritative status. Both
// calls are synchronous and blocking.
type Gateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)
	Lookup(ctx context.Context, transactionID string) (*LookupResult, error)
}

// MinorUnits converts a major-unit decimal amount into minor units by
// multiplying by 100 and truncating, per the gateway's convention.
func MinorUnits(amount float64) int64 {
	return int64(math.Trunc(amount * 100))
}

// amountTolerance is the integer minor-unit slack allowed between the
// quoted and the gateway-reported amount before the verification is
// flagged as a mismatch.
const amountTolerance = 1

// amountMatches reports whether the reported amount equals the quoted
// amount within amountTolerance.
func amountMatches(quoted, reported int64) bool {
	diff := quoted - reported
	if diff < 0 {
		diff = -diff
	}
	return diff <= amountTolerance
}
