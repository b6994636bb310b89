package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPGateway talks to the provider's e-payment HTTP API. The API uses
// JSON bodies, a key-prefixed Authorization header and two endpoints:
// POST {base}/epayment/initiate/ and POST {base}/epayment/lookup/.
// Transaction ids travel in the `pidx` field.
type HTTPGateway struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

// NewHTTPGateway builds a gateway client with a bounded HTTP timeout so
// a stalled provider cannot hang request handlers indefinitely.
func NewHTTPGateway(baseURL, secretKey string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		SecretKey: secretKey,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// initiateBody mirrors the provider's initiate request schema.
type initiateBody struct {
	ReturnURL         string       `json:"return_url"`
	Amount            int64        `json:"amount"`
	PurchaseOrderID   string       `json:"purchase_order_id"`
	PurchaseOrderName string       `json:"purchase_order_name"`
	CustomerInfo      customerInfo `json:"customer_info"`
}

type customerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// initiateReply mirrors the provider's initiate response schema. Detail
// carries the human-readable refusal message on non-success replies.
type initiateReply struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	Detail     string `json:"detail"`
}

// lookupReply mirrors the provider's lookup response schema.
type lookupReply struct {
	Pidx            string `json:"pidx"`
	Status          string `json:"status"`
	TotalAmount     int64  `json:"total_amount"`
	PurchaseOrderID string `json:"purchase_order_id"`
	Detail          string `json:"detail"`
}

// Initiate opens a payment with the provider. Transport failures map to
// ErrGatewayUnreachable; a non-2xx reply maps to
// ErrPaymentInitiationFailed wrapped with the provider's detail.
func (g *HTTPGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	body := initiateBody{
		ReturnURL:         req.ReturnURL,
		Amount:            req.AmountMinor,
		PurchaseOrderID:   req.PurchaseOrderID,
		PurchaseOrderName: req.PurchaseOrderName,
		CustomerInfo:      customerInfo{Name: req.CustomerName, Email: req.CustomerEmail},
	}
	var reply initiateReply
	status, err := g.post(ctx, "/epayment/initiate/", body, &reply)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}
	if status < 200 || status >= 300 || reply.Pidx == "" {
		detail := reply.Detail
		if detail == "" {
			detail = fmt.Sprintf("gateway returned HTTP %d", status)
		}
		return nil, fmt.Errorf("%w: %s", ErrPaymentInitiationFailed, detail)
	}
	return &InitiateResponse{TransactionID: reply.Pidx, PaymentURL: reply.PaymentURL}, nil
}

// Lookup queries the authoritative status of a transaction. Any failure
// to obtain a definite answer (transport error or non-2xx reply) maps
// to ErrVerificationUnavailable so the caller keeps the session and
// retries later.
func (g *HTTPGateway) Lookup(ctx context.Context, transactionID string) (*LookupResult, error) {
	var reply lookupReply
	status, err := g.post(ctx, "/epayment/lookup/", map[string]string{"pidx": transactionID}, &reply)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}
	if status < 200 || status >= 300 {
		detail := reply.Detail
		if detail == "" {
			detail = fmt.Sprintf("gateway returned HTTP %d", status)
		}
		return nil, fmt.Errorf("%w: %s", ErrVerificationUnavailable, detail)
	}
	return &LookupResult{
		Status:          reply.Status,
		AmountMinor:     reply.TotalAmount,
		ReportedOrderID: reply.PurchaseOrderID,
	}, nil
}

// post sends a JSON request to path and decodes the JSON reply into
// out. It returns the HTTP status code; out is decoded best-effort even
// on error statuses so callers can surface the provider's detail field.
func (g *HTTPGateway) post(ctx context.Context, path string, body, out interface{}) (int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+g.SecretKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, err
	}
	if len(data) > 0 {
		_ = json.Unmarshal(data, out)
	}
	return resp.StatusCode, nil
}
