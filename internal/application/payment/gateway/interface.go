// Package gateway defines the contract against the hosted checkout payment
// gateway. The gateway owns the checkout UI and the authoritative payment
// session state; this service only correlates sessions with subscriptions.
package gateway

import "context"

type CheckoutGateway interface {
	// CreateCheckoutSession opens a hosted checkout session and returns its
	// id together with the URL the customer is redirected to.
	CreateCheckoutSession(ctx context.Context, req CreateCheckoutSessionRequest) (*CheckoutSessionResult, error)

	// GetCheckoutSession fetches the authoritative session state. Payment
	// success is decided from this, never from caller-supplied flags.
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSessionData, error)
}

type CreateCheckoutSessionRequest struct {
	CustomerEmail string
	ProductName   string
	// UnitAmount is the price in the currency's minor units (cents).
	UnitAmount int64
	Currency   string
	// Interval is the recurring billing interval, e.g. "month".
	Interval   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CheckoutSessionResult struct {
	SessionID   string
	CheckoutURL string
}

// CheckoutSessionData is the authoritative session state as reported by the
// gateway. The ref fields are empty when the gateway has not produced the
// corresponding object yet.
type CheckoutSessionData struct {
	SessionID       string
	PaymentComplete bool
	CustomerRef     string
	SubscriptionRef string
	InvoiceRef      string
}
