package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionDTO is the presentation-layer view of a subscription. The
// internal numeric id never leaves the service; callers see the
// subscription number (sub_xxx).
type SubscriptionDTO struct {
	SubscriptionID     string          `json:"subscription_id"`
	CustomerID         uint            `json:"customer_id"`
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	Price              decimal.Decimal `json:"price"`
	Currency           string          `json:"currency"`
	Status             string          `json:"status"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            *time.Time      `json:"end_date,omitempty"`
	AutoRenew          bool            `json:"auto_renew"`
	CheckoutSessionID  string          `json:"checkout_session_id,omitempty"`
	GatewayCustomerRef string          `json:"gateway_customer_ref,omitempty"`
	GatewaySubRef      string          `json:"gateway_subscription_ref,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}
