// Package billing holds the outbox for invoice-creation notifications sent
// to the billing collaborator. Delivery is best-effort: a failed delivery
// never unwinds a confirmed subscription, it only leaves the record pending
// for the dispatcher to retry.
package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendo-inc/vendo/internal/shared/id"
)

type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "pending"
	NotificationDelivered NotificationStatus = "delivered"
	NotificationFailed    NotificationStatus = "failed"
)

// InvoiceNotification is a durable record of one invoice-creation request
// owed to the billing collaborator for a confirmed subscription.
type InvoiceNotification struct {
	id                 uint
	nid                string
	subscriptionID     uint
	subscriptionSID    string
	customerID         uint
	productName        string
	price              decimal.Decimal
	currency           string
	gatewayInvoiceRef  string
	gatewayCustomerRef string
	periodStart        time.Time
	periodEnd          time.Time
	status             NotificationStatus
	attempts           int
	lastError          *string
	nextAttemptAt      time.Time
	createdAt          time.Time
	updatedAt          time.Time
}

// NewInvoiceNotification records an invoice request for a billing period of
// one month starting now.
func NewInvoiceNotification(subscriptionID uint, subscriptionSID string, customerID uint, productName string, price decimal.Decimal, currency, gatewayInvoiceRef, gatewayCustomerRef string) (*InvoiceNotification, error) {
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if subscriptionSID == "" {
		return nil, fmt.Errorf("subscription number is required")
	}
	if customerID == 0 {
		return nil, fmt.Errorf("customer ID is required")
	}

	nid, err := id.NewNotificationID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate notification ID: %w", err)
	}

	now := time.Now().UTC()
	return &InvoiceNotification{
		nid:                nid,
		subscriptionID:     subscriptionID,
		subscriptionSID:    subscriptionSID,
		customerID:         customerID,
		productName:        productName,
		price:              price,
		currency:           currency,
		gatewayInvoiceRef:  gatewayInvoiceRef,
		gatewayCustomerRef: gatewayCustomerRef,
		periodStart:        now,
		periodEnd:          now.AddDate(0, 1, 0),
		status:             NotificationPending,
		nextAttemptAt:      now,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// InvoiceNotificationReconstructParams carries stored outbox state.
type InvoiceNotificationReconstructParams struct {
	ID                 uint
	NID                string
	SubscriptionID     uint
	SubscriptionSID    string
	CustomerID         uint
	ProductName        string
	Price              decimal.Decimal
	Currency           string
	GatewayInvoiceRef  string
	GatewayCustomerRef string
	PeriodStart        time.Time
	PeriodEnd          time.Time
	Status             NotificationStatus
	Attempts           int
	LastError          *string
	NextAttemptAt      time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReconstructInvoiceNotification rebuilds a notification from persistence.
func ReconstructInvoiceNotification(p InvoiceNotificationReconstructParams) (*InvoiceNotification, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("notification ID cannot be zero")
	}
	switch p.Status {
	case NotificationPending, NotificationDelivered, NotificationFailed:
	default:
		return nil, fmt.Errorf("invalid notification status: %s", p.Status)
	}

	return &InvoiceNotification{
		id:                 p.ID,
		nid:                p.NID,
		subscriptionID:     p.SubscriptionID,
		subscriptionSID:    p.SubscriptionSID,
		customerID:         p.CustomerID,
		productName:        p.ProductName,
		price:              p.Price,
		currency:           p.Currency,
		gatewayInvoiceRef:  p.GatewayInvoiceRef,
		gatewayCustomerRef: p.GatewayCustomerRef,
		periodStart:        p.PeriodStart,
		periodEnd:          p.PeriodEnd,
		status:             p.Status,
		attempts:           p.Attempts,
		lastError:          p.LastError,
		nextAttemptAt:      p.NextAttemptAt,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
	}, nil
}

func (n *InvoiceNotification) ID() uint                   { return n.id }
func (n *InvoiceNotification) NID() string                { return n.nid }
func (n *InvoiceNotification) SubscriptionID() uint       { return n.subscriptionID }
func (n *InvoiceNotification) SubscriptionSID() string    { return n.subscriptionSID }
func (n *InvoiceNotification) CustomerID() uint           { return n.customerID }
func (n *InvoiceNotification) ProductName() string        { return n.productName }
func (n *InvoiceNotification) Price() decimal.Decimal     { return n.price }
func (n *InvoiceNotification) Currency() string           { return n.currency }
func (n *InvoiceNotification) GatewayInvoiceRef() string  { return n.gatewayInvoiceRef }
func (n *InvoiceNotification) GatewayCustomerRef() string { return n.gatewayCustomerRef }
func (n *InvoiceNotification) PeriodStart() time.Time     { return n.periodStart }
func (n *InvoiceNotification) PeriodEnd() time.Time       { return n.periodEnd }
func (n *InvoiceNotification) Status() NotificationStatus { return n.status }
func (n *InvoiceNotification) Attempts() int              { return n.attempts }
func (n *InvoiceNotification) LastError() *string         { return n.lastError }
func (n *InvoiceNotification) NextAttemptAt() time.Time   { return n.nextAttemptAt }
func (n *InvoiceNotification) CreatedAt() time.Time       { return n.createdAt }
func (n *InvoiceNotification) UpdatedAt() time.Time       { return n.updatedAt }

// SetID sets the notification ID (only for persistence layer use)
func (n *InvoiceNotification) SetID(id uint) error {
	if n.id != 0 {
		return fmt.Errorf("notification ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("notification ID cannot be zero")
	}
	n.id = id
	return nil
}

// MarkDelivered records a successful delivery to the billing collaborator.
func (n *InvoiceNotification) MarkDelivered() {
	n.status = NotificationDelivered
	n.attempts++
	n.lastError = nil
	n.updatedAt = time.Now().UTC()
}

// MarkAttemptFailed records a failed delivery attempt. The record stays
// pending until maxAttempts is reached, with exponentially growing delays
// between attempts; after that it is parked as failed for manual review.
func (n *InvoiceNotification) MarkAttemptFailed(deliveryErr string, maxAttempts int) {
	now := time.Now().UTC()
	n.attempts++
	n.lastError = &deliveryErr
	n.updatedAt = now

	if n.attempts >= maxAttempts {
		n.status = NotificationFailed
		return
	}

	backoff := time.Duration(1<<uint(n.attempts)) * time.Minute
	if backoff > time.Hour {
		backoff = time.Hour
	}
	n.nextAttemptAt = now.Add(backoff)
}
