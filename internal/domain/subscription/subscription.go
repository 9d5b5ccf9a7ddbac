package subscription

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/vendo-inc/vendo/internal/domain/subscription/valueobjects"
	"github.com/vendo-inc/vendo/internal/shared/id"
)

// Subscription represents the subscription aggregate root. All status
// changes go through the guarded transition methods; the persistence layer
// reconstructs instances via ReconstructSubscriptionWithParams.
type Subscription struct {
	id                   uint
	sid                  string
	customerID           uint
	productID            string
	productName          string
	price                decimal.Decimal
	currency             string
	status               vo.SubscriptionStatus
	startDate            time.Time
	endDate              *time.Time
	autoRenew            bool
	checkoutSessionID    string
	gatewayCustomerRef   string
	gatewaySubscription  string
	cancelReason         *string
	metadata             map[string]string
	version              int
	createdAt            time.Time
	updatedAt            time.Time
}

// NewSubscription creates a new pending subscription for a customer/product
// pair. The subscription number (sid) is generated here and never changes.
func NewSubscription(customerID uint, productID, productName string, price decimal.Decimal, currency string, autoRenew bool) (*Subscription, error) {
	if customerID == 0 {
		return nil, fmt.Errorf("customer ID is required")
	}
	if productID == "" {
		return nil, fmt.Errorf("product ID is required")
	}
	if productName == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if currency == "" {
		return nil, fmt.Errorf("currency is required")
	}

	sid, err := id.NewSubscriptionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription number: %w", err)
	}

	now := time.Now().UTC()
	return &Subscription{
		sid:         sid,
		customerID:  customerID,
		productID:   productID,
		productName: productName,
		price:       price,
		currency:    currency,
		status:      vo.StatusPending,
		startDate:   now,
		autoRenew:   autoRenew,
		metadata:    make(map[string]string),
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// SubscriptionReconstructParams carries the stored state of a subscription.
type SubscriptionReconstructParams struct {
	ID                  uint
	SID                 string
	CustomerID          uint
	ProductID           string
	ProductName         string
	Price               decimal.Decimal
	Currency            string
	Status              vo.SubscriptionStatus
	StartDate           time.Time
	EndDate             *time.Time
	AutoRenew           bool
	CheckoutSessionID   string
	GatewayCustomerRef  string
	GatewaySubscription string
	CancelReason        *string
	Metadata            map[string]string
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReconstructSubscriptionWithParams rebuilds a subscription from persistence.
func ReconstructSubscriptionWithParams(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.SID == "" {
		return nil, fmt.Errorf("subscription number is required")
	}
	if p.CustomerID == 0 {
		return nil, fmt.Errorf("customer ID is required")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}

	metadata := p.Metadata
	if metadata == nil {
		metadata = make(map[string]string)
	}

	return &Subscription{
		id:                  p.ID,
		sid:                 p.SID,
		customerID:          p.CustomerID,
		productID:           p.ProductID,
		productName:         p.ProductName,
		price:               p.Price,
		currency:            p.Currency,
		status:              p.Status,
		startDate:           p.StartDate,
		endDate:             p.EndDate,
		autoRenew:           p.AutoRenew,
		checkoutSessionID:   p.CheckoutSessionID,
		gatewayCustomerRef:  p.GatewayCustomerRef,
		gatewaySubscription: p.GatewaySubscription,
		cancelReason:        p.CancelReason,
		metadata:            metadata,
		version:             p.Version,
		createdAt:           p.CreatedAt,
		updatedAt:           p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                            { return s.id }
func (s *Subscription) SID() string                         { return s.sid }
func (s *Subscription) CustomerID() uint                    { return s.customerID }
func (s *Subscription) ProductID() string                   { return s.productID }
func (s *Subscription) ProductName() string                 { return s.productName }
func (s *Subscription) Price() decimal.Decimal              { return s.price }
func (s *Subscription) Currency() string                    { return s.currency }
func (s *Subscription) Status() vo.SubscriptionStatus       { return s.status }
func (s *Subscription) StartDate() time.Time                { return s.startDate }
func (s *Subscription) EndDate() *time.Time                 { return s.endDate }
func (s *Subscription) AutoRenew() bool                     { return s.autoRenew }
func (s *Subscription) CheckoutSessionID() string           { return s.checkoutSessionID }
func (s *Subscription) GatewayCustomerRef() string          { return s.gatewayCustomerRef }
func (s *Subscription) GatewaySubscriptionRef() string      { return s.gatewaySubscription }
func (s *Subscription) CancelReason() *string               { return s.cancelReason }
func (s *Subscription) Metadata() map[string]string         { return s.metadata }
func (s *Subscription) Version() int                        { return s.version }
func (s *Subscription) CreatedAt() time.Time                { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time                { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// AssignCheckoutSession records the payment gateway's checkout session id.
// The session correlates this subscription with the hosted checkout flow
// and is assigned exactly once, before the checkout URL is handed out.
func (s *Subscription) AssignCheckoutSession(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("checkout session ID is required")
	}
	if s.checkoutSessionID == sessionID {
		return nil
	}
	if s.checkoutSessionID != "" {
		return fmt.Errorf("%w: session %s already assigned", ErrCheckoutSessionAssigned, s.checkoutSessionID)
	}

	s.checkoutSessionID = sessionID
	s.touch()
	return nil
}

// AssignGatewayRefs records the gateway-issued customer and subscription
// references. They are write-once: a later attempt to assign different
// values is payment-identity drift and is rejected.
func (s *Subscription) AssignGatewayRefs(customerRef, subscriptionRef string) error {
	if customerRef != "" && s.gatewayCustomerRef != "" && s.gatewayCustomerRef != customerRef {
		return fmt.Errorf("%w: customer ref %s vs %s", ErrExternalRefMismatch, s.gatewayCustomerRef, customerRef)
	}
	if subscriptionRef != "" && s.gatewaySubscription != "" && s.gatewaySubscription != subscriptionRef {
		return fmt.Errorf("%w: subscription ref %s vs %s", ErrExternalRefMismatch, s.gatewaySubscription, subscriptionRef)
	}

	changed := false
	if customerRef != "" && s.gatewayCustomerRef == "" {
		s.gatewayCustomerRef = customerRef
		changed = true
	}
	if subscriptionRef != "" && s.gatewaySubscription == "" {
		s.gatewaySubscription = subscriptionRef
		changed = true
	}
	if changed {
		s.touch()
	}
	return nil
}

// Activate transitions the subscription to active. Legal from pending
// (payment confirmation) and suspended (resume); a no-op when already active.
func (s *Subscription) Activate() error {
	if s.status == vo.StatusActive {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusActive) {
		return ErrInvalidTransition(s.status.String(), vo.StatusActive.String())
	}

	s.status = vo.StatusActive
	s.touch()
	return nil
}

// Suspend pauses an active subscription.
func (s *Subscription) Suspend() error {
	if !s.status.CanTransitionTo(vo.StatusSuspended) {
		return ErrInvalidTransition(s.status.String(), vo.StatusSuspended.String())
	}

	s.status = vo.StatusSuspended
	s.touch()
	return nil
}

// Cancel ends the subscription from any non-terminal state. Cancelling an
// already-cancelled subscription is a no-op.
func (s *Subscription) Cancel(reason string) error {
	if s.status == vo.StatusCancelled {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
	}

	now := time.Now().UTC()
	s.status = vo.StatusCancelled
	s.endDate = &now
	if reason != "" {
		s.cancelReason = &reason
	}
	s.touch()
	return nil
}

// MarkAsExpired transitions the subscription to expired.
func (s *Subscription) MarkAsExpired() error {
	if s.status == vo.StatusExpired {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusExpired) {
		return ErrInvalidTransition(s.status.String(), vo.StatusExpired.String())
	}

	now := time.Now().UTC()
	s.status = vo.StatusExpired
	s.endDate = &now
	s.touch()
	return nil
}

func (s *Subscription) touch() {
	s.updatedAt = time.Now().UTC()
	s.version++
}
