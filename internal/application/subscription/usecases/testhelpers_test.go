package usecases

import (
	"context"
	"fmt"
	"sync"

	"github.com/vendo-inc/vendo/internal/application/payment/gateway"
	"github.com/vendo-inc/vendo/internal/domain/billing"
	"github.com/vendo-inc/vendo/internal/domain/customer"
	"github.com/vendo-inc/vendo/internal/domain/subscription"
	vo "github.com/vendo-inc/vendo/internal/domain/subscription/valueobjects"
)

// memorySubscriptionRepo is an in-memory subscription.Repository that keeps
// detached snapshots so status-guard races behave like real rows.
type memorySubscriptionRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]subscription.SubscriptionReconstructParams

	createErr error
	updateErr error
	getErr    error
}

func newMemorySubscriptionRepo() *memorySubscriptionRepo {
	return &memorySubscriptionRepo{
		nextID: 1,
		rows:   make(map[uint]subscription.SubscriptionReconstructParams),
	}
}

func snapshotOf(sub *subscription.Subscription) subscription.SubscriptionReconstructParams {
	return subscription.SubscriptionReconstructParams{
		ID:                  sub.ID(),
		SID:                 sub.SID(),
		CustomerID:          sub.CustomerID(),
		ProductID:           sub.ProductID(),
		ProductName:         sub.ProductName(),
		Price:               sub.Price(),
		Currency:            sub.Currency(),
		Status:              sub.Status(),
		StartDate:           sub.StartDate(),
		EndDate:             sub.EndDate(),
		AutoRenew:           sub.AutoRenew(),
		CheckoutSessionID:   sub.CheckoutSessionID(),
		GatewayCustomerRef:  sub.GatewayCustomerRef(),
		GatewaySubscription: sub.GatewaySubscriptionRef(),
		CancelReason:        sub.CancelReason(),
		Metadata:            sub.Metadata(),
		Version:             sub.Version(),
		CreatedAt:           sub.CreatedAt(),
		UpdatedAt:           sub.UpdatedAt(),
	}
}

func (r *memorySubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := sub.SetID(r.nextID); err != nil {
		return err
	}
	r.nextID++
	r.rows[sub.ID()] = snapshotOf(sub)
	return nil
}

func (r *memorySubscriptionRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	params, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return subscription.ReconstructSubscriptionWithParams(params)
}

func (r *memorySubscriptionRepo) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, params := range r.rows {
		if params.SID == sid {
			return subscription.ReconstructSubscriptionWithParams(params)
		}
	}
	return nil, nil
}

func (r *memorySubscriptionRepo) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*subscription.Subscription, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, params := range r.rows {
		if params.CheckoutSessionID == sessionID {
			return subscription.ReconstructSubscriptionWithParams(params)
		}
	}
	return nil, nil
}

func (r *memorySubscriptionRepo) GetByCustomerID(ctx context.Context, customerID uint) ([]*subscription.Subscription, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*subscription.Subscription
	for _, params := range r.rows {
		if params.CustomerID == customerID {
			sub, err := subscription.ReconstructSubscriptionWithParams(params)
			if err != nil {
				return nil, err
			}
			result = append(result, sub)
		}
	}
	return result, nil
}

func (r *memorySubscriptionRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[sub.ID()]; !ok {
		return fmt.Errorf("subscription %d not found", sub.ID())
	}
	r.rows[sub.ID()] = snapshotOf(sub)
	return nil
}

func (r *memorySubscriptionRepo) UpdateWithStatusGuard(ctx context.Context, sub *subscription.Subscription, expectedStatus vo.SubscriptionStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[sub.ID()]
	if !ok {
		return fmt.Errorf("subscription %d not found", sub.ID())
	}
	if stored.Status != expectedStatus {
		return subscription.ErrConcurrentUpdate
	}
	r.rows[sub.ID()] = snapshotOf(sub)
	return nil
}

// forceStatus rewrites the stored status directly, simulating a concurrent
// writer that committed between this caller's read and write.
func (r *memorySubscriptionRepo) forceStatus(id uint, status vo.SubscriptionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	params := r.rows[id]
	params.Status = status
	r.rows[id] = params
}

// memoryOutboxRepo is an in-memory billing.Repository.
type memoryOutboxRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*billing.InvoiceNotification

	createErr error
}

func newMemoryOutboxRepo() *memoryOutboxRepo {
	return &memoryOutboxRepo{
		nextID: 1,
		rows:   make(map[uint]*billing.InvoiceNotification),
	}
}

func (r *memoryOutboxRepo) Create(ctx context.Context, n *billing.InvoiceNotification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := n.SetID(r.nextID); err != nil {
		return err
	}
	r.nextID++
	r.rows[n.ID()] = n
	return nil
}

func (r *memoryOutboxRepo) GetBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*billing.InvoiceNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*billing.InvoiceNotification
	for _, n := range r.rows {
		if n.SubscriptionID() == subscriptionID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *memoryOutboxRepo) Update(ctx context.Context, n *billing.InvoiceNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[n.ID()] = n
	return nil
}

func (r *memoryOutboxRepo) FindDue(ctx context.Context, limit int) ([]*billing.InvoiceNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*billing.InvoiceNotification
	for _, n := range r.rows {
		if n.Status() == billing.NotificationPending && len(result) < limit {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *memoryOutboxRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// countingNotifier records delivery attempts and fails on demand.
type countingNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (n *countingNotifier) Notify(ctx context.Context, notification *billing.InvoiceNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.err
}

func (n *countingNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

// staticDirectory resolves every known customer from a fixed map.
type staticDirectory struct {
	customers map[uint]*customer.Customer
}

func newStaticDirectory(customers ...*customer.Customer) *staticDirectory {
	m := make(map[uint]*customer.Customer)
	for _, c := range customers {
		m[c.ID] = c
	}
	return &staticDirectory{customers: m}
}

func (d *staticDirectory) GetByID(ctx context.Context, id uint) (*customer.Customer, error) {
	c, ok := d.customers[id]
	if !ok {
		return nil, customer.ErrCustomerNotFound
	}
	return c, nil
}

// memorySessionCache is an in-memory SessionIndexCache.
type memorySessionCache struct {
	mu    sync.Mutex
	index map[string]string
}

func (c *memorySessionCache) SetSessionIndex(ctx context.Context, sessionID, subscriptionSID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index[sessionID] = subscriptionSID
	return nil
}

func (c *memorySessionCache) GetSessionIndex(ctx context.Context, sessionID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index[sessionID], nil
}

// failingGateway rejects every call, standing in for an unreachable
// payment provider.
type failingGateway struct{}

func (failingGateway) CreateCheckoutSession(ctx context.Context, req gateway.CreateCheckoutSessionRequest) (*gateway.CheckoutSessionResult, error) {
	return nil, fmt.Errorf("gateway unreachable")
}

func (failingGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*gateway.CheckoutSessionData, error) {
	return nil, fmt.Errorf("gateway unreachable")
}
