package subscription

import (
	"context"

	vo "github.com/vendo-inc/vendo/internal/domain/subscription/valueobjects"
)

// Repository persists subscription aggregates. Lookups return (nil, nil)
// when no row matches; callers translate that into not-found errors.
type Repository interface {
	Create(ctx context.Context, subscription *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	GetByCheckoutSessionID(ctx context.Context, sessionID string) (*Subscription, error)
	GetByCustomerID(ctx context.Context, customerID uint) ([]*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) error

	// UpdateWithStatusGuard writes the aggregate only if the stored row
	// still carries expectedStatus at the stored version (compare-and-set).
	// It returns ErrConcurrentUpdate when another writer won the race.
	UpdateWithStatusGuard(ctx context.Context, subscription *Subscription, expectedStatus vo.SubscriptionStatus) error
}
