package billing

import "context"

// Repository persists the invoice notification outbox.
type Repository interface {
	Create(ctx context.Context, notification *InvoiceNotification) error
	GetBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*InvoiceNotification, error)
	Update(ctx context.Context, notification *InvoiceNotification) error

	// FindDue returns pending notifications whose next attempt time has
	// passed, oldest first, capped at limit.
	FindDue(ctx context.Context, limit int) ([]*InvoiceNotification, error)
}
