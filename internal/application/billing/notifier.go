// Package billing holds the application-side contract and dispatcher for
// invoice notifications owed to the billing collaborator.
package billing

import (
	"context"

	"github.com/vendo-inc/vendo/internal/domain/billing"
)

// InvoiceNotifier delivers one invoice-creation request to the billing
// collaborator. Implementations must be safe to call repeatedly for the
// same notification; the subscription number doubles as the idempotency
// key on the receiving side.
type InvoiceNotifier interface {
	Notify(ctx context.Context, notification *billing.InvoiceNotification) error
}
