package usecases

import (
	"context"
	"fmt"

	appbilling "github.com/vendo-inc/vendo/internal/application/billing"
	"github.com/vendo-inc/vendo/internal/domain/billing"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

const (
	DefaultDispatchBatchSize   = 50
	DefaultMaxDeliveryAttempts = 8
)

// DispatchInvoiceNotificationsUseCase drains the invoice notification
// outbox: it claims due pending records, delivers them to the billing
// collaborator and records the outcome. Run periodically by the worker.
type DispatchInvoiceNotificationsUseCase struct {
	outboxRepo  billing.Repository
	notifier    appbilling.InvoiceNotifier
	logger      logger.Interface
	batchSize   int
	maxAttempts int
}

func NewDispatchInvoiceNotificationsUseCase(
	outboxRepo billing.Repository,
	notifier appbilling.InvoiceNotifier,
	logger logger.Interface,
) *DispatchInvoiceNotificationsUseCase {
	return &DispatchInvoiceNotificationsUseCase{
		outboxRepo:  outboxRepo,
		notifier:    notifier,
		logger:      logger,
		batchSize:   DefaultDispatchBatchSize,
		maxAttempts: DefaultMaxDeliveryAttempts,
	}
}

// SetBatchSize overrides how many due records one run processes.
func (uc *DispatchInvoiceNotificationsUseCase) SetBatchSize(n int) {
	if n > 0 {
		uc.batchSize = n
	}
}

// SetMaxAttempts overrides the delivery attempt cap.
func (uc *DispatchInvoiceNotificationsUseCase) SetMaxAttempts(n int) {
	if n > 0 {
		uc.maxAttempts = n
	}
}

// Execute processes one batch and returns the number of delivered records.
func (uc *DispatchInvoiceNotificationsUseCase) Execute(ctx context.Context) (int, error) {
	due, err := uc.outboxRepo.FindDue(ctx, uc.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load due notifications: %w", err)
	}

	if len(due) == 0 {
		return 0, nil
	}

	delivered := 0
	for _, notification := range due {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}

		if err := uc.notifier.Notify(ctx, notification); err != nil {
			notification.MarkAttemptFailed(err.Error(), uc.maxAttempts)
			uc.logger.Warnw("invoice notification delivery failed",
				"notification_id", notification.NID(),
				"subscription_id", notification.SubscriptionSID(),
				"attempts", notification.Attempts(),
				"status", notification.Status(),
				"error", err,
			)
		} else {
			notification.MarkDelivered()
			delivered++
			uc.logger.Infow("invoice notification delivered",
				"notification_id", notification.NID(),
				"subscription_id", notification.SubscriptionSID(),
			)
		}

		if err := uc.outboxRepo.Update(ctx, notification); err != nil {
			uc.logger.Errorw("failed to persist notification outcome",
				"notification_id", notification.NID(),
				"error", err,
			)
		}
	}

	return delivered, nil
}
