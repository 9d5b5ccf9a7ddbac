package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/vendo-inc/vendo/internal/application/subscription/dto"
	"github.com/vendo-inc/vendo/internal/domain/subscription"
	apperrors "github.com/vendo-inc/vendo/internal/shared/errors"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

// CancelSubscriptionCommand carries the cancellation request.
type CancelSubscriptionCommand struct {
	SID    string
	Reason string
}

// CancelSubscriptionUseCase cancels a subscription from any non-terminal
// state. Cancelling an already-cancelled subscription is a no-op success.
type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(subscriptionRepo subscription.Repository, logger logger.Interface) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to load subscription", "subscription_id", cmd.SID, "error", err)
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found").WithCause(subscription.ErrSubscriptionNotFound)
	}

	priorStatus := sub.Status()
	if err := sub.Cancel(cmd.Reason); err != nil {
		return nil, apperrors.NewConflictError("subscription cannot be cancelled", err.Error()).WithCause(err)
	}

	// Cancel is a no-op on an already-cancelled subscription; skip the
	// write when nothing changed.
	if sub.Status() == priorStatus {
		return dto.ToSubscriptionDTO(sub), nil
	}

	if err := uc.subscriptionRepo.UpdateWithStatusGuard(ctx, sub, priorStatus); err != nil {
		if errors.Is(err, subscription.ErrConcurrentUpdate) {
			return nil, apperrors.NewConflictError("subscription was modified concurrently")
		}
		uc.logger.Errorw("failed to cancel subscription", "subscription_id", cmd.SID, "error", err)
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}

	uc.logger.Infow("subscription cancelled", "subscription_id", cmd.SID, "reason", cmd.Reason)
	return dto.ToSubscriptionDTO(sub), nil
}
