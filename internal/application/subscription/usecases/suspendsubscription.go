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

// SuspendSubscriptionUseCase moves an active subscription into the
// suspended state.
type SuspendSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewSuspendSubscriptionUseCase(subscriptionRepo subscription.Repository, logger logger.Interface) *SuspendSubscriptionUseCase {
	return &SuspendSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *SuspendSubscriptionUseCase) Execute(ctx context.Context, sid string) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to load subscription", "subscription_id", sid, "error", err)
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found").WithCause(subscription.ErrSubscriptionNotFound)
	}

	priorStatus := sub.Status()
	if err := sub.Suspend(); err != nil {
		return nil, apperrors.NewConflictError("subscription cannot be suspended", err.Error()).WithCause(err)
	}

	if err := uc.subscriptionRepo.UpdateWithStatusGuard(ctx, sub, priorStatus); err != nil {
		if errors.Is(err, subscription.ErrConcurrentUpdate) {
			return nil, apperrors.NewConflictError("subscription was modified concurrently")
		}
		uc.logger.Errorw("failed to suspend subscription", "subscription_id", sid, "error", err)
		return nil, fmt.Errorf("failed to suspend subscription: %w", err)
	}

	uc.logger.Infow("subscription suspended", "subscription_id", sid)
	return dto.ToSubscriptionDTO(sub), nil
}
