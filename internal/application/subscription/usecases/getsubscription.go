package usecases

import (
	"context"
	"fmt"

	"github.com/vendo-inc/vendo/internal/application/subscription/dto"
	"github.com/vendo-inc/vendo/internal/domain/subscription"
	apperrors "github.com/vendo-inc/vendo/internal/shared/errors"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

// GetSubscriptionUseCase loads a single subscription by its subscription
// number.
type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(subscriptionRepo subscription.Repository, logger logger.Interface) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, sid string) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to load subscription", "subscription_id", sid, "error", err)
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found").WithCause(subscription.ErrSubscriptionNotFound)
	}

	return dto.ToSubscriptionDTO(sub), nil
}
