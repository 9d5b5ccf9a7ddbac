package usecases

import (
	"context"
	"fmt"

	"github.com/vendo-inc/vendo/internal/application/subscription/dto"
	"github.com/vendo-inc/vendo/internal/domain/subscription"
	apperrors "github.com/vendo-inc/vendo/internal/shared/errors"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

// ListCustomerSubscriptionsUseCase returns every subscription owned by a
// customer, newest first.
type ListCustomerSubscriptionsUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewListCustomerSubscriptionsUseCase(subscriptionRepo subscription.Repository, logger logger.Interface) *ListCustomerSubscriptionsUseCase {
	return &ListCustomerSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *ListCustomerSubscriptionsUseCase) Execute(ctx context.Context, customerID uint) ([]*dto.SubscriptionDTO, error) {
	if customerID == 0 {
		return nil, apperrors.NewValidationError("customer_id is required")
	}

	subs, err := uc.subscriptionRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return dto.ToSubscriptionDTOList(subs), nil
}
