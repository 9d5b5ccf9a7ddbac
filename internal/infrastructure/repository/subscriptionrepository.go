package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vendo-inc/vendo/internal/domain/subscription"
	vo "github.com/vendo-inc/vendo/internal/domain/subscription/valueobjects"
	"github.com/vendo-inc/vendo/internal/infrastructure/persistence/mappers"
	"github.com/vendo-inc/vendo/internal/infrastructure/persistence/models"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

var _ subscription.Repository = (*SubscriptionRepositoryImpl)(nil)

func NewSubscriptionRepository(
	db *gorm.DB,
	logger logger.Interface,
) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := subscriptionEntity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set subscription ID", "error", err)
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Infow("subscription created successfully",
		"id", model.ID,
		"sid", model.SID,
		"customer_id", model.CustomerID,
	)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).Where("checkout_session_id = ?", sessionID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by checkout session", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetByCustomerID(ctx context.Context, customerID uint) ([]*subscription.Subscription, error) {
	var subscriptionModels []*models.SubscriptionModel

	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&subscriptionModels).Error; err != nil {
		r.logger.Errorw("failed to query subscriptions by customer", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}

	return r.mapper.ToEntities(subscriptionModels)
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "id", subscriptionEntity.ID(), "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	result := r.db.WithContext(ctx).Model(model).
		Where("id = ?", model.ID).
		Updates(r.updateColumns(model))

	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}

	r.logger.Infow("subscription updated successfully", "id", model.ID, "sid", model.SID)
	return nil
}

// UpdateWithStatusGuard writes the aggregate only when the stored row still
// carries expectedStatus, so concurrent state transitions cannot overwrite
// each other. A zero-row update means another writer got there first.
func (r *SubscriptionRepositoryImpl) UpdateWithStatusGuard(ctx context.Context, subscriptionEntity *subscription.Subscription, expectedStatus vo.SubscriptionStatus) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "id", subscriptionEntity.ID(), "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	result := r.db.WithContext(ctx).Model(model).
		Where("id = ? AND status = ?", model.ID, string(expectedStatus)).
		Updates(r.updateColumns(model))

	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		r.logger.Warnw("subscription status guard rejected update",
			"id", model.ID,
			"sid", model.SID,
			"expected_status", string(expectedStatus),
		)
		return subscription.ErrConcurrentUpdate
	}

	r.logger.Infow("subscription updated successfully",
		"id", model.ID,
		"sid", model.SID,
		"status", model.Status,
	)
	return nil
}

// updateColumns lists every mutable column explicitly so zero values
// (cleared end dates, false auto_renew) are written too.
func (r *SubscriptionRepositoryImpl) updateColumns(model *models.SubscriptionModel) map[string]interface{} {
	return map[string]interface{}{
		"product_id":           model.ProductID,
		"product_name":         model.ProductName,
		"price":                model.Price,
		"currency":             model.Currency,
		"status":               model.Status,
		"start_date":           model.StartDate,
		"end_date":             model.EndDate,
		"auto_renew":           model.AutoRenew,
		"checkout_session_id":  model.CheckoutSessionID,
		"gateway_customer_ref": model.GatewayCustomerRef,
		"gateway_subscription": model.GatewaySubscription,
		"cancel_reason":        model.CancelReason,
		"metadata":             model.Metadata,
		"version":              model.Version,
		"updated_at":           model.UpdatedAt,
	}
}
