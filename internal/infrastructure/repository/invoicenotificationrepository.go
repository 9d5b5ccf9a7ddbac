package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vendo-inc/vendo/internal/domain/billing"
	"github.com/vendo-inc/vendo/internal/infrastructure/persistence/mappers"
	"github.com/vendo-inc/vendo/internal/infrastructure/persistence/models"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

type InvoiceNotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.InvoiceNotificationMapper
	logger logger.Interface
}

var _ billing.Repository = (*InvoiceNotificationRepositoryImpl)(nil)

func NewInvoiceNotificationRepository(
	db *gorm.DB,
	logger logger.Interface,
) billing.Repository {
	return &InvoiceNotificationRepositoryImpl{
		db:     db,
		mapper: mappers.NewInvoiceNotificationMapper(),
		logger: logger,
	}
}

func (r *InvoiceNotificationRepositoryImpl) Create(ctx context.Context, notification *billing.InvoiceNotification) error {
	model := r.mapper.ToModel(notification)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create invoice notification", "nid", model.NID, "error", err)
		return fmt.Errorf("failed to create invoice notification: %w", err)
	}

	if err := notification.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set notification ID: %w", err)
	}

	r.logger.Infow("invoice notification created",
		"id", model.ID,
		"nid", model.NID,
		"subscription_id", model.SubscriptionSID,
	)
	return nil
}

func (r *InvoiceNotificationRepositoryImpl) GetBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*billing.InvoiceNotification, error) {
	var notificationModels []*models.InvoiceNotificationModel

	if err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Find(&notificationModels).Error; err != nil {
		r.logger.Errorw("failed to query invoice notifications", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to query invoice notifications: %w", err)
	}

	return r.mapper.ToEntities(notificationModels)
}

func (r *InvoiceNotificationRepositoryImpl) Update(ctx context.Context, notification *billing.InvoiceNotification) error {
	model := r.mapper.ToModel(notification)

	result := r.db.WithContext(ctx).Model(model).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":          model.Status,
			"attempts":        model.Attempts,
			"last_error":      model.LastError,
			"next_attempt_at": model.NextAttemptAt,
			"updated_at":      model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update invoice notification", "nid", model.NID, "error", result.Error)
		return fmt.Errorf("failed to update invoice notification: %w", result.Error)
	}

	return nil
}

// FindDue returns pending notifications whose backoff window has elapsed,
// oldest first.
func (r *InvoiceNotificationRepositoryImpl) FindDue(ctx context.Context, limit int) ([]*billing.InvoiceNotification, error) {
	var notificationModels []*models.InvoiceNotificationModel

	if err := r.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", string(billing.NotificationPending), time.Now().UTC()).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&notificationModels).Error; err != nil {
		r.logger.Errorw("failed to query due invoice notifications", "error", err)
		return nil, fmt.Errorf("failed to query due invoice notifications: %w", err)
	}

	return r.mapper.ToEntities(notificationModels)
}
