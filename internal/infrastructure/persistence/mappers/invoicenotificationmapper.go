package mappers

import (
	"fmt"

	"github.com/vendo-inc/vendo/internal/domain/billing"
	"github.com/vendo-inc/vendo/internal/infrastructure/persistence/models"
)

type InvoiceNotificationMapper interface {
	ToEntity(model *models.InvoiceNotificationModel) (*billing.InvoiceNotification, error)
	ToModel(entity *billing.InvoiceNotification) *models.InvoiceNotificationModel
	ToEntities(models []*models.InvoiceNotificationModel) ([]*billing.InvoiceNotification, error)
}

type InvoiceNotificationMapperImpl struct{}

func NewInvoiceNotificationMapper() InvoiceNotificationMapper {
	return &InvoiceNotificationMapperImpl{}
}

func (m *InvoiceNotificationMapperImpl) ToEntity(model *models.InvoiceNotificationModel) (*billing.InvoiceNotification, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := billing.ReconstructInvoiceNotification(billing.InvoiceNotificationReconstructParams{
		ID:                 model.ID,
		NID:                model.NID,
		SubscriptionID:     model.SubscriptionID,
		SubscriptionSID:    model.SubscriptionSID,
		CustomerID:         model.CustomerID,
		ProductName:        model.ProductName,
		Price:              model.Price,
		Currency:           model.Currency,
		GatewayInvoiceRef:  model.GatewayInvoiceRef,
		GatewayCustomerRef: model.GatewayCustomerRef,
		PeriodStart:        model.PeriodStart,
		PeriodEnd:          model.PeriodEnd,
		Status:             billing.NotificationStatus(model.Status),
		Attempts:           model.Attempts,
		LastError:          model.LastError,
		NextAttemptAt:      model.NextAttemptAt,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct invoice notification: %w", err)
	}

	return entity, nil
}

func (m *InvoiceNotificationMapperImpl) ToModel(entity *billing.InvoiceNotification) *models.InvoiceNotificationModel {
	if entity == nil {
		return nil
	}

	return &models.InvoiceNotificationModel{
		ID:                 entity.ID(),
		NID:                entity.NID(),
		SubscriptionID:     entity.SubscriptionID(),
		SubscriptionSID:    entity.SubscriptionSID(),
		CustomerID:         entity.CustomerID(),
		ProductName:        entity.ProductName(),
		Price:              entity.Price(),
		Currency:           entity.Currency(),
		GatewayInvoiceRef:  entity.GatewayInvoiceRef(),
		GatewayCustomerRef: entity.GatewayCustomerRef(),
		PeriodStart:        entity.PeriodStart(),
		PeriodEnd:          entity.PeriodEnd(),
		Status:             string(entity.Status()),
		Attempts:           entity.Attempts(),
		LastError:          entity.LastError(),
		NextAttemptAt:      entity.NextAttemptAt(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}
}

func (m *InvoiceNotificationMapperImpl) ToEntities(notificationModels []*models.InvoiceNotificationModel) ([]*billing.InvoiceNotification, error) {
	entities := make([]*billing.InvoiceNotification, 0, len(notificationModels))
	for _, model := range notificationModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
