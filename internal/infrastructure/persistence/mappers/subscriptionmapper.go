package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/vendo-inc/vendo/internal/domain/subscription"
	vo "github.com/vendo-inc/vendo/internal/domain/subscription/valueobjects"
	"github.com/vendo-inc/vendo/internal/infrastructure/persistence/models"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.SubscriptionStatus(model.Status)
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}

	var metadata map[string]string
	if model.Metadata != nil {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	entity, err := subscription.ReconstructSubscriptionWithParams(subscription.SubscriptionReconstructParams{
		ID:                  model.ID,
		SID:                 model.SID,
		CustomerID:          model.CustomerID,
		ProductID:           model.ProductID,
		ProductName:         model.ProductName,
		Price:               model.Price,
		Currency:            model.Currency,
		Status:              status,
		StartDate:           model.StartDate,
		EndDate:             model.EndDate,
		AutoRenew:           model.AutoRenew,
		CheckoutSessionID:   derefString(model.CheckoutSessionID),
		GatewayCustomerRef:  derefString(model.GatewayCustomerRef),
		GatewaySubscription: derefString(model.GatewaySubscription),
		CancelReason:        model.CancelReason,
		Metadata:            metadata,
		Version:             model.Version,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadataJSON datatypes.JSON
	if metadata := entity.Metadata(); len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = data
	}

	return &models.SubscriptionModel{
		ID:                  entity.ID(),
		SID:                 entity.SID(),
		CustomerID:          entity.CustomerID(),
		ProductID:           entity.ProductID(),
		ProductName:         entity.ProductName(),
		Price:               entity.Price(),
		Currency:            entity.Currency(),
		Status:              string(entity.Status()),
		StartDate:           entity.StartDate(),
		EndDate:             entity.EndDate(),
		AutoRenew:           entity.AutoRenew(),
		CheckoutSessionID:   nilIfEmpty(entity.CheckoutSessionID()),
		GatewayCustomerRef:  nilIfEmpty(entity.GatewayCustomerRef()),
		GatewaySubscription: nilIfEmpty(entity.GatewaySubscriptionRef()),
		CancelReason:        entity.CancelReason(),
		Metadata:            metadataJSON,
		Version:             entity.Version(),
		CreatedAt:           entity.CreatedAt(),
		UpdatedAt:           entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(subscriptionModels []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	entities := make([]*subscription.Subscription, 0, len(subscriptionModels))
	for _, model := range subscriptionModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
