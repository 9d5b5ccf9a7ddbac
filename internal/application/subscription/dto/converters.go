package dto

import (
	"github.com/vendo-inc/vendo/internal/domain/subscription"
)

// ToSubscriptionDTO converts a subscription aggregate to its presentation DTO.
func ToSubscriptionDTO(sub *subscription.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}

	return &SubscriptionDTO{
		SubscriptionID:     sub.SID(),
		CustomerID:         sub.CustomerID(),
		ProductID:          sub.ProductID(),
		ProductName:        sub.ProductName(),
		Price:              sub.Price(),
		Currency:           sub.Currency(),
		Status:             sub.Status().String(),
		StartDate:          sub.StartDate(),
		EndDate:            sub.EndDate(),
		AutoRenew:          sub.AutoRenew(),
		CheckoutSessionID:  sub.CheckoutSessionID(),
		GatewayCustomerRef: sub.GatewayCustomerRef(),
		GatewaySubRef:      sub.GatewaySubscriptionRef(),
		CreatedAt:          sub.CreatedAt(),
	}
}

// ToSubscriptionDTOList batch converts subscriptions, skipping nil entries.
func ToSubscriptionDTOList(subs []*subscription.Subscription) []*SubscriptionDTO {
	dtos := make([]*SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		if sub != nil {
			dtos = append(dtos, ToSubscriptionDTO(sub))
		}
	}
	return dtos
}
