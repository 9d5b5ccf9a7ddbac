package handlers

import (
	"context"

	"github.com/vendo-inc/vendo/internal/application/subscription/dto"
	"github.com/vendo-inc/vendo/internal/application/subscription/usecases"
)

// Use case interfaces for SubscriptionHandler - enable unit testing with mocks.

type checkoutInitiator interface {
	Execute(ctx context.Context, cmd usecases.InitiateCheckoutCommand) (*usecases.InitiateCheckoutResult, error)
}

type subscriptionConfirmer interface {
	ExecuteBySID(ctx context.Context, sid, sessionID string) (*dto.SubscriptionDTO, error)
	ExecuteBySessionID(ctx context.Context, sessionID string) (*dto.SubscriptionDTO, error)
}

type subscriptionGetter interface {
	Execute(ctx context.Context, sid string) (*dto.SubscriptionDTO, error)
}

type subscriptionLister interface {
	Execute(ctx context.Context, customerID uint) ([]*dto.SubscriptionDTO, error)
}

type subscriptionSuspender interface {
	Execute(ctx context.Context, sid string) (*dto.SubscriptionDTO, error)
}

type subscriptionCanceller interface {
	Execute(ctx context.Context, cmd usecases.CancelSubscriptionCommand) (*dto.SubscriptionDTO, error)
}
