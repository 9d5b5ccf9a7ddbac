package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vendo-inc/vendo/internal/application/payment/gateway"
	"github.com/vendo-inc/vendo/internal/application/subscription/dto"
	"github.com/vendo-inc/vendo/internal/domain/customer"
	"github.com/vendo-inc/vendo/internal/domain/subscription"
	apperrors "github.com/vendo-inc/vendo/internal/shared/errors"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

type InitiateCheckoutCommand struct {
	CustomerID  uint
	ProductID   string
	ProductName string
	Price       decimal.Decimal
	Currency    string
	AutoRenew   bool
	SuccessURL  string
	CancelURL   string
}

type InitiateCheckoutResult struct {
	Subscription *dto.SubscriptionDTO
	CheckoutURL  string
}

// InitiateCheckoutUseCase creates a pending subscription and opens a hosted
// checkout session for it. The local record is persisted before the gateway
// call so a crash or abandoned checkout always leaves a traceable row.
type InitiateCheckoutUseCase struct {
	subscriptionRepo subscription.Repository
	customerDir      customer.Directory
	checkoutGateway  gateway.CheckoutGateway
	sessionCache     SessionIndexCache // optional
	logger           logger.Interface
}

func NewInitiateCheckoutUseCase(
	subscriptionRepo subscription.Repository,
	customerDir customer.Directory,
	checkoutGateway gateway.CheckoutGateway,
	logger logger.Interface,
) *InitiateCheckoutUseCase {
	return &InitiateCheckoutUseCase{
		subscriptionRepo: subscriptionRepo,
		customerDir:      customerDir,
		checkoutGateway:  checkoutGateway,
		logger:           logger,
	}
}

// SetSessionCache wires the optional session index cache.
func (uc *InitiateCheckoutUseCase) SetSessionCache(cache SessionIndexCache) {
	uc.sessionCache = cache
}

func (uc *InitiateCheckoutUseCase) Execute(ctx context.Context, cmd InitiateCheckoutCommand) (*InitiateCheckoutResult, error) {
	cust, err := uc.customerDir.GetByID(ctx, cmd.CustomerID)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			uc.logger.Warnw("checkout requested for unknown customer", "customer_id", cmd.CustomerID)
			return nil, apperrors.NewNotFoundError("customer not found").WithCause(err)
		}
		uc.logger.Errorw("failed to resolve customer", "customer_id", cmd.CustomerID, "error", err)
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	sub, err := subscription.NewSubscription(cmd.CustomerID, cmd.ProductID, cmd.ProductName, cmd.Price, cmd.Currency, cmd.AutoRenew)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid subscription request", err.Error()).WithCause(err)
	}

	// Persist before any external call so the row exists even when the
	// gateway call fails or the customer never completes checkout.
	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to create subscription", "error", err, "customer_id", cmd.CustomerID)
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	session, err := uc.checkoutGateway.CreateCheckoutSession(ctx, gateway.CreateCheckoutSessionRequest{
		CustomerEmail: cust.Email,
		ProductName:   cmd.ProductName,
		UnitAmount:    cmd.Price.Shift(2).IntPart(),
		Currency:      cmd.Currency,
		Interval:      "month",
		SuccessURL:    cmd.SuccessURL,
		CancelURL:     cmd.CancelURL,
		Metadata: map[string]string{
			"subscription_id": sub.SID(),
			"customer_id":     fmt.Sprintf("%d", cmd.CustomerID),
			"product_id":      cmd.ProductID,
		},
	})
	if err != nil {
		uc.abortPendingSubscription(ctx, sub, err)
		return nil, apperrors.NewUnavailableError("payment gateway unavailable").WithCause(err)
	}

	if err := sub.AssignCheckoutSession(session.SessionID); err != nil {
		return nil, fmt.Errorf("failed to assign checkout session: %w", err)
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist checkout session on subscription",
			"subscription_id", sub.SID(),
			"session_id", session.SessionID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to persist checkout session: %w", err)
	}

	if uc.sessionCache != nil {
		if err := uc.sessionCache.SetSessionIndex(ctx, session.SessionID, sub.SID()); err != nil {
			uc.logger.Warnw("failed to index checkout session", "session_id", session.SessionID, "error", err)
		}
	}

	uc.logger.Infow("checkout initiated",
		"subscription_id", sub.SID(),
		"customer_id", cmd.CustomerID,
		"product_id", cmd.ProductID,
		"session_id", session.SessionID,
	)

	return &InitiateCheckoutResult{
		Subscription: dto.ToSubscriptionDTO(sub),
		CheckoutURL:  session.CheckoutURL,
	}, nil
}

// abortPendingSubscription cancels the freshly created pending row after a
// gateway failure so it is never mistaken for an initiated checkout.
func (uc *InitiateCheckoutUseCase) abortPendingSubscription(ctx context.Context, sub *subscription.Subscription, cause error) {
	uc.logger.Errorw("checkout session creation failed",
		"subscription_id", sub.SID(),
		"error", cause,
	)

	if err := sub.Cancel("checkout session creation failed"); err != nil {
		uc.logger.Errorw("failed to cancel aborted subscription", "subscription_id", sub.SID(), "error", err)
		return
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist aborted subscription", "subscription_id", sub.SID(), "error", err)
	}
}
