package usecases

import (
	"context"
	"errors"
	"fmt"

	appbilling "github.com/vendo-inc/vendo/internal/application/billing"
	billingusecases "github.com/vendo-inc/vendo/internal/application/billing/usecases"
	"github.com/vendo-inc/vendo/internal/application/payment/gateway"
	"github.com/vendo-inc/vendo/internal/application/subscription/dto"
	"github.com/vendo-inc/vendo/internal/domain/billing"
	"github.com/vendo-inc/vendo/internal/domain/subscription"
	vo "github.com/vendo-inc/vendo/internal/domain/subscription/valueobjects"
	apperrors "github.com/vendo-inc/vendo/internal/shared/errors"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

// ConfirmSubscriptionUseCase is the payment-confirmation coordinator. It
// resolves a subscription by number or by checkout session, verifies the
// session against the gateway's authoritative state, performs the guarded
// pending-to-active transition exactly once, and records the invoice
// notification owed to the billing collaborator.
//
// Confirmation success depends only on the local transition; invoice
// delivery failures are absorbed into the outbox.
type ConfirmSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	checkoutGateway  gateway.CheckoutGateway
	outboxRepo       billing.Repository
	notifier         appbilling.InvoiceNotifier
	sessionCache     SessionIndexCache // optional
	logger           logger.Interface
}

func NewConfirmSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	checkoutGateway gateway.CheckoutGateway,
	outboxRepo billing.Repository,
	notifier appbilling.InvoiceNotifier,
	logger logger.Interface,
) *ConfirmSubscriptionUseCase {
	return &ConfirmSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		checkoutGateway:  checkoutGateway,
		outboxRepo:       outboxRepo,
		notifier:         notifier,
		logger:           logger,
	}
}

// SetSessionCache wires the optional session index cache.
func (uc *ConfirmSubscriptionUseCase) SetSessionCache(cache SessionIndexCache) {
	uc.sessionCache = cache
}

// ExecuteBySID confirms a subscription identified by its subscription
// number. When sessionID is supplied it must match the stored session.
func (uc *ConfirmSubscriptionUseCase) ExecuteBySID(ctx context.Context, sid, sessionID string) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to load subscription", "subscription_id", sid, "error", err)
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found").WithCause(subscription.ErrSubscriptionNotFound)
	}

	if sessionID != "" && sub.CheckoutSessionID() != "" && sub.CheckoutSessionID() != sessionID {
		uc.logger.Warnw("checkout session mismatch on confirmation",
			"subscription_id", sid,
			"session_id", sessionID,
		)
		return nil, apperrors.NewBadRequestError("session does not belong to this subscription")
	}

	return uc.confirm(ctx, sub)
}

// ExecuteBySessionID confirms the subscription correlated with the given
// checkout session.
func (uc *ConfirmSubscriptionUseCase) ExecuteBySessionID(ctx context.Context, sessionID string) (*dto.SubscriptionDTO, error) {
	if sessionID == "" {
		return nil, apperrors.NewValidationError("session_id is required")
	}

	sub, err := uc.resolveBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return uc.confirm(ctx, sub)
}

func (uc *ConfirmSubscriptionUseCase) resolveBySession(ctx context.Context, sessionID string) (*subscription.Subscription, error) {
	if uc.sessionCache != nil {
		sid, err := uc.sessionCache.GetSessionIndex(ctx, sessionID)
		if err != nil {
			uc.logger.Debugw("session index lookup failed", "session_id", sessionID, "error", err)
		} else if sid != "" {
			sub, err := uc.subscriptionRepo.GetBySID(ctx, sid)
			if err == nil && sub != nil && sub.CheckoutSessionID() == sessionID {
				return sub, nil
			}
		}
	}

	sub, err := uc.subscriptionRepo.GetByCheckoutSessionID(ctx, sessionID)
	if err != nil {
		uc.logger.Errorw("failed to load subscription by session", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("no subscription for checkout session").WithCause(subscription.ErrSubscriptionNotFound)
	}
	return sub, nil
}

func (uc *ConfirmSubscriptionUseCase) confirm(ctx context.Context, sub *subscription.Subscription) (*dto.SubscriptionDTO, error) {
	// Idempotency guard: a confirmed subscription is a success no-op and
	// must not raise another invoice request.
	if sub.Status() == vo.StatusActive {
		uc.logger.Infow("subscription already active", "subscription_id", sub.SID())
		return dto.ToSubscriptionDTO(sub), nil
	}

	sessionID := sub.CheckoutSessionID()
	if sessionID == "" {
		return nil, apperrors.NewBadRequestError("subscription has no checkout session")
	}

	// Re-query the gateway; a client-supplied "paid" flag is never trusted.
	session, err := uc.checkoutGateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		uc.logger.Errorw("failed to fetch checkout session",
			"subscription_id", sub.SID(),
			"session_id", sessionID,
			"error", err,
		)
		return nil, apperrors.NewUnavailableError("payment gateway unavailable").WithCause(err)
	}
	if !session.PaymentComplete {
		return nil, apperrors.NewBadRequestError("checkout session is not paid")
	}

	// From here the transition and the outbox write run to completion even
	// if the caller goes away; the gateway already considers this paid.
	detached := context.WithoutCancel(ctx)

	priorStatus := sub.Status()

	if err := sub.AssignGatewayRefs(session.CustomerRef, session.SubscriptionRef); err != nil {
		if errors.Is(err, subscription.ErrExternalRefMismatch) {
			uc.logger.Errorw("gateway reference mismatch on confirmation",
				"subscription_id", sub.SID(),
				"session_id", sessionID,
				"error", err,
			)
			return nil, apperrors.NewConflictError("payment identity mismatch", err.Error()).WithCause(err)
		}
		return nil, fmt.Errorf("failed to assign gateway references: %w", err)
	}

	if err := sub.Activate(); err != nil {
		return nil, apperrors.NewConflictError("subscription cannot be activated", err.Error()).WithCause(err)
	}

	if err := uc.subscriptionRepo.UpdateWithStatusGuard(detached, sub, priorStatus); err != nil {
		if errors.Is(err, subscription.ErrConcurrentUpdate) {
			return uc.resolveLostRace(detached, sub.SID())
		}
		uc.logger.Errorw("failed to persist confirmation", "subscription_id", sub.SID(), "error", err)
		return nil, fmt.Errorf("failed to persist confirmation: %w", err)
	}

	uc.logger.Infow("subscription confirmed",
		"subscription_id", sub.SID(),
		"session_id", sessionID,
		"gateway_customer_ref", sub.GatewayCustomerRef(),
		"gateway_subscription_ref", sub.GatewaySubscriptionRef(),
	)

	// Only the transition winner reaches this point, so exactly one
	// notification is recorded per subscription.
	uc.raiseInvoiceNotification(detached, sub, session)

	return dto.ToSubscriptionDTO(sub), nil
}

// resolveLostRace handles a lost pending-to-active race: the winner's state
// is re-read and, when active, returned as an idempotent success.
func (uc *ConfirmSubscriptionUseCase) resolveLostRace(ctx context.Context, sid string) (*dto.SubscriptionDTO, error) {
	current, err := uc.subscriptionRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read subscription after lost race: %w", err)
	}
	if current == nil {
		return nil, apperrors.NewNotFoundError("subscription not found").WithCause(subscription.ErrSubscriptionNotFound)
	}

	if current.Status() == vo.StatusActive {
		uc.logger.Infow("confirmation lost race to concurrent caller", "subscription_id", sid)
		return dto.ToSubscriptionDTO(current), nil
	}

	uc.logger.Warnw("subscription changed concurrently during confirmation",
		"subscription_id", sid,
		"status", current.Status(),
	)
	return nil, apperrors.NewConflictError("subscription was modified concurrently")
}

// raiseInvoiceNotification records the invoice request owed to the billing
// collaborator and makes one immediate best-effort delivery attempt. Every
// failure here is logged and absorbed; the confirmation outcome is already
// decided.
func (uc *ConfirmSubscriptionUseCase) raiseInvoiceNotification(ctx context.Context, sub *subscription.Subscription, session *gateway.CheckoutSessionData) {
	notification, err := billing.NewInvoiceNotification(
		sub.ID(),
		sub.SID(),
		sub.CustomerID(),
		sub.ProductName(),
		sub.Price(),
		sub.Currency(),
		session.InvoiceRef,
		session.CustomerRef,
	)
	if err != nil {
		uc.logger.Errorw("failed to build invoice notification", "subscription_id", sub.SID(), "error", err)
		return
	}

	if err := uc.outboxRepo.Create(ctx, notification); err != nil {
		uc.logger.Errorw("failed to record invoice notification",
			"subscription_id", sub.SID(),
			"error", err,
		)
		return
	}

	if err := uc.notifier.Notify(ctx, notification); err != nil {
		notification.MarkAttemptFailed(err.Error(), billingusecases.DefaultMaxDeliveryAttempts)
		uc.logger.Warnw("immediate invoice notification failed, left for dispatcher",
			"subscription_id", sub.SID(),
			"notification_id", notification.NID(),
			"error", err,
		)
	} else {
		notification.MarkDelivered()
		uc.logger.Infow("invoice notification delivered",
			"subscription_id", sub.SID(),
			"notification_id", notification.NID(),
		)
	}

	if err := uc.outboxRepo.Update(ctx, notification); err != nil {
		uc.logger.Errorw("failed to persist notification outcome",
			"subscription_id", sub.SID(),
			"notification_id", notification.NID(),
			"error", err,
		)
	}
}
