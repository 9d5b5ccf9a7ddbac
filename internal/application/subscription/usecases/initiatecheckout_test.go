package usecases

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendo-inc/vendo/internal/application/payment/gateway"
	"github.com/vendo-inc/vendo/internal/domain/customer"
	vo "github.com/vendo-inc/vendo/internal/domain/subscription/valueobjects"
	apperrors "github.com/vendo-inc/vendo/internal/shared/errors"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

func validCheckoutCommand() InitiateCheckoutCommand {
	return InitiateCheckoutCommand{
		CustomerID:  42,
		ProductID:   "prod_basic",
		ProductName: "Basic Plan",
		Price:       decimal.NewFromFloat(9.99),
		Currency:    "usd",
		AutoRenew:   true,
		SuccessURL:  "https://app.example.com/billing/success",
		CancelURL:   "https://app.example.com/billing/cancel",
	}
}

func testCustomer() *customer.Customer {
	return &customer.Customer{ID: 42, Email: "jo@example.com", Name: "Jo"}
}

func TestInitiateCheckout_Success(t *testing.T) {
	repo := newMemorySubscriptionRepo()
	uc := NewInitiateCheckoutUseCase(repo, newStaticDirectory(testCustomer()), gateway.NewMockGateway(true), logger.NewNoop())

	result, err := uc.Execute(context.Background(), validCheckoutCommand())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.CheckoutURL)
	assert.Equal(t, string(vo.StatusPending), result.Subscription.Status)
	assert.NotEmpty(t, result.Subscription.CheckoutSessionID)

	stored, err := repo.GetBySID(context.Background(), result.Subscription.SubscriptionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, vo.StatusPending, stored.Status())
	assert.Equal(t, result.Subscription.CheckoutSessionID, stored.CheckoutSessionID())
}

func TestInitiateCheckout_UnknownCustomer(t *testing.T) {
	repo := newMemorySubscriptionRepo()
	uc := NewInitiateCheckoutUseCase(repo, newStaticDirectory(), gateway.NewMockGateway(true), logger.NewNoop())

	result, err := uc.Execute(context.Background(), validCheckoutCommand())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestInitiateCheckout_InvalidRequest(t *testing.T) {
	repo := newMemorySubscriptionRepo()
	uc := NewInitiateCheckoutUseCase(repo, newStaticDirectory(testCustomer()), gateway.NewMockGateway(true), logger.NewNoop())

	cmd := validCheckoutCommand()
	cmd.Price = decimal.NewFromFloat(-1)

	result, err := uc.Execute(context.Background(), cmd)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestInitiateCheckout_GatewayFailureCancelsPendingRow(t *testing.T) {
	repo := newMemorySubscriptionRepo()
	uc := NewInitiateCheckoutUseCase(repo, newStaticDirectory(testCustomer()), failingGateway{}, logger.NewNoop())

	result, err := uc.Execute(context.Background(), validCheckoutCommand())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsUnavailableError(err))

	// The pending row must survive as a cancelled record, not vanish.
	subs, err := repo.GetByCustomerID(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, vo.StatusCancelled, subs[0].Status())
	require.NotNil(t, subs[0].CancelReason())
	assert.Equal(t, "checkout session creation failed", *subs[0].CancelReason())
}

func TestInitiateCheckout_SessionCacheIndexed(t *testing.T) {
	repo := newMemorySubscriptionRepo()
	cache := &memorySessionCache{index: make(map[string]string)}
	uc := NewInitiateCheckoutUseCase(repo, newStaticDirectory(testCustomer()), gateway.NewMockGateway(true), logger.NewNoop())
	uc.SetSessionCache(cache)

	result, err := uc.Execute(context.Background(), validCheckoutCommand())
	require.NoError(t, err)

	sid, err := cache.GetSessionIndex(context.Background(), result.Subscription.CheckoutSessionID)
	require.NoError(t, err)
	assert.Equal(t, result.Subscription.SubscriptionID, sid)
}
