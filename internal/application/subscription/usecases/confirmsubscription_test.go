package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendo-inc/vendo/internal/application/payment/gateway"
	"github.com/vendo-inc/vendo/internal/domain/billing"
	"github.com/vendo-inc/vendo/internal/domain/subscription"
	vo "github.com/vendo-inc/vendo/internal/domain/subscription/valueobjects"
	apperrors "github.com/vendo-inc/vendo/internal/shared/errors"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

// confirmFixture wires an initiated checkout ready for confirmation.
type confirmFixture struct {
	repo      *memorySubscriptionRepo
	gw        *gateway.MockGateway
	outbox    *memoryOutboxRepo
	notifier  *countingNotifier
	uc        *ConfirmSubscriptionUseCase
	sid       string
	sessionID string
}

func newConfirmFixture(t *testing.T, paid bool) *confirmFixture {
	t.Helper()

	repo := newMemorySubscriptionRepo()
	gw := gateway.NewMockGateway(paid)
	outbox := newMemoryOutboxRepo()
	notifier := &countingNotifier{}

	initiate := NewInitiateCheckoutUseCase(repo, newStaticDirectory(testCustomer()), gw, logger.NewNoop())
	result, err := initiate.Execute(context.Background(), validCheckoutCommand())
	require.NoError(t, err)

	return &confirmFixture{
		repo:      repo,
		gw:        gw,
		outbox:    outbox,
		notifier:  notifier,
		uc:        NewConfirmSubscriptionUseCase(repo, gw, outbox, notifier, logger.NewNoop()),
		sid:       result.Subscription.SubscriptionID,
		sessionID: result.Subscription.CheckoutSessionID,
	}
}

func TestConfirmSubscription_BySID(t *testing.T) {
	f := newConfirmFixture(t, true)

	result, err := f.uc.ExecuteBySID(context.Background(), f.sid, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, string(vo.StatusActive), result.Status)
	assert.NotEmpty(t, result.GatewayCustomerRef)
	assert.NotEmpty(t, result.GatewaySubRef)

	stored, err := f.repo.GetBySID(context.Background(), f.sid)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, stored.Status())

	assert.Equal(t, 1, f.notifier.callCount())
	assert.Equal(t, 1, f.outbox.count())
}

func TestConfirmSubscription_BySessionID(t *testing.T) {
	f := newConfirmFixture(t, true)

	result, err := f.uc.ExecuteBySessionID(context.Background(), f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, string(vo.StatusActive), result.Status)
	assert.Equal(t, f.sid, result.SubscriptionID)
	assert.Equal(t, 1, f.notifier.callCount())
}

func TestConfirmSubscription_DoubleConfirmNotifiesOnce(t *testing.T) {
	f := newConfirmFixture(t, true)

	first, err := f.uc.ExecuteBySID(context.Background(), f.sid, "")
	require.NoError(t, err)
	assert.Equal(t, string(vo.StatusActive), first.Status)

	// Second confirmation is a success no-op regardless of entry point,
	// and must not raise a second invoice request.
	second, err := f.uc.ExecuteBySID(context.Background(), f.sid, "")
	require.NoError(t, err)
	assert.Equal(t, string(vo.StatusActive), second.Status)

	third, err := f.uc.ExecuteBySessionID(context.Background(), f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, string(vo.StatusActive), third.Status)

	assert.Equal(t, 1, f.notifier.callCount())
	assert.Equal(t, 1, f.outbox.count())
}

func TestConfirmSubscription_UnpaidSession(t *testing.T) {
	f := newConfirmFixture(t, false)

	result, err := f.uc.ExecuteBySID(context.Background(), f.sid, "")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsBadRequestError(err))

	stored, err := f.repo.GetBySID(context.Background(), f.sid)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusPending, stored.Status())
	assert.Equal(t, 0, f.notifier.callCount())
}

func TestConfirmSubscription_GatewayUnavailable(t *testing.T) {
	f := newConfirmFixture(t, true)
	f.uc = NewConfirmSubscriptionUseCase(f.repo, failingGateway{}, f.outbox, f.notifier, logger.NewNoop())

	_, err := f.uc.ExecuteBySID(context.Background(), f.sid, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailableError(err))

	stored, err := f.repo.GetBySID(context.Background(), f.sid)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusPending, stored.Status())
}

func TestConfirmSubscription_UnknownSubscription(t *testing.T) {
	f := newConfirmFixture(t, true)

	_, err := f.uc.ExecuteBySID(context.Background(), "sub_missing", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.True(t, errors.Is(err, subscription.ErrSubscriptionNotFound))

	_, err = f.uc.ExecuteBySessionID(context.Background(), "cs_missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.True(t, errors.Is(err, subscription.ErrSubscriptionNotFound))
}

func TestConfirmSubscription_SessionMismatch(t *testing.T) {
	f := newConfirmFixture(t, true)

	_, err := f.uc.ExecuteBySID(context.Background(), f.sid, "cs_someone_elses")
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequestError(err))
	assert.Equal(t, 0, f.notifier.callCount())
}

func TestConfirmSubscription_NotifierFailureDoesNotFailConfirmation(t *testing.T) {
	f := newConfirmFixture(t, true)
	f.notifier.err = assert.AnError

	result, err := f.uc.ExecuteBySID(context.Background(), f.sid, "")
	require.NoError(t, err)
	assert.Equal(t, string(vo.StatusActive), result.Status)

	// The notification stays in the outbox for the dispatcher.
	due, err := f.outbox.FindDue(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, billing.NotificationPending, due[0].Status())
	assert.Equal(t, 1, due[0].Attempts())
}

func TestConfirmSubscription_OutboxWriteFailureDoesNotFailConfirmation(t *testing.T) {
	f := newConfirmFixture(t, true)
	f.outbox.createErr = assert.AnError

	result, err := f.uc.ExecuteBySID(context.Background(), f.sid, "")
	require.NoError(t, err)
	assert.Equal(t, string(vo.StatusActive), result.Status)
	assert.Equal(t, 0, f.notifier.callCount())
}

func TestConfirmSubscription_LostRaceToActiveIsIdempotentSuccess(t *testing.T) {
	f := newConfirmFixture(t, true)

	sub, err := f.repo.GetBySID(context.Background(), f.sid)
	require.NoError(t, err)

	// Another caller commits the activation after this caller's read but
	// before its write. The status guard fails, the re-read sees active,
	// and the outcome is a success without a duplicate notification.
	f.uc = NewConfirmSubscriptionUseCase(f.repo, &racingGateway{
		inner:  f.gw,
		repo:   f.repo,
		id:     sub.ID(),
		status: vo.StatusActive,
	}, f.outbox, f.notifier, logger.NewNoop())

	result, err := f.uc.ExecuteBySessionID(context.Background(), f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, string(vo.StatusActive), result.Status)
	assert.Equal(t, 0, f.notifier.callCount())
	assert.Equal(t, 0, f.outbox.count())
}

func TestConfirmSubscription_LostRaceToCancelledIsConflict(t *testing.T) {
	f := newConfirmFixture(t, true)

	sub, err := f.repo.GetBySID(context.Background(), f.sid)
	require.NoError(t, err)

	// Read the aggregate, then cancel it behind this caller's back.
	f.repo.forceStatus(sub.ID(), vo.StatusCancelled)

	require.NoError(t, sub.AssignGatewayRefs("cus_x", "sub_x"))
	require.NoError(t, sub.Activate())
	err = f.repo.UpdateWithStatusGuard(context.Background(), sub, vo.StatusPending)
	assert.Error(t, err)

	_, err = f.uc.ExecuteBySID(context.Background(), f.sid, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Equal(t, 0, f.notifier.callCount())
}

// racingGateway flips the stored row's status while the gateway call is in
// flight, after the aggregate has been read but before it is written back.
type racingGateway struct {
	inner  gateway.CheckoutGateway
	repo   *memorySubscriptionRepo
	id     uint
	status vo.SubscriptionStatus
}

func (g *racingGateway) CreateCheckoutSession(ctx context.Context, req gateway.CreateCheckoutSessionRequest) (*gateway.CheckoutSessionResult, error) {
	return g.inner.CreateCheckoutSession(ctx, req)
}

func (g *racingGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*gateway.CheckoutSessionData, error) {
	data, err := g.inner.GetCheckoutSession(ctx, sessionID)
	if err == nil {
		g.repo.forceStatus(g.id, g.status)
	}
	return data, err
}
