package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotification(t *testing.T) *InvoiceNotification {
	t.Helper()
	n, err := NewInvoiceNotification(1, "sub_test123", 10, "Basic Plan", decimal.RequireFromString("29.99"), "usd", "in_ext1", "cus_ext1")
	require.NoError(t, err)
	return n
}

func TestNewInvoiceNotification(t *testing.T) {
	n := newTestNotification(t)

	assert.Contains(t, n.NID(), "ntf_")
	assert.Equal(t, NotificationPending, n.Status())
	assert.Zero(t, n.Attempts())

	// Billing period is one month from creation.
	wantEnd := n.PeriodStart().AddDate(0, 1, 0)
	assert.Equal(t, wantEnd, n.PeriodEnd())
}

func TestNewInvoiceNotification_Invalid(t *testing.T) {
	price := decimal.RequireFromString("29.99")

	_, err := NewInvoiceNotification(0, "sub_x", 10, "Basic", price, "usd", "", "")
	assert.Error(t, err)

	_, err = NewInvoiceNotification(1, "", 10, "Basic", price, "usd", "", "")
	assert.Error(t, err)

	_, err = NewInvoiceNotification(1, "sub_x", 0, "Basic", price, "usd", "", "")
	assert.Error(t, err)
}

func TestMarkDelivered(t *testing.T) {
	n := newTestNotification(t)

	n.MarkDelivered()

	assert.Equal(t, NotificationDelivered, n.Status())
	assert.Equal(t, 1, n.Attempts())
	assert.Nil(t, n.LastError())
}

func TestMarkAttemptFailed_StaysPendingWithBackoff(t *testing.T) {
	n := newTestNotification(t)
	before := time.Now().UTC()

	n.MarkAttemptFailed("connection refused", 5)

	assert.Equal(t, NotificationPending, n.Status())
	assert.Equal(t, 1, n.Attempts())
	require.NotNil(t, n.LastError())
	assert.Equal(t, "connection refused", *n.LastError())
	assert.True(t, n.NextAttemptAt().After(before), "next attempt should be pushed into the future")
}

func TestMarkAttemptFailed_ExhaustsToFailed(t *testing.T) {
	n := newTestNotification(t)

	n.MarkAttemptFailed("timeout", 2)
	assert.Equal(t, NotificationPending, n.Status())

	n.MarkAttemptFailed("timeout", 2)
	assert.Equal(t, NotificationFailed, n.Status())
	assert.Equal(t, 2, n.Attempts())
}

func TestMarkAttemptFailed_BackoffGrows(t *testing.T) {
	n := newTestNotification(t)

	n.MarkAttemptFailed("err", 10)
	first := n.NextAttemptAt()

	n.MarkAttemptFailed("err", 10)
	second := n.NextAttemptAt()

	assert.True(t, second.After(first))
}
