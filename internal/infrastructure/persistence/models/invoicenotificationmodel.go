package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendo-inc/vendo/internal/shared/constants"
)

// InvoiceNotificationModel is the persistence model for the invoice
// notification outbox.
type InvoiceNotificationModel struct {
	ID                 uint            `gorm:"primarykey"`
	NID                string          `gorm:"column:nid;uniqueIndex;not null;size:50;comment:Stripe-style ID: ntf_xxx"`
	SubscriptionID     uint            `gorm:"not null;index:idx_notification_subscription"`
	SubscriptionSID    string          `gorm:"column:subscription_sid;not null;size:50"`
	CustomerID         uint            `gorm:"not null"`
	ProductName        string          `gorm:"not null;size:255"`
	Price              decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency           string          `gorm:"not null;size:3"`
	GatewayInvoiceRef  string          `gorm:"size:255"`
	GatewayCustomerRef string          `gorm:"size:255"`
	PeriodStart        time.Time       `gorm:"not null"`
	PeriodEnd          time.Time       `gorm:"not null"`
	Status             string          `gorm:"not null;size:20;index:idx_notification_due,priority:1"`
	Attempts           int             `gorm:"not null;default:0"`
	LastError          *string         `gorm:"size:1000"`
	NextAttemptAt      time.Time       `gorm:"not null;index:idx_notification_due,priority:2"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the table name for GORM
func (InvoiceNotificationModel) TableName() string {
	return constants.TableInvoiceNotifications
}
