package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vendo-inc/vendo/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID                  uint            `gorm:"primarykey"`
	SID                 string          `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	CustomerID          uint            `gorm:"not null;index:idx_customer_subscription"`
	ProductID           string          `gorm:"not null;size:100;index:idx_product_subscription"`
	ProductName         string          `gorm:"not null;size:255"`
	Price               decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency            string          `gorm:"not null;size:3"`
	Status              string          `gorm:"not null;size:20;index:idx_status"`
	StartDate           time.Time       `gorm:"not null"`
	EndDate             *time.Time
	AutoRenew           bool    `gorm:"default:false"`
	CheckoutSessionID   *string `gorm:"uniqueIndex;size:255"`
	GatewayCustomerRef  *string `gorm:"size:255"`
	GatewaySubscription *string `gorm:"size:255"`
	CancelReason        *string `gorm:"size:500"`
	Metadata            datatypes.JSON
	Version             int `gorm:"not null;default:1"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
