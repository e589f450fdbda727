// Package domain contains persistence models for tracked subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SubscriptionStatus represents lifecycle states for a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusSuspended SubscriptionStatus = "SUSPENDED"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// SubscriptionKind discriminates the two subscription variants. FIXED
// subscriptions carry a hard cap on billing periods (MonthsEngaged);
// FLEXIBLE ones bill until their end date or the generation horizon.
type SubscriptionKind string

const (
	SubscriptionKindFixed    SubscriptionKind = "FIXED"
	SubscriptionKindFlexible SubscriptionKind = "FLEXIBLE"
)

// Subscription captures a recurring or fixed-term service engagement.
// EndDate is optional; when absent, payment generation is bounded by the
// configured horizon instead.
type Subscription struct {
	ID            snowflake.ID       `gorm:"primaryKey" json:"id"`
	ServiceName   string             `gorm:"not null" json:"service_name"`
	Price         decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"price"`
	StartDate     time.Time          `gorm:"not null" json:"start_date"`
	EndDate       *time.Time         `gorm:"" json:"end_date,omitempty"`
	Status        SubscriptionStatus `gorm:"type:text;not null" json:"status"`
	Kind          SubscriptionKind   `gorm:"type:text;not null" json:"kind"`
	MonthsEngaged int                `gorm:"not null;default:0" json:"months_engaged,omitempty"`
	CreatedAt     time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

func (s Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

func (s Subscription) IsFixed() bool {
	return s.Kind == SubscriptionKindFixed
}
