// Package domain contains persistence models for the payment ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PaymentStatus represents settlement states for a payment.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

// Payment origin tags.
const (
	PaymentTypeAuto   = "auto"
	PaymentTypeManual = "manual"
)

// Payment is one billing-period obligation of a subscription. DueDate is
// the calendar anchor it is billed against; PaymentDate is set only once
// the payment settles, and status PAID is tied to its presence.
type Payment struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	SubscriptionID snowflake.ID  `gorm:"not null;index" json:"subscription_id"`
	DueDate        time.Time     `gorm:"not null" json:"due_date"`
	PaymentDate    *time.Time    `gorm:"" json:"payment_date,omitempty"`
	PaymentType    string        `gorm:"type:text" json:"payment_type"`
	Status         PaymentStatus `gorm:"type:text;not null" json:"status"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

func (p Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}
