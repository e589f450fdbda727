package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreateSubscriptionRequest struct {
	ServiceName   string
	Price         decimal.Decimal
	StartDate     time.Time
	EndDate       *time.Time
	Status        SubscriptionStatus
	Kind          SubscriptionKind
	MonthsEngaged int
}

// UpdateSubscriptionRequest is a partial update: omitted fields (empty
// name or status, nil price or end date, zero months) keep their stored
// values. Clearing an end date requires recreating the subscription.
type UpdateSubscriptionRequest struct {
	ID            string
	ServiceName   string
	Price         *decimal.Decimal
	EndDate       *time.Time
	Status        SubscriptionStatus
	MonthsEngaged int
}

type GetSubscriptionRequest struct {
	ID string
}

type Service interface {
	// Create validates, persists, and immediately generates the payment
	// schedule for the new subscription. Generation is best-effort: a
	// failure there leaves the subscription persisted with partial
	// payments (no cross-store transaction exists).
	Create(context.Context, CreateSubscriptionRequest) (Subscription, error)
	GetByID(context.Context, GetSubscriptionRequest) (Subscription, error)
	List(context.Context) ([]Subscription, error)
	ListActive(context.Context) ([]Subscription, error)
	Update(context.Context, UpdateSubscriptionRequest) (Subscription, error)
	// Delete removes the subscription only. Payments are deliberately
	// left in place; callers needing cleanup delete them first.
	Delete(ctx context.Context, id string) error
	// GeneratePayments inserts due payments for every scheduled month
	// that has no payment row yet, returning the number created.
	GeneratePayments(ctx context.Context, id string) (int, error)
}

var (
	ErrInvalidSubscription  = errors.New("invalid_subscription")
	ErrInvalidServiceName   = errors.New("invalid_service_name")
	ErrInvalidPrice         = errors.New("invalid_price")
	ErrInvalidStartDate     = errors.New("invalid_start_date")
	ErrInvalidEndDate       = errors.New("invalid_end_date")
	ErrInvalidKind          = errors.New("invalid_kind")
	ErrInvalidMonthsEngaged = errors.New("invalid_months_engaged")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("subscription_not_found")
)
