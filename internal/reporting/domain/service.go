// Package domain defines the read-only financial aggregation surface.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionTotalRequest struct {
	SubscriptionID string
}

type MonthTotalRequest struct {
	Year  int
	Month time.Month
}

type YearTotalRequest struct {
	Year int
}

// Service aggregates ledger amounts in memory from the stores. All
// operations are side-effect-free; payments whose subscription no longer
// exists contribute zero instead of failing the aggregation.
type Service interface {
	// TotalPaidForSubscription is the count of PAID payments multiplied
	// by the subscription's current price. Price is not historized.
	TotalPaidForSubscription(context.Context, SubscriptionTotalRequest) (decimal.Decimal, error)
	TotalUnpaidForSubscription(context.Context, SubscriptionTotalRequest) (decimal.Decimal, error)
	// TotalPaidForMonth sums the current price of every payment, system
	// wide, whose payment date falls in the given calendar month.
	TotalPaidForMonth(context.Context, MonthTotalRequest) (decimal.Decimal, error)
	TotalPaidForYear(context.Context, YearTotalRequest) (decimal.Decimal, error)
}

var (
	ErrInvalidSubscriptionID = errors.New("invalid_subscription_id")
	ErrInvalidPeriod         = errors.New("invalid_period")
)
