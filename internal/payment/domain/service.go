package domain

import (
	"context"
	"errors"
	"time"
)

type RecordPaymentRequest struct {
	// ID is optional. When empty or unknown to the store, Record creates
	// a new payment; when it names an existing payment, Record updates it.
	ID             string
	SubscriptionID string
	DueDate        time.Time
	PaymentDate    *time.Time
	PaymentType    string
}

type GetPaymentRequest struct {
	ID string
}

type ListBySubscriptionRequest struct {
	SubscriptionID string
}

type ListRecentRequest struct {
	Limit int
}

type Service interface {
	// Record upserts a payment. Status is derived from the presence of
	// PaymentDate (PAID when set, UNPAID otherwise) before validation;
	// caller-supplied status is never trusted on this path. On the
	// update path the stored subscription id and due date are kept.
	Record(context.Context, RecordPaymentRequest) (Payment, error)
	GetByID(context.Context, GetPaymentRequest) (Payment, error)
	ListBySubscription(context.Context, ListBySubscriptionRequest) ([]Payment, error)
	ListUnpaidBySubscription(context.Context, ListBySubscriptionRequest) ([]Payment, error)
	ListRecent(context.Context, ListRecentRequest) ([]Payment, error)
	// MarkPaid settles a payment at the current clock time. Calling it
	// again simply moves the payment date forward.
	MarkPaid(ctx context.Context, id string) (Payment, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidPayment        = errors.New("invalid_payment")
	ErrInvalidSubscriptionID = errors.New("invalid_subscription_id")
	ErrInvalidDueDate        = errors.New("invalid_due_date")
	ErrInvalidStatus         = errors.New("invalid_payment_status")
	ErrEarlySettlement       = errors.New("payment_before_due_date")
	ErrStatusMismatch        = errors.New("payment_date_requires_paid_status")
	ErrInvalidID             = errors.New("invalid_payment_id")
	ErrNotFound              = errors.New("payment_not_found")
)
