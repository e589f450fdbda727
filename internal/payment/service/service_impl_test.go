package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/subtrack/internal/clock"
	"github.com/smallbiznis/subtrack/internal/payment/domain"
	"github.com/smallbiznis/subtrack/internal/payment/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE payments (
		id BIGINT PRIMARY KEY,
		subscription_id BIGINT NOT NULL,
		due_date TIMESTAMP NOT NULL,
		payment_date TIMESTAMP,
		payment_type TEXT,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error)
	return db
}

func newService(t *testing.T, db *gorm.DB, clk clock.Clock) domain.Service {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})
}

func subID(t *testing.T) snowflake.ID {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	return node.Generate()
}

func TestRecordDerivesStatusFromSettlement(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)
	subscription := subID(t)

	due := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	unpaid, err := svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: subscription.String(),
		DueDate:        due,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusUnpaid, unpaid.Status)
	assert.Equal(t, domain.PaymentTypeManual, unpaid.PaymentType, "type defaults to manual")
	assert.Nil(t, unpaid.PaymentDate)

	settled := due.AddDate(0, 0, 3)
	paid, err := svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: subscription.String(),
		DueDate:        due,
		PaymentDate:    &settled,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.True(t, paid.PaymentDate.Equal(settled))
}

func TestRecordRejectsEarlySettlement(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)

	due := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	early := due.AddDate(0, 0, -5)

	_, err := svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: subID(t).String(),
		DueDate:        due,
		PaymentDate:    &early,
	})
	assert.ErrorIs(t, err, domain.ErrEarlySettlement)
}

func TestRecordValidation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)

	_, err := svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: "not-a-number",
		DueDate:        time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSubscriptionID)

	_, err = svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: subID(t).String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDueDate)
}

func TestRecordUpsertsByID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)
	subscription := subID(t)

	due := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	created, err := svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: subscription.String(),
		DueDate:        due,
	})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	settled := due.AddDate(0, 0, 1)
	updated, err := svc.Record(ctx, domain.RecordPaymentRequest{
		ID:             created.ID.String(),
		SubscriptionID: subscription.String(),
		DueDate:        due,
		PaymentDate:    &settled,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, domain.PaymentStatusPaid, updated.Status)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "update keeps the original creation time")

	rows, err := svc.ListBySubscription(ctx, domain.ListBySubscriptionRequest{SubscriptionID: subscription.String()})
	require.NoError(t, err)
	assert.Len(t, rows, 1, "recording with a known id updates in place")

	// An unknown id inserts a new row under that id.
	fresh := subID(t)
	other, err := svc.Record(ctx, domain.RecordPaymentRequest{
		ID:             fresh.String(),
		SubscriptionID: subscription.String(),
		DueDate:        due.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, fresh, other.ID)

	rows, err = svc.ListBySubscription(ctx, domain.ListBySubscriptionRequest{SubscriptionID: subscription.String()})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRecordUpdateKeepsStoredDueDate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)
	subscription := subID(t)

	due := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	created, err := svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: subscription.String(),
		DueDate:        due,
	})
	require.NoError(t, err)

	// An update supplying a different due date does not move the stored
	// one; settlement is validated against the stored due date.
	settled := time.Date(2024, time.February, 21, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Record(ctx, domain.RecordPaymentRequest{
		ID:             created.ID.String(),
		SubscriptionID: subscription.String(),
		DueDate:        time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC),
		PaymentDate:    &settled,
	})
	require.NoError(t, err)
	assert.True(t, updated.DueDate.Equal(due))
	assert.Equal(t, subscription, updated.SubscriptionID)

	stored, err := svc.GetByID(ctx, domain.GetPaymentRequest{ID: created.ID.String()})
	require.NoError(t, err)
	assert.True(t, stored.DueDate.Equal(due))
	assert.Equal(t, domain.PaymentStatusPaid, stored.Status)
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	now := time.Date(2024, time.February, 5, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)
	svc := newService(t, db, clk)

	created, err := svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: subID(t).String(),
		DueDate:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.True(t, paid.PaymentDate.Equal(now))

	// Settling again moves the payment date to the new clock time.
	clk.Advance(24 * time.Hour)
	again, err := svc.MarkPaid(ctx, created.ID.String())
	require.NoError(t, err)
	require.NotNil(t, again.PaymentDate)
	assert.True(t, again.PaymentDate.Equal(now.Add(24*time.Hour)))
}

func TestMarkPaidUnknown(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)

	_, err := svc.MarkPaid(ctx, subID(t).String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.MarkPaid(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestDeletePayment(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)

	created, err := svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: subID(t).String(),
		DueDate:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))

	_, err = svc.GetByID(ctx, domain.GetPaymentRequest{ID: created.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID.String()), domain.ErrNotFound)
}

func TestListUnpaidBySubscription(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)
	subscription := subID(t)

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		req := domain.RecordPaymentRequest{
			SubscriptionID: subscription.String(),
			DueDate:        base.AddDate(0, i, 0),
		}
		if i == 0 {
			settled := base.AddDate(0, 0, 2)
			req.PaymentDate = &settled
		}
		_, err := svc.Record(ctx, req)
		require.NoError(t, err)
	}

	unpaid, err := svc.ListUnpaidBySubscription(ctx, domain.ListBySubscriptionRequest{SubscriptionID: subscription.String()})
	require.NoError(t, err)
	require.Len(t, unpaid, 2)
	for _, p := range unpaid {
		assert.NotEqual(t, domain.PaymentStatusPaid, p.Status)
	}
}

func TestListRecentOrdersSettledFirst(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)
	subscription := subID(t)

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	older := base.AddDate(0, 0, 1)
	newer := base.AddDate(0, 1, 2)

	_, err := svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: subscription.String(),
		DueDate:        base,
		PaymentDate:    &older,
	})
	require.NoError(t, err)

	_, err = svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: subscription.String(),
		DueDate:        base.AddDate(0, 2, 0),
	})
	require.NoError(t, err)

	_, err = svc.Record(ctx, domain.RecordPaymentRequest{
		SubscriptionID: subscription.String(),
		DueDate:        base.AddDate(0, 1, 0),
		PaymentDate:    &newer,
	})
	require.NoError(t, err)

	recent, err := svc.ListRecent(ctx, domain.ListRecentRequest{})
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Settled payments come first, newest settlement leading; rows with
	// no payment date trail the list.
	require.NotNil(t, recent[0].PaymentDate)
	assert.True(t, recent[0].PaymentDate.Equal(newer))
	require.NotNil(t, recent[1].PaymentDate)
	assert.True(t, recent[1].PaymentDate.Equal(older))
	assert.Nil(t, recent[2].PaymentDate)

	limited, err := svc.ListRecent(ctx, domain.ListRecentRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
