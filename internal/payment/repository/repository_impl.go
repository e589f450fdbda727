package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subtrack/internal/payment/domain"
	"github.com/smallbiznis/subtrack/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, payment *domain.Payment) error {
	err := conn.WithContext(ctx).Exec(
		`INSERT INTO payments (id, subscription_id, due_date, payment_date, payment_type, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.SubscriptionID,
		payment.DueDate,
		payment.PaymentDate,
		payment.PaymentType,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Error
	return db.WrapErr("payment.insert", err)
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := conn.WithContext(ctx).Raw(
		`SELECT id, subscription_id, due_date, payment_date, payment_type, status, created_at, updated_at
		 FROM payments WHERE id = ?`,
		id,
	).Scan(&payment).Error
	if err != nil {
		return nil, db.WrapErr("payment.find_by_id", err)
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) FindBySubscription(ctx context.Context, conn *gorm.DB, subscriptionID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := conn.WithContext(ctx).Raw(
		`SELECT id, subscription_id, due_date, payment_date, payment_type, status, created_at, updated_at
		 FROM payments WHERE subscription_id = ? ORDER BY due_date DESC`,
		subscriptionID,
	).Scan(&payments).Error
	if err != nil {
		return nil, db.WrapErr("payment.find_by_subscription", err)
	}
	return payments, nil
}

func (r *repo) FindUnpaidBySubscription(ctx context.Context, conn *gorm.DB, subscriptionID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := conn.WithContext(ctx).Raw(
		`SELECT id, subscription_id, due_date, payment_date, payment_type, status, created_at, updated_at
		 FROM payments WHERE subscription_id = ? AND status <> ? ORDER BY due_date DESC`,
		subscriptionID,
		domain.PaymentStatusPaid,
	).Scan(&payments).Error
	if err != nil {
		return nil, db.WrapErr("payment.find_unpaid_by_subscription", err)
	}
	return payments, nil
}

func (r *repo) FindAll(ctx context.Context, conn *gorm.DB) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := conn.WithContext(ctx).Raw(
		`SELECT id, subscription_id, due_date, payment_date, payment_type, status, created_at, updated_at
		 FROM payments ORDER BY due_date DESC`,
	).Scan(&payments).Error
	if err != nil {
		return nil, db.WrapErr("payment.find_all", err)
	}
	return payments, nil
}

func (r *repo) FindRecent(ctx context.Context, conn *gorm.DB, limit int) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := conn.WithContext(ctx).Raw(
		`SELECT id, subscription_id, due_date, payment_date, payment_type, status, created_at, updated_at
		 FROM payments
		 ORDER BY CASE WHEN payment_date IS NULL THEN 1 ELSE 0 END, payment_date DESC
		 LIMIT ?`,
		limit,
	).Scan(&payments).Error
	if err != nil {
		return nil, db.WrapErr("payment.find_recent", err)
	}
	return payments, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, payment *domain.Payment) error {
	err := conn.WithContext(ctx).Exec(
		`UPDATE payments SET payment_date = ?, payment_type = ?, status = ?, updated_at = ? WHERE id = ?`,
		payment.PaymentDate,
		payment.PaymentType,
		payment.Status,
		payment.UpdatedAt,
		payment.ID,
	).Error
	return db.WrapErr("payment.update", err)
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	err := conn.WithContext(ctx).Exec(
		`DELETE FROM payments WHERE id = ?`,
		id,
	).Error
	return db.WrapErr("payment.delete", err)
}
