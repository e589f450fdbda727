package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subtrack/internal/subscription/domain"
	"github.com/smallbiznis/subtrack/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, subscription *domain.Subscription) error {
	err := conn.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (id, service_name, price, start_date, end_date, status, kind, months_engaged, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		subscription.ID,
		subscription.ServiceName,
		subscription.Price,
		subscription.StartDate,
		subscription.EndDate,
		subscription.Status,
		subscription.Kind,
		subscription.MonthsEngaged,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	).Error
	return db.WrapErr("subscription.insert", err)
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Subscription, error) {
	var subscription domain.Subscription
	err := conn.WithContext(ctx).Raw(
		`SELECT id, service_name, price, start_date, end_date, status, kind, months_engaged, created_at, updated_at
		 FROM subscriptions WHERE id = ?`,
		id,
	).Scan(&subscription).Error
	if err != nil {
		return nil, db.WrapErr("subscription.find_by_id", err)
	}
	if subscription.ID == 0 {
		return nil, nil
	}
	return &subscription, nil
}

func (r *repo) FindAll(ctx context.Context, conn *gorm.DB) ([]domain.Subscription, error) {
	var subscriptions []domain.Subscription
	err := conn.WithContext(ctx).Raw(
		`SELECT id, service_name, price, start_date, end_date, status, kind, months_engaged, created_at, updated_at
		 FROM subscriptions ORDER BY service_name`,
	).Scan(&subscriptions).Error
	if err != nil {
		return nil, db.WrapErr("subscription.find_all", err)
	}
	return subscriptions, nil
}

func (r *repo) FindByStatus(ctx context.Context, conn *gorm.DB, status domain.SubscriptionStatus) ([]domain.Subscription, error) {
	var subscriptions []domain.Subscription
	err := conn.WithContext(ctx).Raw(
		`SELECT id, service_name, price, start_date, end_date, status, kind, months_engaged, created_at, updated_at
		 FROM subscriptions WHERE status = ? ORDER BY service_name`,
		status,
	).Scan(&subscriptions).Error
	if err != nil {
		return nil, db.WrapErr("subscription.find_by_status", err)
	}
	return subscriptions, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, subscription *domain.Subscription) error {
	err := conn.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET service_name = ?, price = ?, start_date = ?, end_date = ?, status = ?, kind = ?, months_engaged = ?, updated_at = ?
		 WHERE id = ?`,
		subscription.ServiceName,
		subscription.Price,
		subscription.StartDate,
		subscription.EndDate,
		subscription.Status,
		subscription.Kind,
		subscription.MonthsEngaged,
		subscription.UpdatedAt,
		subscription.ID,
	).Error
	return db.WrapErr("subscription.update", err)
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	err := conn.WithContext(ctx).Exec(
		`DELETE FROM subscriptions WHERE id = ?`,
		id,
	).Error
	return db.WrapErr("subscription.delete", err)
}
