package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	FindBySubscription(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID) ([]Payment, error)
	FindUnpaidBySubscription(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID) ([]Payment, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Payment, error)
	FindRecent(ctx context.Context, db *gorm.DB, limit int) ([]Payment, error)
	// Update is the direct write path: it persists the caller-supplied
	// status as-is, without the derivation Record applies.
	Update(ctx context.Context, db *gorm.DB, payment *Payment) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
