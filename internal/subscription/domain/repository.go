package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Subscription, error)
	FindByStatus(ctx context.Context, db *gorm.DB, status SubscriptionStatus) ([]Subscription, error)
	Update(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
