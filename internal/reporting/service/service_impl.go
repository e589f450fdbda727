package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/smallbiznis/subtrack/internal/payment/domain"
	"github.com/smallbiznis/subtrack/internal/reporting/domain"
	subscriptiondomain "github.com/smallbiznis/subtrack/internal/subscription/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB               *gorm.DB
	Log              *zap.Logger
	SubscriptionRepo subscriptiondomain.Repository
	PaymentRepo      paymentdomain.Repository
}

type Service struct {
	db               *gorm.DB
	log              *zap.Logger
	subscriptionRepo subscriptiondomain.Repository
	paymentRepo      paymentdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:               p.DB,
		log:              p.Log.Named("reporting.service"),
		subscriptionRepo: p.SubscriptionRepo,
		paymentRepo:      p.PaymentRepo,
	}
}

func (s *Service) TotalPaidForSubscription(ctx context.Context, req domain.SubscriptionTotalRequest) (decimal.Decimal, error) {
	subscriptionID, err := s.parseID(req.SubscriptionID)
	if err != nil {
		return decimal.Zero, err
	}

	subscription, err := s.subscriptionRepo.FindByID(ctx, s.db, subscriptionID)
	if err != nil {
		return decimal.Zero, err
	}
	if subscription == nil {
		return decimal.Zero, nil
	}

	payments, err := s.paymentRepo.FindBySubscription(ctx, s.db, subscriptionID)
	if err != nil {
		return decimal.Zero, err
	}

	paid := 0
	for _, p := range payments {
		if p.IsPaid() {
			paid++
		}
	}
	return subscription.Price.Mul(decimal.NewFromInt(int64(paid))), nil
}

func (s *Service) TotalUnpaidForSubscription(ctx context.Context, req domain.SubscriptionTotalRequest) (decimal.Decimal, error) {
	subscriptionID, err := s.parseID(req.SubscriptionID)
	if err != nil {
		return decimal.Zero, err
	}

	subscription, err := s.subscriptionRepo.FindByID(ctx, s.db, subscriptionID)
	if err != nil {
		return decimal.Zero, err
	}
	if subscription == nil {
		return decimal.Zero, nil
	}

	unpaid, err := s.paymentRepo.FindUnpaidBySubscription(ctx, s.db, subscriptionID)
	if err != nil {
		return decimal.Zero, err
	}
	return subscription.Price.Mul(decimal.NewFromInt(int64(len(unpaid)))), nil
}

func (s *Service) TotalPaidForMonth(ctx context.Context, req domain.MonthTotalRequest) (decimal.Decimal, error) {
	if req.Year <= 0 || req.Month < time.January || req.Month > time.December {
		return decimal.Zero, domain.ErrInvalidPeriod
	}
	return s.sumSettled(ctx, func(settledAt time.Time) bool {
		return settledAt.Year() == req.Year && settledAt.Month() == req.Month
	})
}

func (s *Service) TotalPaidForYear(ctx context.Context, req domain.YearTotalRequest) (decimal.Decimal, error) {
	if req.Year <= 0 {
		return decimal.Zero, domain.ErrInvalidPeriod
	}
	return s.sumSettled(ctx, func(settledAt time.Time) bool {
		return settledAt.Year() == req.Year
	})
}

// sumSettled walks every payment with a settlement date matching the
// period and adds the referenced subscription's current price. Lookups
// are cached per invocation; an unresolvable subscription adds zero.
func (s *Service) sumSettled(ctx context.Context, inPeriod func(time.Time) bool) (decimal.Decimal, error) {
	payments, err := s.paymentRepo.FindAll(ctx, s.db)
	if err != nil {
		return decimal.Zero, err
	}

	prices := make(map[snowflake.ID]*decimal.Decimal)
	total := decimal.Zero
	for _, p := range payments {
		if p.PaymentDate == nil || !inPeriod(p.PaymentDate.UTC()) {
			continue
		}

		price, ok := prices[p.SubscriptionID]
		if !ok {
			subscription, err := s.subscriptionRepo.FindByID(ctx, s.db, p.SubscriptionID)
			if err != nil {
				return decimal.Zero, err
			}
			if subscription != nil {
				price = &subscription.Price
			}
			prices[p.SubscriptionID] = price
		}
		if price == nil {
			continue
		}
		total = total.Add(*price)
	}
	return total, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidSubscriptionID
	}
	return id, nil
}
