package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subtrack/internal/clock"
	"github.com/smallbiznis/subtrack/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payment.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordPaymentRequest) (domain.Payment, error) {
	subscriptionID, err := snowflake.ParseString(strings.TrimSpace(req.SubscriptionID))
	if err != nil || subscriptionID == 0 {
		return domain.Payment{}, domain.ErrInvalidSubscriptionID
	}

	paymentType := strings.TrimSpace(req.PaymentType)
	if paymentType == "" {
		paymentType = domain.PaymentTypeManual
	}

	// Status is derived from settlement, never trusted from the caller.
	status := domain.PaymentStatusUnpaid
	if req.PaymentDate != nil {
		status = domain.PaymentStatusPaid
	}

	now := s.clock.Now()
	payment := domain.Payment{
		SubscriptionID: subscriptionID,
		DueDate:        req.DueDate,
		PaymentDate:    req.PaymentDate,
		PaymentType:    paymentType,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var existing *domain.Payment
	if raw := strings.TrimSpace(req.ID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.Payment{}, domain.ErrInvalidID
		}
		payment.ID = id
		existing, err = s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return domain.Payment{}, err
		}
	}

	// Update persists settlement fields only; the stored subscription id
	// and due date are authoritative for validation and the result.
	if existing != nil {
		payment.SubscriptionID = existing.SubscriptionID
		payment.DueDate = existing.DueDate
	}

	if err := domain.Validate(&payment); err != nil {
		return domain.Payment{}, err
	}

	if existing == nil {
		if payment.ID == 0 {
			payment.ID = s.genID.Generate()
		}
		if err := s.repo.Insert(ctx, s.db, &payment); err != nil {
			return domain.Payment{}, err
		}
		return payment, nil
	}

	payment.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, s.db, &payment); err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPaymentRequest) (domain.Payment, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Payment{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if item == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ListBySubscription(ctx context.Context, req domain.ListBySubscriptionRequest) ([]domain.Payment, error) {
	subscriptionID, err := snowflake.ParseString(strings.TrimSpace(req.SubscriptionID))
	if err != nil || subscriptionID == 0 {
		return nil, domain.ErrInvalidSubscriptionID
	}
	return s.repo.FindBySubscription(ctx, s.db, subscriptionID)
}

func (s *Service) ListUnpaidBySubscription(ctx context.Context, req domain.ListBySubscriptionRequest) ([]domain.Payment, error) {
	subscriptionID, err := snowflake.ParseString(strings.TrimSpace(req.SubscriptionID))
	if err != nil || subscriptionID == 0 {
		return nil, domain.ErrInvalidSubscriptionID
	}
	return s.repo.FindUnpaidBySubscription(ctx, s.db, subscriptionID)
}

func (s *Service) ListRecent(ctx context.Context, req domain.ListRecentRequest) ([]domain.Payment, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	return s.repo.FindRecent(ctx, s.db, limit)
}

func (s *Service) MarkPaid(ctx context.Context, rawID string) (domain.Payment, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Payment{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if existing == nil {
		return domain.Payment{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	payment := *existing
	payment.PaymentDate = &now
	payment.Status = domain.PaymentStatusPaid
	payment.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, &payment); err != nil {
		return domain.Payment{}, err
	}

	s.log.Info("payment settled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("subscription_id", payment.SubscriptionID.String()),
	)

	return payment, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
