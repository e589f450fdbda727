package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subtrack/internal/clock"
	"github.com/smallbiznis/subtrack/internal/config"
	paymentdomain "github.com/smallbiznis/subtrack/internal/payment/domain"
	"github.com/smallbiznis/subtrack/internal/schedule"
	"github.com/smallbiznis/subtrack/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Cfg         config.Config
	Repo        domain.Repository
	PaymentRepo paymentdomain.Repository
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	horizonMonths int
	repo          domain.Repository
	paymentRepo   paymentdomain.Repository
}

func New(p Params) domain.Service {
	horizon := p.Cfg.ScheduleHorizonMonths
	if horizon <= 0 {
		horizon = 12
	}
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("subscription.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		horizonMonths: horizon,
		repo:          p.Repo,
		paymentRepo:   p.PaymentRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSubscriptionRequest) (domain.Subscription, error) {
	status := req.Status
	if status == "" {
		status = domain.SubscriptionStatusActive
	}

	now := s.clock.Now()
	subscription := domain.Subscription{
		ID:            s.genID.Generate(),
		ServiceName:   strings.TrimSpace(req.ServiceName),
		Price:         req.Price,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        status,
		Kind:          req.Kind,
		MonthsEngaged: req.MonthsEngaged,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := domain.Validate(&subscription); err != nil {
		return domain.Subscription{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &subscription); err != nil {
		return domain.Subscription{}, err
	}

	// Schedule generation is best-effort after the insert; there is no
	// cross-store transaction, so a failure here leaves the subscription
	// persisted with partial payments.
	created, err := s.generateForSubscription(ctx, &subscription)
	if err != nil {
		return domain.Subscription{}, err
	}

	s.log.Info("subscription created",
		zap.String("subscription_id", subscription.ID.String()),
		zap.String("kind", string(subscription.Kind)),
		zap.Int("payments_generated", created),
	)

	return subscription, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetSubscriptionRequest) (domain.Subscription, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Subscription{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	if item == nil {
		return domain.Subscription{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Subscription, error) {
	return s.repo.FindAll(ctx, s.db)
}

func (s *Service) ListActive(ctx context.Context) ([]domain.Subscription, error) {
	return s.repo.FindByStatus(ctx, s.db, domain.SubscriptionStatusActive)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSubscriptionRequest) (domain.Subscription, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Subscription{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	if existing == nil {
		return domain.Subscription{}, domain.ErrNotFound
	}

	subscription := *existing
	if name := strings.TrimSpace(req.ServiceName); name != "" {
		subscription.ServiceName = name
	}
	if req.Price != nil {
		subscription.Price = *req.Price
	}
	if req.EndDate != nil {
		subscription.EndDate = req.EndDate
	}
	if req.Status != "" {
		subscription.Status = req.Status
	}
	if subscription.IsFixed() && req.MonthsEngaged > 0 {
		subscription.MonthsEngaged = req.MonthsEngaged
	}
	subscription.UpdatedAt = s.clock.Now()

	if err := domain.Validate(&subscription); err != nil {
		return domain.Subscription{}, err
	}
	if err := s.repo.Update(ctx, s.db, &subscription); err != nil {
		return domain.Subscription{}, err
	}
	return subscription, nil
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

	// Payments referencing this subscription are left untouched.
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) GeneratePayments(ctx context.Context, rawID string) (int, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return 0, err
	}

	subscription, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return 0, err
	}
	if subscription == nil {
		return 0, domain.ErrNotFound
	}

	return s.generateForSubscription(ctx, subscription)
}

// generateForSubscription walks the monthly schedule between the start
// date and the end date (or the horizon when none is set), inserting an
// UNPAID "auto" payment for each due date that has no row yet. For FIXED
// subscriptions the cap counts rows created in this invocation only, not
// the cumulative total.
func (s *Service) generateForSubscription(ctx context.Context, subscription *domain.Subscription) (int, error) {
	end := s.clock.Now().AddDate(0, s.horizonMonths, 0)
	if subscription.EndDate != nil {
		end = *subscription.EndDate
	}

	dates := schedule.MonthlyDueDates(subscription.StartDate, end)
	if len(dates) == 0 {
		return 0, nil
	}

	existing, err := s.paymentRepo.FindBySubscription(ctx, s.db, subscription.ID)
	if err != nil {
		return 0, err
	}
	existingDue := make(map[int64]struct{}, len(existing))
	for _, p := range existing {
		existingDue[p.DueDate.UTC().UnixNano()] = struct{}{}
	}

	now := s.clock.Now()
	created := 0
	for _, due := range dates {
		if _, ok := existingDue[due.UTC().UnixNano()]; ok {
			continue
		}

		payment := paymentdomain.Payment{
			ID:             s.genID.Generate(),
			SubscriptionID: subscription.ID,
			DueDate:        due,
			PaymentType:    paymentdomain.PaymentTypeAuto,
			Status:         paymentdomain.PaymentStatusUnpaid,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.paymentRepo.Insert(ctx, s.db, &payment); err != nil {
			return created, err
		}
		created++

		if subscription.IsFixed() && created >= subscription.MonthsEngaged {
			break
		}
	}

	return created, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
