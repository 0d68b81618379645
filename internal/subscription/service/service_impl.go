package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celenganapp/celengan/internal/clock"
	currencydomain "github.com/celenganapp/celengan/internal/currency/domain"
	paymentdomain "github.com/celenganapp/celengan/internal/payment/domain"
	subscriptiondomain "github.com/celenganapp/celengan/internal/subscription/domain"
	"github.com/celenganapp/celengan/internal/usercontext"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const monthsPerYear = 12

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock

	repo        subscriptiondomain.Repository
	paymentRepo paymentdomain.Repository
	currencysvc currencydomain.Service
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock

	Repo        subscriptiondomain.Repository
	PaymentRepo paymentdomain.Repository
	Currencysvc currencydomain.Service
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("subscription.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		paymentRepo: p.PaymentRepo,
		currencysvc: p.Currencysvc,
	}
}

// List implements domain.Service.
func (s *Service) List(ctx context.Context) ([]subscriptiondomain.Subscription, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, subscriptiondomain.ErrInvalidOwner
	}
	return s.repo.List(ctx, s.db, userID)
}

// GetByID implements domain.Service.
func (s *Service) GetByID(ctx context.Context, rawID string) (subscriptiondomain.Subscription, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidOwner
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidSubscription
	}

	subscription, err := s.repo.FindByID(ctx, s.db, userID, id)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	if subscription == nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrSubscriptionNotFound
	}
	return *subscription, nil
}

// Create implements domain.Service.
func (s *Service) Create(ctx context.Context, req subscriptiondomain.CreateSubscriptionRequest) (subscriptiondomain.Subscription, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidOwner
	}

	if err := validate(req.ProviderName, req.Amount, req.Currency, req.Frequency, req.AnchorPaymentDate); err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	now := s.clock.Now()
	subscription := subscriptiondomain.Subscription{
		ID:                s.genID.Generate(),
		UserID:            userID,
		ProviderName:      strings.TrimSpace(req.ProviderName),
		Amount:            req.Amount,
		Currency:          strings.ToUpper(strings.TrimSpace(req.Currency)),
		Frequency:         req.Frequency,
		AnchorPaymentDate: req.AnchorPaymentDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, s.db, &subscription); err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	return subscription, nil
}

// Update implements domain.Service.
//
// Changing the rule invalidates any projected occurrences that have not been
// settled, so unpaid rows are dropped and will re-materialize from the new
// rule on the next listing. Paid rows are history and never touched.
func (s *Service) Update(ctx context.Context, req subscriptiondomain.UpdateSubscriptionRequest) (subscriptiondomain.Subscription, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidOwner
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidSubscription
	}

	if err := validate(req.ProviderName, req.Amount, req.Currency, req.Frequency, req.AnchorPaymentDate); err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	subscription := subscriptiondomain.Subscription{
		ID:                id,
		UserID:            userID,
		ProviderName:      strings.TrimSpace(req.ProviderName),
		Amount:            req.Amount,
		Currency:          strings.ToUpper(strings.TrimSpace(req.Currency)),
		Frequency:         req.Frequency,
		AnchorPaymentDate: req.AnchorPaymentDate,
		UpdatedAt:         s.clock.Now(),
	}

	updated, err := s.repo.Update(ctx, s.db, &subscription)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	if !updated {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrSubscriptionNotFound
	}

	if err := s.paymentRepo.DeleteUnpaidBySubscription(ctx, s.db, id); err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	stored, err := s.repo.FindByID(ctx, s.db, userID, id)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	if stored == nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrSubscriptionNotFound
	}
	return *stored, nil
}

// Delete implements domain.Service.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return subscriptiondomain.ErrInvalidOwner
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return subscriptiondomain.ErrInvalidSubscription
	}

	deleted, err := s.repo.Delete(ctx, s.db, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return subscriptiondomain.ErrSubscriptionNotFound
	}

	return s.paymentRepo.DeleteUnpaidBySubscription(ctx, s.db, id)
}

// Summary implements domain.Service.
//
// Each subscription is normalized into the reporting currency and reduced to
// a monthly equivalent, annual cost divided by twelve, so mixed frequencies
// compare on the same axis.
func (s *Service) Summary(ctx context.Context) (subscriptiondomain.Summary, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return subscriptiondomain.Summary{}, subscriptiondomain.ErrInvalidOwner
	}

	subscriptions, err := s.repo.List(ctx, s.db, userID)
	if err != nil {
		return subscriptiondomain.Summary{}, err
	}

	summary := subscriptiondomain.Summary{
		Currency:    s.currencysvc.ReportingCurrency(),
		ActiveCount: int64(len(subscriptions)),
	}

	total := decimal.Zero
	for _, sub := range subscriptions {
		money, err := s.currencysvc.Normalize(ctx, sub.Amount, sub.Currency)
		if err != nil {
			return subscriptiondomain.Summary{}, err
		}
		summary.Degraded = summary.Degraded || money.Degraded

		perYear := money.Amount.Mul(decimal.NewFromInt(sub.Frequency.PaymentsPerYear()))
		total = total.Add(perYear.Div(decimal.NewFromInt(monthsPerYear)))
	}
	summary.MonthlyRecurringTotal = total.Round(2)

	return summary, nil
}

func validate(provider string, amount decimal.Decimal, currency string, frequency subscriptiondomain.Frequency, anchor time.Time) error {
	if strings.TrimSpace(provider) == "" {
		return subscriptiondomain.ErrInvalidProviderName
	}
	if !amount.IsPositive() {
		return subscriptiondomain.ErrInvalidAmount
	}
	if strings.TrimSpace(currency) == "" {
		return subscriptiondomain.ErrInvalidCurrency
	}
	if !frequency.Valid() {
		return subscriptiondomain.ErrInvalidFrequency
	}
	if anchor.IsZero() {
		return subscriptiondomain.ErrInvalidAnchorDate
	}
	return nil
}
