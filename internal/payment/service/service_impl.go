package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celenganapp/celengan/internal/clock"
	"github.com/celenganapp/celengan/internal/config"
	currencydomain "github.com/celenganapp/celengan/internal/currency/domain"
	"github.com/celenganapp/celengan/internal/observability/metrics"
	paymentdomain "github.com/celenganapp/celengan/internal/payment/domain"
	"github.com/celenganapp/celengan/internal/projection"
	subscriptiondomain "github.com/celenganapp/celengan/internal/subscription/domain"
	transactiondomain "github.com/celenganapp/celengan/internal/transaction/domain"
	"github.com/celenganapp/celengan/internal/usercontext"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock

	repo             paymentdomain.Repository
	subscriptionRepo subscriptiondomain.Repository
	transactionRepo  transactiondomain.Repository
	currencysvc      currencydomain.Service

	metrics       *metrics.Metrics
	horizonMonths int
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	GenID *snowflake.Node
	Clock clock.Clock

	Repo             paymentdomain.Repository
	SubscriptionRepo subscriptiondomain.Repository
	TransactionRepo  transactiondomain.Repository
	Currencysvc      currencydomain.Service

	Metrics *metrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) paymentdomain.Service {
	horizon := p.Cfg.ProjectionHorizonMonths
	if horizon <= 0 {
		horizon = 12
	}
	return &Service{
		db:               p.DB,
		log:              p.Log.Named("payment.service"),
		genID:            p.GenID,
		clock:            p.Clock,
		repo:             p.Repo,
		subscriptionRepo: p.SubscriptionRepo,
		transactionRepo:  p.TransactionRepo,
		currencysvc:      p.Currencysvc,
		metrics:          p.Metrics,
		horizonMonths:    horizon,
	}
}

// ListUnpaid implements domain.Service.
//
// Active subscriptions are projected up to the horizon, the projected
// occurrences are materialized (insert-ignore, so repeated listings are
// stable), and the unsettled ones come back tagged with a normalized display
// amount.
func (s *Service) ListUnpaid(ctx context.Context, req paymentdomain.ListUnpaidRequest) (paymentdomain.ListUnpaidResponse, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return paymentdomain.ListUnpaidResponse{}, paymentdomain.ErrInvalidOwner
	}

	horizon := s.clock.Now().AddDate(0, s.horizonMonths, 0)
	if req.HorizonEndDate != nil {
		if req.HorizonEndDate.IsZero() {
			return paymentdomain.ListUnpaidResponse{}, paymentdomain.ErrInvalidHorizon
		}
		horizon = *req.HorizonEndDate
	}

	subscriptions, err := s.subscriptionRepo.List(ctx, s.db, userID)
	if err != nil {
		return paymentdomain.ListUnpaidResponse{}, err
	}

	if err := s.materialize(ctx, subscriptions, horizon); err != nil {
		return paymentdomain.ListUnpaidResponse{}, err
	}

	byID := make(map[snowflake.ID]subscriptiondomain.Subscription, len(subscriptions))
	ids := make([]snowflake.ID, 0, len(subscriptions))
	for _, sub := range subscriptions {
		byID[sub.ID] = sub
		ids = append(ids, sub.ID)
	}

	unpaid, err := s.repo.ListUnpaidBySubscriptionIDs(ctx, s.db, ids, horizon)
	if err != nil {
		return paymentdomain.ListUnpaidResponse{}, err
	}

	normalized := make(map[snowflake.ID]currencydomain.Money, len(subscriptions))
	occurrences := make([]paymentdomain.UnpaidOccurrence, 0, len(unpaid))
	summary := paymentdomain.UnpaidSummary{Currency: s.currencysvc.ReportingCurrency()}

	for _, payment := range unpaid {
		sub, found := byID[payment.SubscriptionID]
		if !found {
			continue
		}

		money, cached := normalized[sub.ID]
		if !cached {
			money, err = s.currencysvc.Normalize(ctx, sub.Amount, sub.Currency)
			if err != nil {
				return paymentdomain.ListUnpaidResponse{}, err
			}
			normalized[sub.ID] = money
		}

		occurrences = append(occurrences, paymentdomain.UnpaidOccurrence{
			PaymentID:            payment.ID,
			SubscriptionID:       sub.ID,
			ProviderName:         sub.ProviderName,
			ProjectedPaymentDate: payment.ProjectedPaymentDate,
			Amount:               sub.Amount,
			Currency:             sub.Currency,
			NormalizedAmount:     money.Amount,
			NormalizedCurrency:   money.Currency,
			Degraded:             money.Degraded,
			PaymentStatus:        payment.PaymentStatus,
		})

		summary.UnpaidCount++
		summary.TotalDue = summary.TotalDue.Add(money.Amount)
		summary.Degraded = summary.Degraded || money.Degraded
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		if !occurrences[i].ProjectedPaymentDate.Equal(occurrences[j].ProjectedPaymentDate) {
			return occurrences[i].ProjectedPaymentDate.Before(occurrences[j].ProjectedPaymentDate)
		}
		return occurrences[i].ProviderName < occurrences[j].ProviderName
	})

	return paymentdomain.ListUnpaidResponse{Payments: occurrences, Summary: summary}, nil
}

// Pay implements domain.Service.
//
// The protocol is strictly ordered: resolve the amount, write the ledger
// entry, then conditionally mark the occurrence paid. The conditional update
// is the commit point; if it does not land, the ledger entry is deleted
// before the error surfaces, so either both writes exist or neither does.
func (s *Service) Pay(ctx context.Context, req paymentdomain.PayRequest) (paymentdomain.PayResponse, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return paymentdomain.PayResponse{}, paymentdomain.ErrInvalidOwner
	}

	paymentID, err := snowflake.ParseString(strings.TrimSpace(req.PaymentID))
	if err != nil {
		return paymentdomain.PayResponse{}, paymentdomain.ErrInvalidPayment
	}

	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return paymentdomain.PayResponse{}, err
	}
	if payment == nil {
		return paymentdomain.PayResponse{}, paymentdomain.ErrPaymentNotFound
	}

	subscription, err := s.subscriptionRepo.FindByID(ctx, s.db, userID, payment.SubscriptionID)
	if err != nil {
		return paymentdomain.PayResponse{}, err
	}
	if subscription == nil {
		return paymentdomain.PayResponse{}, paymentdomain.ErrPaymentNotFound
	}

	switch payment.PaymentStatus {
	case paymentdomain.PaymentStatusUnpaid:
	case paymentdomain.PaymentStatusPaid:
		s.observe("already_paid")
		return paymentdomain.PayResponse{}, paymentdomain.ErrAlreadyPaid
	default:
		return paymentdomain.PayResponse{}, paymentdomain.ErrPaymentNotFound
	}

	amount, err := s.resolveAmount(ctx, req, subscription, payment)
	if err != nil {
		if errors.Is(err, paymentdomain.ErrCalculationMismatch) {
			s.observe("calculation_mismatch")
		}
		return paymentdomain.PayResponse{}, err
	}

	now := s.clock.Now()
	dueDate := payment.ProjectedPaymentDate.Format("2006-01-02")

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = paymentdomain.DefaultCategory
	}
	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = fmt.Sprintf("Payment for %s - %s", subscription.ProviderName, dueDate)
	}

	transaction := transactiondomain.Transaction{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Amount:    amount,
		Category:  category,
		Note:      note,
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.transactionRepo.Insert(ctx, s.db, &transaction); err != nil {
		return paymentdomain.PayResponse{}, err
	}

	won, markErr := s.repo.MarkPaid(ctx, s.db, payment.ID, transaction.ID, now)
	if markErr != nil || !won {
		if rollbackErr := s.rollback(ctx, payment.ID, transaction.ID, markErr); rollbackErr != nil {
			return paymentdomain.PayResponse{}, rollbackErr
		}
		if markErr != nil {
			return paymentdomain.PayResponse{}, markErr
		}
		// Conditional update found the row no longer unpaid: a concurrent
		// pay won the race. Our ledger entry is already gone.
		s.observe("conflict")
		return paymentdomain.PayResponse{}, paymentdomain.ErrAlreadyPaid
	}

	settled := *payment
	settled.PaymentStatus = paymentdomain.PaymentStatusPaid
	settled.TransactionID = &transaction.ID
	settled.PaidAt = &now
	settled.UpdatedAt = now

	s.observe("paid")
	s.log.Info("occurrence paid",
		zap.Int64("payment_id", int64(payment.ID)),
		zap.Int64("subscription_id", int64(subscription.ID)),
		zap.Int64("transaction_id", int64(transaction.ID)),
		zap.String("due_date", dueDate),
	)

	return paymentdomain.PayResponse{Transaction: transaction, Payment: settled}, nil
}

// resolveAmount returns the override when given, otherwise recomputes the
// normalized amount for this exact occurrence and verifies the occurrence
// date lies on the subscription's projected schedule.
func (s *Service) resolveAmount(ctx context.Context, req paymentdomain.PayRequest, subscription *subscriptiondomain.Subscription, payment *paymentdomain.SubscriptionPayment) (amount decimal.Decimal, err error) {
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return amount, paymentdomain.ErrInvalidPayment
		}
		return *req.Amount, nil
	}

	dates := projection.Expand(
		subscription.AnchorPaymentDate,
		subscription.Frequency.StepMonths(),
		payment.ProjectedPaymentDate,
	)

	matched := false
	for _, due := range dates {
		if projection.SameDate(due, payment.ProjectedPaymentDate) {
			matched = true
			break
		}
	}
	if !matched {
		return amount, paymentdomain.ErrCalculationMismatch
	}

	money, err := s.currencysvc.Normalize(ctx, subscription.Amount, subscription.Currency)
	if err != nil {
		return amount, err
	}
	return money.Amount, nil
}

// rollback deletes the ledger entry written in step 3. A failing rollback is
// the one state this service cannot repair: the occurrence is flagged failed
// and the caller gets ErrReconciliationFailed with both ids logged.
func (s *Service) rollback(ctx context.Context, paymentID, transactionID snowflake.ID, cause error) error {
	if err := s.transactionRepo.DeleteByID(ctx, s.db, transactionID); err != nil {
		s.log.Error("rollback failed, manual reconciliation needed",
			zap.Int64("payment_id", int64(paymentID)),
			zap.Int64("transaction_id", int64(transactionID)),
			zap.NamedError("mark_paid_error", cause),
			zap.Error(err),
		)
		if failErr := s.repo.MarkFailed(ctx, s.db, paymentID, s.clock.Now()); failErr != nil {
			s.log.Error("could not flag occurrence as failed",
				zap.Int64("payment_id", int64(paymentID)),
				zap.Error(failErr),
			)
		}
		s.observe("reconciliation_failed")
		return paymentdomain.ErrReconciliationFailed
	}
	return nil
}

func (s *Service) materialize(ctx context.Context, subscriptions []subscriptiondomain.Subscription, horizon time.Time) error {
	now := s.clock.Now()

	var rows []paymentdomain.SubscriptionPayment
	for _, sub := range subscriptions {
		for _, due := range projection.Expand(sub.AnchorPaymentDate, sub.Frequency.StepMonths(), horizon) {
			rows = append(rows, paymentdomain.SubscriptionPayment{
				ID:                   s.genID.Generate(),
				SubscriptionID:       sub.ID,
				OriginalPaymentDate:  sub.AnchorPaymentDate,
				ProjectedPaymentDate: due,
				PaymentStatus:        paymentdomain.PaymentStatusUnpaid,
				CreatedAt:            now,
				UpdatedAt:            now,
			})
		}
	}

	return s.repo.EnsureOccurrences(ctx, s.db, rows)
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObservePayment(result)
	}
}
