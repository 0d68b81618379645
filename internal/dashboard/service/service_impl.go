package service

import (
	"context"
	"time"

	"github.com/celenganapp/celengan/internal/clock"
	currencydomain "github.com/celenganapp/celengan/internal/currency/domain"
	dashboarddomain "github.com/celenganapp/celengan/internal/dashboard/domain"
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

	clock clock.Clock

	transactionRepo transactiondomain.Repository
	currencysvc     currencydomain.Service
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock

	TransactionRepo transactiondomain.Repository
	Currencysvc     currencydomain.Service
}

func NewService(p ServiceParam) dashboarddomain.Service {
	return &Service{
		db:              p.DB,
		log:             p.Log.Named("dashboard.service"),
		clock:           p.Clock,
		transactionRepo: p.TransactionRepo,
		currencysvc:     p.Currencysvc,
	}
}

// Summary implements domain.Service.
func (s *Service) Summary(ctx context.Context) (dashboarddomain.Summary, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return dashboarddomain.Summary{}, dashboarddomain.ErrInvalidOwner
	}

	now := s.clock.Now().UTC()
	today := startOfDay(now)
	weekStart := startOfWeek(now)
	monthStart := startOfMonth(now)

	windows := []struct {
		from time.Time
		to   time.Time
	}{
		{today, today.AddDate(0, 0, 1)},
		{today.AddDate(0, 0, -1), today},
		{weekStart, weekStart.AddDate(0, 0, 7)},
		{weekStart.AddDate(0, 0, -7), weekStart},
		{monthStart, monthStart.AddDate(0, 1, 0)},
		{monthStart.AddDate(0, -1, 0), monthStart},
	}

	summary := dashboarddomain.Summary{Currency: s.currencysvc.ReportingCurrency()}
	dests := []*decimal.Decimal{
		&summary.SpentToday,
		&summary.SpentYesterday,
		&summary.SpentThisWeek,
		&summary.SpentLastWeek,
		&summary.SpentThisMonth,
		&summary.SpentLastMonth,
	}

	for i, window := range windows {
		total, err := s.transactionRepo.SumBetween(ctx, s.db, userID, window.from, window.to)
		if err != nil {
			return dashboarddomain.Summary{}, err
		}
		*dests[i] = total
	}

	return summary, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// startOfWeek returns the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
