package service

import (
	"context"
	"strings"

	"github.com/celenganapp/celengan/internal/config"
	currencydomain "github.com/celenganapp/celengan/internal/currency/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	repo      currencydomain.Repository
	reporting string
}

type ServiceParam struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Cfg  config.Config
	Repo currencydomain.Repository
}

func NewService(p ServiceParam) currencydomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("currency.service"),
		repo:      p.Repo,
		reporting: strings.ToUpper(p.Cfg.ReportingCurrency),
	}
}

// ReportingCurrency implements domain.Service.
func (s *Service) ReportingCurrency() string { return s.reporting }

// Normalize implements domain.Service.
func (s *Service) Normalize(ctx context.Context, amount decimal.Decimal, currency string) (currencydomain.Money, error) {
	return s.Convert(ctx, amount, currency, s.reporting)
}

// Convert implements domain.Service.
//
// Conversion composes through the reporting currency: source to reporting
// multiplies by the source rate, reporting to target divides by the target
// rate (reciprocal arithmetic). The result is rounded exactly once. When a
// required rate is missing the original amount comes back with Degraded set;
// the UI must never block on missing market data.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (currencydomain.Money, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return currencydomain.Money{}, currencydomain.ErrInvalidCurrency
	}

	if from == to {
		return currencydomain.Money{Amount: amount, Currency: to}, nil
	}

	result := amount

	if from != s.reporting {
		rate, err := s.repo.FindRate(ctx, s.db, from, s.reporting)
		if err != nil {
			return currencydomain.Money{}, err
		}
		if rate == nil || !rate.Rate.IsPositive() {
			s.log.Debug("no rate available, returning unconverted amount",
				zap.String("base", from),
				zap.String("target", s.reporting),
			)
			return currencydomain.Money{Amount: amount, Currency: from, Degraded: true}, nil
		}
		result = result.Mul(rate.Rate)
	}

	if to != s.reporting {
		rate, err := s.repo.FindRate(ctx, s.db, to, s.reporting)
		if err != nil {
			return currencydomain.Money{}, err
		}
		if rate == nil || !rate.Rate.IsPositive() {
			s.log.Debug("no rate available, returning unconverted amount",
				zap.String("base", to),
				zap.String("target", s.reporting),
			)
			return currencydomain.Money{Amount: amount, Currency: from, Degraded: true}, nil
		}
		result = result.Div(rate.Rate)
	}

	return currencydomain.Money{
		Amount:   result.Round(minorUnits(to)),
		Currency: to,
	}, nil
}

// ListRates implements domain.Service.
func (s *Service) ListRates(ctx context.Context) ([]currencydomain.ExchangeRate, error) {
	return s.repo.List(ctx, s.db)
}

// minorUnits returns the number of decimal places conventionally used for a
// currency. Zero-decimal currencies round to whole units.
func minorUnits(currency string) int32 {
	switch currency {
	case "IDR", "JPY", "KRW", "VND":
		return 0
	default:
		return 2
	}
}
