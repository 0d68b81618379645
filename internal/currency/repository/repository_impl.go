package repository

import (
	"context"

	currencydomain "github.com/celenganapp/celengan/internal/currency/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() currencydomain.Repository {
	return &repo{}
}

func (r *repo) FindRate(ctx context.Context, db *gorm.DB, base, target string) (*currencydomain.ExchangeRate, error) {
	var rate currencydomain.ExchangeRate
	err := db.WithContext(ctx).Raw(
		`SELECT id, base_currency, target_currency, rate, last_updated
		 FROM exchange_rates
		 WHERE base_currency = ? AND target_currency = ?
		 LIMIT 1`,
		base,
		target,
	).Scan(&rate).Error
	if err != nil {
		return nil, err
	}
	if rate.ID == 0 {
		return nil, nil
	}
	return &rate, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]currencydomain.ExchangeRate, error) {
	var rates []currencydomain.ExchangeRate
	err := db.WithContext(ctx).Raw(
		`SELECT id, base_currency, target_currency, rate, last_updated
		 FROM exchange_rates
		 ORDER BY base_currency ASC, target_currency ASC`,
	).Scan(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}
