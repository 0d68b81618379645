package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// FindRate returns the rate for a (base, target) pair, or nil when no
	// rate is known.
	FindRate(ctx context.Context, db *gorm.DB, base, target string) (*ExchangeRate, error)
	List(ctx context.Context, db *gorm.DB) ([]ExchangeRate, error)
}
