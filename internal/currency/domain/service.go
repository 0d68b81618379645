package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Service converts amounts into the reporting currency for unified display.
type Service interface {
	// Normalize converts an amount into the reporting currency. A missing
	// rate degrades to the unconverted amount rather than failing.
	Normalize(ctx context.Context, amount decimal.Decimal, currency string) (Money, error)

	// Convert converts between two arbitrary currencies, composing through
	// the reporting currency when neither side is the reporting currency.
	// Rounding happens once, on the final result.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (Money, error)

	// ReportingCurrency returns the configured reporting currency code.
	ReportingCurrency() string

	ListRates(ctx context.Context) ([]ExchangeRate, error)
}

var (
	ErrInvalidCurrency = errors.New("invalid_currency")
)
