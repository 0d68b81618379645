// Package domain defines the dashboard aggregation contract.
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Summary holds spending totals for the comparison windows the dashboard
// renders. Weeks start on Monday; all windows are computed in UTC.
type Summary struct {
	SpentToday     decimal.Decimal `json:"spent_today"`
	SpentYesterday decimal.Decimal `json:"spent_yesterday"`
	SpentThisWeek  decimal.Decimal `json:"spent_this_week"`
	SpentLastWeek  decimal.Decimal `json:"spent_last_week"`
	SpentThisMonth decimal.Decimal `json:"spent_this_month"`
	SpentLastMonth decimal.Decimal `json:"spent_last_month"`
	Currency       string          `json:"currency"`
}

type Service interface {
	Summary(ctx context.Context) (Summary, error)
}

var ErrInvalidOwner = errors.New("invalid_owner")
