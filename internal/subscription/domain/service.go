package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreateSubscriptionRequest struct {
	ProviderName      string
	Amount            decimal.Decimal
	Currency          string
	Frequency         Frequency
	AnchorPaymentDate time.Time
}

type UpdateSubscriptionRequest struct {
	ID                string
	ProviderName      string
	Amount            decimal.Decimal
	Currency          string
	Frequency         Frequency
	AnchorPaymentDate time.Time
}

// Summary aggregates a user's active subscriptions into a monthly-equivalent
// total in the reporting currency.
type Summary struct {
	MonthlyRecurringTotal decimal.Decimal `json:"monthly_recurring_total"`
	Currency              string          `json:"currency"`
	ActiveCount           int64           `json:"active_count"`
	Degraded              bool            `json:"degraded,omitempty"`
}

type Service interface {
	List(ctx context.Context) ([]Subscription, error)
	GetByID(ctx context.Context, id string) (Subscription, error)
	Create(ctx context.Context, req CreateSubscriptionRequest) (Subscription, error)
	Update(ctx context.Context, req UpdateSubscriptionRequest) (Subscription, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (Summary, error)
}

var (
	ErrInvalidOwner         = errors.New("invalid_owner")
	ErrInvalidSubscription  = errors.New("invalid_subscription")
	ErrInvalidProviderName  = errors.New("invalid_provider_name")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidCurrency      = errors.New("invalid_currency")
	ErrInvalidFrequency     = errors.New("invalid_frequency")
	ErrInvalidAnchorDate    = errors.New("invalid_anchor_payment_date")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
)
