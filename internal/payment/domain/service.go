package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	transactiondomain "github.com/celenganapp/celengan/internal/transaction/domain"
	"github.com/shopspring/decimal"
)

// DefaultCategory is attached to ledger entries created by the pay protocol
// when the caller does not override it.
const DefaultCategory = "Subscriptions"

type ListUnpaidRequest struct {
	// HorizonEndDate bounds the projection; nil means now plus the
	// configured horizon.
	HorizonEndDate *time.Time
}

// UnpaidOccurrence is a due-date instance tagged with its settlement state
// and a display amount normalized into the reporting currency.
type UnpaidOccurrence struct {
	PaymentID            snowflake.ID    `json:"payment_id"`
	SubscriptionID       snowflake.ID    `json:"subscription_id"`
	ProviderName         string          `json:"provider_name"`
	ProjectedPaymentDate time.Time       `json:"projected_payment_date"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	NormalizedAmount     decimal.Decimal `json:"normalized_amount"`
	NormalizedCurrency   string          `json:"normalized_currency"`
	Degraded             bool            `json:"degraded,omitempty"`
	PaymentStatus        PaymentStatus   `json:"payment_status"`
}

type UnpaidSummary struct {
	UnpaidCount int64           `json:"unpaid_count"`
	TotalDue    decimal.Decimal `json:"total_due"`
	Currency    string          `json:"currency"`
	Degraded    bool            `json:"degraded,omitempty"`
}

type ListUnpaidResponse struct {
	Payments []UnpaidOccurrence `json:"payments"`
	Summary  UnpaidSummary      `json:"summary"`
}

type PayRequest struct {
	PaymentID string
	// Amount overrides the computed occurrence amount when set.
	Amount   *decimal.Decimal
	Category string
	Note     string
}

type PayResponse struct {
	Transaction transactiondomain.Transaction `json:"transaction"`
	Payment     SubscriptionPayment           `json:"payment"`
}

type Service interface {
	ListUnpaid(ctx context.Context, req ListUnpaidRequest) (ListUnpaidResponse, error)
	Pay(ctx context.Context, req PayRequest) (PayResponse, error)
}

var (
	ErrInvalidOwner   = errors.New("invalid_owner")
	ErrInvalidPayment = errors.New("invalid_payment")
	ErrInvalidHorizon = errors.New("invalid_horizon")

	// ErrPaymentNotFound covers absent, foreign-owned and failed occurrences.
	ErrPaymentNotFound = errors.New("payment_not_found")

	// ErrAlreadyPaid is the idempotency guard: the occurrence was settled,
	// either before this call or by a concurrent one.
	ErrAlreadyPaid = errors.New("payment_already_paid")

	// ErrCalculationMismatch means the resolved amount could not be matched
	// to the target occurrence. Never silently approximated.
	ErrCalculationMismatch = errors.New("calculation_mismatch")

	// ErrReconciliationFailed means the compensating rollback itself failed;
	// the transaction ledger and the occurrence ledger are inconsistent and
	// need manual intervention.
	ErrReconciliationFailed = errors.New("reconciliation_failed")
)
