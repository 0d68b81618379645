package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	Amount   decimal.Decimal
	Category string
	Note     string
	Date     time.Time
}

type UpdateTransactionRequest struct {
	ID       string
	Amount   decimal.Decimal
	Category string
	Note     string
	Date     time.Time
}

type ListTransactionRequest struct {
	Limit  int
	Offset int
}

type Service interface {
	List(ctx context.Context, req ListTransactionRequest) ([]Transaction, error)
	Create(ctx context.Context, req CreateTransactionRequest) (Transaction, error)
	Update(ctx context.Context, req UpdateTransactionRequest) (Transaction, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOwner        = errors.New("invalid_owner")
	ErrInvalidTransaction  = errors.New("invalid_transaction")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidCategory     = errors.New("invalid_category")
	ErrInvalidDate         = errors.New("invalid_date")
	ErrTransactionNotFound = errors.New("transaction_not_found")
)
