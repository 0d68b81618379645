package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, transaction *Transaction) error
	FindByID(ctx context.Context, db *gorm.DB, userID string, id snowflake.ID) (*Transaction, error)
	List(ctx context.Context, db *gorm.DB, userID string, limit, offset int) ([]Transaction, error)
	Update(ctx context.Context, db *gorm.DB, transaction *Transaction) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, userID string, id snowflake.ID) (bool, error)

	// DeleteByID removes a ledger entry unconditionally. Reserved for the
	// pay protocol's compensating rollback.
	DeleteByID(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// SumBetween totals spending in [from, to) for dashboard aggregation.
	SumBetween(ctx context.Context, db *gorm.DB, userID string, from, to time.Time) (decimal.Decimal, error)
}
