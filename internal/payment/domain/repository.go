package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// EnsureOccurrences inserts projected occurrences, ignoring rows whose
	// (subscription_id, projected_payment_date) already exist. Re-running a
	// projection therefore never duplicates or resets an occurrence.
	EnsureOccurrences(ctx context.Context, db *gorm.DB, payments []SubscriptionPayment) error

	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SubscriptionPayment, error)

	ListUnpaidBySubscriptionIDs(ctx context.Context, db *gorm.DB, subscriptionIDs []snowflake.ID, until time.Time) ([]SubscriptionPayment, error)

	// MarkPaid is the commit point of the pay protocol: a conditional update
	// that succeeds only while the occurrence is still unpaid. The boolean
	// reports whether the row was won; losing the race is not an error.
	MarkPaid(ctx context.Context, db *gorm.DB, id, transactionID snowflake.ID, paidAt time.Time) (bool, error)

	// MarkFailed flags an occurrence for manual reconciliation after a
	// broken rollback.
	MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error

	// DeleteUnpaidBySubscription removes unsettled occurrences when the
	// owning subscription is deleted or its rule changes. Paid rows are
	// immutable history and stay.
	DeleteUnpaidBySubscription(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID) error
}
