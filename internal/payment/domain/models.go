// Package domain contains the payment-occurrence ledger for subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PaymentStatus represents the lifecycle state of an occurrence.
//
// unpaid -> paid is the success path. unpaid -> failed is only reachable when
// the pay protocol's compensating rollback itself fails; it marks a row that
// needs manual reconciliation, not a normal business outcome.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusFailed PaymentStatus = "failed"
)

// SubscriptionPayment is one materialized due-date occurrence of a
// subscription. Projection computes occurrences on demand; a row exists here
// once the unpaid listing materializes it, keyed uniquely by
// (subscription_id, projected_payment_date).
//
// Invariant: payment_status = paid exactly when transaction_id and paid_at
// are both set.
type SubscriptionPayment struct {
	ID                   snowflake.ID  `gorm:"primaryKey" json:"id"`
	SubscriptionID       snowflake.ID  `gorm:"not null;uniqueIndex:idx_subscription_payments_occurrence" json:"subscription_id"`
	OriginalPaymentDate  time.Time     `gorm:"not null" json:"original_payment_date"`
	ProjectedPaymentDate time.Time     `gorm:"not null;uniqueIndex:idx_subscription_payments_occurrence" json:"projected_payment_date"`
	PaymentStatus        PaymentStatus `gorm:"type:text;not null;default:unpaid" json:"payment_status"`
	TransactionID        *snowflake.ID `gorm:"index" json:"transaction_id,omitempty"`
	PaidAt               *time.Time    `json:"paid_at,omitempty"`
	CreatedAt            time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (SubscriptionPayment) TableName() string { return "subscription_payments" }
