package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/celenganapp/celengan/internal/payment/domain"
	pkgdb "github.com/celenganapp/celengan/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() paymentdomain.Repository {
	return &repo{}
}

func (r *repo) EnsureOccurrences(ctx context.Context, db *gorm.DB, payments []paymentdomain.SubscriptionPayment) error {
	if len(payments) == 0 {
		return nil
	}

	for _, payment := range payments {
		err := db.WithContext(ctx).Exec(
			`INSERT INTO subscription_payments (
				id, subscription_id, original_payment_date, projected_payment_date,
				payment_status, transaction_id, paid_at, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, NULL, NULL, ?, ?)`,
			payment.ID,
			payment.SubscriptionID,
			payment.OriginalPaymentDate,
			payment.ProjectedPaymentDate,
			payment.PaymentStatus,
			payment.CreatedAt,
			payment.UpdatedAt,
		).Error
		if err != nil {
			// The occurrence unique index makes re-projection a no-op.
			if pkgdb.IsDuplicateKeyErr(err) {
				continue
			}
			return err
		}
	}

	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*paymentdomain.SubscriptionPayment, error) {
	var payment paymentdomain.SubscriptionPayment
	err := db.WithContext(ctx).Raw(
		`SELECT id, subscription_id, original_payment_date, projected_payment_date,
		 payment_status, transaction_id, paid_at, created_at, updated_at
		 FROM subscription_payments WHERE id = ?`,
		id,
	).Scan(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) ListUnpaidBySubscriptionIDs(ctx context.Context, db *gorm.DB, subscriptionIDs []snowflake.ID, until time.Time) ([]paymentdomain.SubscriptionPayment, error) {
	if len(subscriptionIDs) == 0 {
		return nil, nil
	}

	var payments []paymentdomain.SubscriptionPayment
	err := db.WithContext(ctx).Raw(
		`SELECT id, subscription_id, original_payment_date, projected_payment_date,
		 payment_status, transaction_id, paid_at, created_at, updated_at
		 FROM subscription_payments
		 WHERE subscription_id IN ? AND payment_status = ? AND projected_payment_date <= ?
		 ORDER BY projected_payment_date ASC`,
		subscriptionIDs,
		paymentdomain.PaymentStatusUnpaid,
		until,
	).Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id, transactionID snowflake.ID, paidAt time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE subscription_payments
		 SET payment_status = ?, transaction_id = ?, paid_at = ?, updated_at = ?
		 WHERE id = ? AND payment_status = ?`,
		paymentdomain.PaymentStatusPaid,
		transactionID,
		paidAt,
		paidAt,
		id,
		paymentdomain.PaymentStatusUnpaid,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscription_payments
		 SET payment_status = ?, updated_at = ?
		 WHERE id = ? AND payment_status = ?`,
		paymentdomain.PaymentStatusFailed,
		at,
		id,
		paymentdomain.PaymentStatusUnpaid,
	).Error
}

func (r *repo) DeleteUnpaidBySubscription(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM subscription_payments
		 WHERE subscription_id = ? AND payment_status = ?`,
		subscriptionID,
		paymentdomain.PaymentStatusUnpaid,
	).Error
}
