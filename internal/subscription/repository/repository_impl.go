package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/celenganapp/celengan/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() subscriptiondomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, subscription *subscriptiondomain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (
			id, user_id, provider_name, amount, currency, frequency,
			anchor_payment_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		subscription.ID,
		subscription.UserID,
		subscription.ProviderName,
		subscription.Amount,
		subscription.Currency,
		subscription.Frequency,
		subscription.AnchorPaymentDate,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID string, id snowflake.ID) (*subscriptiondomain.Subscription, error) {
	var subscription subscriptiondomain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, provider_name, amount, currency, frequency,
		 anchor_payment_date, created_at, updated_at
		 FROM subscriptions WHERE user_id = ? AND id = ?`,
		userID,
		id,
	).Scan(&subscription).Error
	if err != nil {
		return nil, err
	}
	if subscription.ID == 0 {
		return nil, nil
	}
	return &subscription, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, userID string) ([]subscriptiondomain.Subscription, error) {
	var subscriptions []subscriptiondomain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, provider_name, amount, currency, frequency,
		 anchor_payment_date, created_at, updated_at
		 FROM subscriptions
		 WHERE user_id = ?
		 ORDER BY anchor_payment_date ASC, created_at ASC`,
		userID,
	).Scan(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, subscription *subscriptiondomain.Subscription) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET provider_name = ?, amount = ?, currency = ?, frequency = ?,
		     anchor_payment_date = ?, updated_at = ?
		 WHERE user_id = ? AND id = ?`,
		subscription.ProviderName,
		subscription.Amount,
		subscription.Currency,
		subscription.Frequency,
		subscription.AnchorPaymentDate,
		subscription.UpdatedAt,
		subscription.UserID,
		subscription.ID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID string, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`DELETE FROM subscriptions WHERE user_id = ? AND id = ?`,
		userID,
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
