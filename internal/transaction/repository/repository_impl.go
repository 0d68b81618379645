package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	transactiondomain "github.com/celenganapp/celengan/internal/transaction/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() transactiondomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, transaction *transactiondomain.Transaction) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO transactions (
			id, user_id, amount, category, note, date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		transaction.ID,
		transaction.UserID,
		transaction.Amount,
		transaction.Category,
		transaction.Note,
		transaction.Date,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID string, id snowflake.ID) (*transactiondomain.Transaction, error) {
	var transaction transactiondomain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, amount, category, note, date, created_at, updated_at
		 FROM transactions WHERE user_id = ? AND id = ?`,
		userID,
		id,
	).Scan(&transaction).Error
	if err != nil {
		return nil, err
	}
	if transaction.ID == 0 {
		return nil, nil
	}
	return &transaction, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, userID string, limit, offset int) ([]transactiondomain.Transaction, error) {
	var transactions []transactiondomain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, amount, category, note, date, created_at, updated_at
		 FROM transactions
		 WHERE user_id = ?
		 ORDER BY date DESC, created_at DESC
		 LIMIT ? OFFSET ?`,
		userID,
		limit,
		offset,
	).Scan(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, transaction *transactiondomain.Transaction) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE transactions
		 SET amount = ?, category = ?, note = ?, date = ?, updated_at = ?
		 WHERE user_id = ? AND id = ?`,
		transaction.Amount,
		transaction.Category,
		transaction.Note,
		transaction.Date,
		transaction.UpdatedAt,
		transaction.UserID,
		transaction.ID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID string, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`DELETE FROM transactions WHERE user_id = ? AND id = ?`,
		userID,
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) DeleteByID(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM transactions WHERE id = ?`,
		id,
	).Error
}

func (r *repo) SumBetween(ctx context.Context, db *gorm.DB, userID string, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) AS total
		 FROM transactions
		 WHERE user_id = ? AND date >= ? AND date < ?`,
		userID,
		from,
		to,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
