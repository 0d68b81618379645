package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celenganapp/celengan/internal/clock"
	transactiondomain "github.com/celenganapp/celengan/internal/transaction/domain"
	"github.com/celenganapp/celengan/internal/transaction/repository"
	"github.com/celenganapp/celengan/internal/usercontext"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTransactionTest(t *testing.T) (*gorm.DB, *Service) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&transactiondomain.Transaction{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:    db,
		log:   zap.NewNop(),
		genID: node,
		clock: clock.NewFakeClock(time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)),
		repo:  repository.Provide(),
	}
	return db, svc
}

func TestCreate_PersistsTransaction(t *testing.T) {
	_, svc := setupTransactionTest(t)
	ctx := usercontext.WithUserID(context.Background(), "user-1")

	tx, err := svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Amount:   decimal.NewFromInt(50000),
		Category: " Food ",
		Note:     "lunch",
		Date:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.NotZero(t, tx.ID)
	assert.Equal(t, "Food", tx.Category)
	assert.Equal(t, "user-1", tx.UserID)

	items, err := svc.List(ctx, transactiondomain.ListTransactionRequest{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Amount.Equal(decimal.NewFromInt(50000)))
}

func TestCreate_Validation(t *testing.T) {
	_, svc := setupTransactionTest(t)
	ctx := usercontext.WithUserID(context.Background(), "user-1")

	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Amount: decimal.Zero, Category: "Food", Date: date,
	})
	assert.ErrorIs(t, err, transactiondomain.ErrInvalidAmount)

	_, err = svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Amount: decimal.NewFromInt(1), Category: " ", Date: date,
	})
	assert.ErrorIs(t, err, transactiondomain.ErrInvalidCategory)

	_, err = svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Amount: decimal.NewFromInt(1), Category: "Food",
	})
	assert.ErrorIs(t, err, transactiondomain.ErrInvalidDate)
}

func TestUpdate_ScopedToOwner(t *testing.T) {
	_, svc := setupTransactionTest(t)
	owner := usercontext.WithUserID(context.Background(), "user-1")
	other := usercontext.WithUserID(context.Background(), "user-2")

	tx, err := svc.Create(owner, transactiondomain.CreateTransactionRequest{
		Amount:   decimal.NewFromInt(50000),
		Category: "Food",
		Date:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = svc.Update(other, transactiondomain.UpdateTransactionRequest{
		ID:       tx.ID.String(),
		Amount:   decimal.NewFromInt(1),
		Category: "Food",
		Date:     tx.Date,
	})
	assert.ErrorIs(t, err, transactiondomain.ErrTransactionNotFound)
}

func TestUpdate_ChangesFields(t *testing.T) {
	_, svc := setupTransactionTest(t)
	ctx := usercontext.WithUserID(context.Background(), "user-1")

	tx, err := svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Amount:   decimal.NewFromInt(50000),
		Category: "Food",
		Date:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, transactiondomain.UpdateTransactionRequest{
		ID:       tx.ID.String(),
		Amount:   decimal.NewFromInt(60000),
		Category: "Groceries",
		Note:     "weekly shop",
		Date:     time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(60000)))
	assert.Equal(t, "Groceries", updated.Category)
	assert.Equal(t, "weekly shop", updated.Note)
}

func TestDelete_RemovesTransaction(t *testing.T) {
	_, svc := setupTransactionTest(t)
	ctx := usercontext.WithUserID(context.Background(), "user-1")

	tx, err := svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Amount:   decimal.NewFromInt(50000),
		Category: "Food",
		Date:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, tx.ID.String()))

	err = svc.Delete(ctx, tx.ID.String())
	assert.ErrorIs(t, err, transactiondomain.ErrTransactionNotFound)
}

func TestList_CapsLimit(t *testing.T) {
	_, svc := setupTransactionTest(t)
	ctx := usercontext.WithUserID(context.Background(), "user-1")

	for i := 0; i < 25; i++ {
		_, err := svc.Create(ctx, transactiondomain.CreateTransactionRequest{
			Amount:   decimal.NewFromInt(int64(1000 + i)),
			Category: "Food",
			Date:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, transactiondomain.ListTransactionRequest{})
	require.NoError(t, err)
	assert.Len(t, items, 20)

	items, err = svc.List(ctx, transactiondomain.ListTransactionRequest{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, items, 25)
}

func TestSumBetween_WindowIsHalfOpen(t *testing.T) {
	db, svc := setupTransactionTest(t)
	ctx := usercontext.WithUserID(context.Background(), "user-1")

	for day, amount := range map[int]int64{1: 100, 2: 200, 3: 400} {
		_, err := svc.Create(ctx, transactiondomain.CreateTransactionRequest{
			Amount:   decimal.NewFromInt(amount),
			Category: "Food",
			Date:     time.Date(2025, 7, day, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	total, err := svc.repo.SumBetween(ctx, db, "user-1",
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(300)), "got %s", total)
}
