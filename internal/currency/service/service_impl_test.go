package service

import (
	"context"
	"testing"
	"time"

	currencydomain "github.com/celenganapp/celengan/internal/currency/domain"
	"github.com/celenganapp/celengan/internal/currency/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupCurrencyTest(t *testing.T) (*gorm.DB, currencydomain.Service) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&currencydomain.ExchangeRate{})
	require.NoError(t, err)

	svc := &Service{
		db:        db,
		log:       zap.NewNop(),
		repo:      repository.Provide(),
		reporting: "IDR",
	}
	return db, svc
}

func seedRate(t *testing.T, db *gorm.DB, id int64, base string, rate string) {
	t.Helper()
	err := db.Exec(
		`INSERT INTO exchange_rates (id, base_currency, target_currency, rate, last_updated)
		 VALUES (?, ?, ?, ?, ?)`,
		id, base, "IDR", rate, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	).Error
	require.NoError(t, err)
}

func TestNormalize_ReportingCurrencyPassesThrough(t *testing.T) {
	_, svc := setupCurrencyTest(t)

	got, err := svc.Normalize(context.Background(), decimal.NewFromInt(169000), "IDR")
	require.NoError(t, err)

	assert.True(t, got.Amount.Equal(decimal.NewFromInt(169000)))
	assert.Equal(t, "IDR", got.Currency)
	assert.False(t, got.Degraded)
}

func TestNormalize_ConvertsWithRate(t *testing.T) {
	db, svc := setupCurrencyTest(t)
	seedRate(t, db, 1, "USD", "16000")

	got, err := svc.Normalize(context.Background(), decimal.RequireFromString("52.99"), "USD")
	require.NoError(t, err)

	// 52.99 * 16000 = 847840, IDR rounds to whole units
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(847840)), "got %s", got.Amount)
	assert.Equal(t, "IDR", got.Currency)
	assert.False(t, got.Degraded)
}

func TestNormalize_MissingRateDegrades(t *testing.T) {
	_, svc := setupCurrencyTest(t)

	original := decimal.RequireFromString("9.99")
	got, err := svc.Normalize(context.Background(), original, "EUR")
	require.NoError(t, err)

	assert.True(t, got.Amount.Equal(original))
	assert.Equal(t, "EUR", got.Currency)
	assert.True(t, got.Degraded)
}

func TestConvert_TwoHopRoundsOnce(t *testing.T) {
	db, svc := setupCurrencyTest(t)
	seedRate(t, db, 1, "USD", "16000")
	seedRate(t, db, 2, "SGD", "12000")

	got, err := svc.Convert(context.Background(), decimal.RequireFromString("52.99"), "USD", "SGD")
	require.NoError(t, err)

	// 52.99 * 16000 / 12000 = 70.65333..., rounded once at the end
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("70.65")), "got %s", got.Amount)
	assert.Equal(t, "SGD", got.Currency)
}

func TestConvert_RoundTripWithinOneUnit(t *testing.T) {
	db, svc := setupCurrencyTest(t)
	seedRate(t, db, 1, "USD", "16233.77")

	original := decimal.RequireFromString("123.45")

	toIDR, err := svc.Convert(context.Background(), original, "USD", "IDR")
	require.NoError(t, err)

	back, err := svc.Convert(context.Background(), toIDR.Amount, "IDR", "USD")
	require.NoError(t, err)

	diff := back.Amount.Sub(original).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.01")), "diff %s", diff)
}

func TestConvert_SameCurrencyUnchanged(t *testing.T) {
	_, svc := setupCurrencyTest(t)

	amount := decimal.RequireFromString("10.125")
	got, err := svc.Convert(context.Background(), amount, "USD", "USD")
	require.NoError(t, err)

	// No conversion means no rounding either.
	assert.True(t, got.Amount.Equal(amount))
}

func TestConvert_EmptyCurrencyRejected(t *testing.T) {
	_, svc := setupCurrencyTest(t)

	_, err := svc.Convert(context.Background(), decimal.NewFromInt(1), "", "IDR")
	assert.ErrorIs(t, err, currencydomain.ErrInvalidCurrency)
}
