// Package domain contains the exchange-rate read model and normalization contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ExchangeRate is a point-read conversion rate toward the reporting currency.
// Rates are maintained by an external market-data job; this service only reads.
type ExchangeRate struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	BaseCurrency   string          `gorm:"type:text;not null;index:idx_exchange_rates_pair,unique" json:"base_currency"`
	TargetCurrency string          `gorm:"type:text;not null;index:idx_exchange_rates_pair,unique" json:"target_currency"`
	Rate           decimal.Decimal `gorm:"type:numeric;not null" json:"rate"`
	LastUpdated    time.Time       `gorm:"not null" json:"last_updated"`
}

// TableName sets the database table name.
func (ExchangeRate) TableName() string { return "exchange_rates" }

// Money is an amount in a specific currency after normalization.
//
// Degraded reports that a required rate was missing and the amount was
// returned unconverted. Callers may surface this to the user; it is never
// an error.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Degraded bool            `json:"degraded,omitempty"`
}
