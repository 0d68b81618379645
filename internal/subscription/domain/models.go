// Package domain contains persistence models for recurring subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Frequency enumerates how often a subscription recurs.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually:
		return true
	default:
		return false
	}
}

// StepMonths returns the number of months between occurrences.
func (f Frequency) StepMonths() int {
	switch f {
	case FrequencyQuarterly:
		return 3
	case FrequencyAnnually:
		return 12
	default:
		return 1
	}
}

// PaymentsPerYear returns how many occurrences fall in a year.
func (f Frequency) PaymentsPerYear() int64 {
	switch f {
	case FrequencyQuarterly:
		return 4
	case FrequencyAnnually:
		return 1
	default:
		return 12
	}
}

// Subscription is a user's canonical recurring payment rule. The anchor date
// establishes the phase of the recurrence; projections always derive from it.
type Subscription struct {
	ID                snowflake.ID    `gorm:"primaryKey" json:"id"`
	UserID            string          `gorm:"type:text;not null;index" json:"user_id"`
	ProviderName      string          `gorm:"type:text;not null" json:"provider_name"`
	Amount            decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Currency          string          `gorm:"type:text;not null" json:"currency"`
	Frequency         Frequency       `gorm:"type:text;not null" json:"frequency"`
	AnchorPaymentDate time.Time       `gorm:"not null" json:"anchor_payment_date"`
	CreatedAt         time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }
