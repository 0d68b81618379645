// Package domain contains the spending ledger model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Transaction is one spending event in the ledger. Amounts are stored in the
// reporting currency. Entries created by the pay protocol are deleted only by
// its rollback path; everything else is append-or-edit by the owner.
type Transaction struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	UserID    string          `gorm:"type:text;not null;index" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Category  string          `gorm:"type:text;not null" json:"category"`
	Note      string          `gorm:"type:text" json:"note"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }
