package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investor holds an investor's identity, nominal share and capital. The
// total_profit / total_withdrawn / current_balance columns are a cache kept in
// sync by the withdrawal coordinator; the distribution engine recomputes the
// authoritative values from the ledger on every read.
type Investor struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string          `gorm:"column:name;type:text;not null;uniqueIndex"`
	Phone              string          `gorm:"column:phone;not null"`
	NationalID         *string         `gorm:"column:national_id"`
	BankTransferNumber *string         `gorm:"column:bank_transfer_number"`
	SharePercentage    decimal.Decimal `gorm:"column:share_percentage;type:numeric(5,2);not null"`
	TotalInvested      decimal.Decimal `gorm:"column:total_invested;type:numeric(14,2);not null;default:0"`
	TotalProfit        decimal.Decimal `gorm:"column:total_profit;type:numeric(14,2);not null;default:0"`
	TotalWithdrawn     decimal.Decimal `gorm:"column:total_withdrawn;type:numeric(14,2);not null;default:0"`
	CurrentBalance     decimal.Decimal `gorm:"column:current_balance;type:numeric(14,2);not null;default:0"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
