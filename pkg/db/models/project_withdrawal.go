package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectWithdrawal is a draw against the project's allocated balance,
// independent of any investor withdrawal.
type ProjectWithdrawal struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Date       time.Time       `gorm:"column:date;not null"`
	Purpose    string          `gorm:"column:purpose;not null"`
	Notes      string          `gorm:"column:notes"`
	ApprovedBy string          `gorm:"column:approved_by;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
