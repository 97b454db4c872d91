package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/fastcommand/finance-backend/pkg/db/types"
)

// Withdrawal is a payout to a single investor, drawn against that investor's
// current balance. InvestorName is denormalized for legacy readers; the
// foreign key is authoritative.
type Withdrawal struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvestorID   uuid.UUID           `gorm:"column:investor_id;type:uuid;not null;index"`
	InvestorName string              `gorm:"column:investor_name;not null"`
	Amount       decimal.Decimal     `gorm:"column:amount;type:numeric(14,2);not null"`
	Date         time.Time           `gorm:"column:date;not null"`
	Notes        string              `gorm:"column:notes"`
	ApprovedBy   string              `gorm:"column:approved_by;not null"`
	Attachments  dbtypes.Attachments `gorm:"column:attachments;type:jsonb"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
