package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/fastcommand/finance-backend/pkg/db/types"
)

// Expense records money spent by the project.
type Expense struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Category    string              `gorm:"column:category;not null"`
	Amount      decimal.Decimal     `gorm:"column:amount;type:numeric(14,2);not null"`
	Date        time.Time           `gorm:"column:date;not null"`
	Notes       string              `gorm:"column:notes"`
	AddedBy     string              `gorm:"column:added_by;not null"`
	Attachments dbtypes.Attachments `gorm:"column:attachments;type:jsonb"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
