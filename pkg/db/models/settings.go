package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppSettings is the singleton financial configuration row.
type AppSettings struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectPercentage decimal.Decimal    `gorm:"column:project_percentage;type:numeric(5,2);not null;default:15"`
	Currency          string             `gorm:"column:currency;not null;default:'MRU'"`
	CustomAllocations []CustomAllocation `gorm:"foreignKey:SettingsID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// CustomAllocation is a named percentage carve-out (donations, fees, ...). The
// carve-outs share the project percentage pool; their sum may never exceed it.
type CustomAllocation struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SettingsID  uuid.UUID       `gorm:"column:settings_id;type:uuid;not null;index"`
	Name        string          `gorm:"column:name;not null"`
	Percentage  decimal.Decimal `gorm:"column:percentage;type:numeric(5,2);not null"`
	Description string          `gorm:"column:description"`
	Position    int             `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
