package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fastcommand/finance-backend/pkg/enums"
)

// OperationLog is an append-only audit entry describing a mutation.
type OperationLog struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OperationType enums.OperationType `gorm:"column:operation_type;not null"`
	Details       string              `gorm:"column:details;not null"`
	PerformedBy   string              `gorm:"column:performed_by;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
