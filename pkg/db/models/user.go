package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fastcommand/finance-backend/pkg/enums"
)

// User represents an application account. Permissions normally derive from
// the role; PermissionOverrides lists extra grants for individual accounts.
type User struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string         `gorm:"column:name;not null"`
	Phone               string         `gorm:"column:phone;type:text;not null;uniqueIndex"`
	Email               *string        `gorm:"column:email"`
	Role                enums.Role     `gorm:"column:role;not null"`
	PasswordHash        string         `gorm:"column:password_hash;not null"`
	PermissionOverrides pq.StringArray `gorm:"column:permission_overrides;type:text[];default:ARRAY[]::text[]"`
	IsActive            bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt         *time.Time     `gorm:"column:last_login_at"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
