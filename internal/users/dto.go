package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/enums"
)

// UserDTO is the account payload returned to clients. The password hash
// never leaves the service layer.
type UserDTO struct {
	ID                  uuid.UUID          `json:"id"`
	Name                string             `json:"name"`
	Phone               string             `json:"phone"`
	Email               *string            `json:"email,omitempty"`
	Role                enums.Role         `json:"role"`
	Permissions         access.Permissions `json:"permissions"`
	PermissionOverrides []string           `json:"permission_overrides,omitempty"`
	IsActive            bool               `json:"is_active"`
	LastLoginAt         *time.Time         `json:"last_login_at,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
}

// FromModel maps an account row to its client payload.
func FromModel(row *models.User) *UserDTO {
	if row == nil {
		return nil
	}
	return &UserDTO{
		ID:                  row.ID,
		Name:                row.Name,
		Phone:               row.Phone,
		Email:               row.Email,
		Role:                row.Role,
		Permissions:         access.WithOverrides(access.PermissionsFor(row.Role), row.PermissionOverrides),
		PermissionOverrides: row.PermissionOverrides,
		IsActive:            row.IsActive,
		LastLoginAt:         row.LastLoginAt,
		CreatedAt:           row.CreatedAt,
	}
}

// FromModels maps a slice of account rows.
func FromModels(rows []models.User) []*UserDTO {
	out := make([]*UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
