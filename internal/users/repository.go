package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/pkg/db/models"
)

// Repository persists application accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns all accounts ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one account.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByPhone loads the account registered under the phone number.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).
		Where("phone = ?", strings.TrimSpace(phone)).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateLastLogin stamps the account's last login time.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// Create inserts a new account.
func (r *Repository) Create(ctx context.Context, row *models.User) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update persists all mutable fields of the account.
func (r *Repository) Update(ctx context.Context, row *models.User) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes the account.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
