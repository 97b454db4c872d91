package projectwithdrawals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/pkg/db/models"
)

// Repository persists project withdrawals.
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

// List returns all project withdrawals newest first.
func (r *Repository) List(ctx context.Context) ([]models.ProjectWithdrawal, error) {
	var rows []models.ProjectWithdrawal
	if err := r.db.WithContext(ctx).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one project withdrawal.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectWithdrawal, error) {
	var row models.ProjectWithdrawal
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new project withdrawal.
func (r *Repository) Create(ctx context.Context, row *models.ProjectWithdrawal) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update persists all mutable fields of the row.
func (r *Repository) Update(ctx context.Context, row *models.ProjectWithdrawal) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes the row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.ProjectWithdrawal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
