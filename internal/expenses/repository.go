package expenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/pkg/db/models"
)

// Repository persists expense entries.
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

// List returns expenses newest first, optionally bounded to [from, to].
func (r *Repository) List(ctx context.Context, from, to *time.Time) ([]models.Expense, error) {
	q := r.db.WithContext(ctx).Order("date DESC")
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	var rows []models.Expense
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one expense entry.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	var row models.Expense
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new expense entry.
func (r *Repository) Create(ctx context.Context, row *models.Expense) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update persists all mutable fields of the entry.
func (r *Repository) Update(ctx context.Context, row *models.Expense) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes the entry.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Expense{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
