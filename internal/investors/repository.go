package investors

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fastcommand/finance-backend/pkg/db/models"
)

// Repository persists investors.
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

// List returns all investors ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Investor, error) {
	var rows []models.Investor
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one investor.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Investor, error) {
	var row models.Investor
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByName matches on the trimmed, case-folded name. Retained for callers
// migrating off name references; id lookups are authoritative.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Investor, error) {
	var row models.Investor
	err := r.db.WithContext(ctx).
		Where("lower(trim(name)) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// LockByID loads one investor under a row-level write lock. Must run inside
// a transaction; callers use it to serialize balance updates.
func (r *Repository) LockByID(ctx context.Context, id uuid.UUID) (*models.Investor, error) {
	var row models.Investor
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new investor.
func (r *Repository) Create(ctx context.Context, row *models.Investor) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update persists all mutable fields of the investor.
func (r *Repository) Update(ctx context.Context, row *models.Investor) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes the investor row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Investor{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountWithdrawals reports how many withdrawals reference the investor.
func (r *Repository) CountWithdrawals(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Withdrawal{}).
		Where("investor_id = ?", id).
		Count(&count).Error
	return count, err
}
