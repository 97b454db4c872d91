package withdrawals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/pkg/db/models"
)

// Repository persists investor withdrawals.
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

// List returns withdrawals newest first, optionally bounded to [from, to].
func (r *Repository) List(ctx context.Context, from, to *time.Time) ([]models.Withdrawal, error) {
	q := r.db.WithContext(ctx).Order("date DESC")
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	var rows []models.Withdrawal
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByInvestor returns one investor's withdrawals newest first.
func (r *Repository) ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]models.Withdrawal, error) {
	var rows []models.Withdrawal
	err := r.db.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one withdrawal.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	var row models.Withdrawal
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new withdrawal.
func (r *Repository) Create(ctx context.Context, row *models.Withdrawal) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update persists all mutable fields of the withdrawal.
func (r *Repository) Update(ctx context.Context, row *models.Withdrawal) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes the withdrawal.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Withdrawal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumByInvestor totals the recorded withdrawal amounts for one investor.
// Run inside the coordinator's transaction so the sum reflects the mutation
// being committed.
func (r *Repository) SumByInvestor(ctx context.Context, investorID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Withdrawal{}).
		Where("investor_id = ?", investorID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
