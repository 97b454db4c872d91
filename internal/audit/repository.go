package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/pagination"
)

// Repository persists and reads operation log rows.
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

// Insert appends one operation log row.
func (r *Repository) Insert(ctx context.Context, entry *models.OperationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns log rows newest first, with the total count for paging.
func (r *Repository) List(ctx context.Context, p pagination.Params) ([]models.OperationLog, int64, error) {
	p = pagination.Normalize(p)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.OperationLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OperationLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
