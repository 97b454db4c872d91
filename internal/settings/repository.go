package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/pkg/db/models"
)

// Repository persists the singleton settings row and its allocations.
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

// Load returns the settings row with allocations, or nil when none exists.
func (r *Repository) Load(ctx context.Context) (*models.AppSettings, error) {
	var row models.AppSettings
	err := r.db.WithContext(ctx).
		Preload("CustomAllocations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Save upserts the singleton row and replaces its allocations wholesale.
// Runs in the repository's transaction when called via WithTx.
func (r *Repository) Save(ctx context.Context, row *models.AppSettings) error {
	tx := r.db.WithContext(ctx)

	allocations := row.CustomAllocations
	row.CustomAllocations = nil
	if err := tx.Save(row).Error; err != nil {
		row.CustomAllocations = allocations
		return err
	}
	if err := tx.Where("settings_id = ?", row.ID).Delete(&models.CustomAllocation{}).Error; err != nil {
		row.CustomAllocations = allocations
		return err
	}
	for i := range allocations {
		allocations[i].SettingsID = row.ID
	}
	if len(allocations) > 0 {
		if err := tx.Create(&allocations).Error; err != nil {
			row.CustomAllocations = allocations
			return err
		}
	}
	row.CustomAllocations = allocations
	return nil
}
