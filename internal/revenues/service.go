package revenues

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/internal/audit"
	dbtypes "github.com/fastcommand/finance-backend/pkg/db/types"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

// CreateInput holds the validated payload to record a revenue.
type CreateInput struct {
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Notes       string
	Attachments dbtypes.Attachments
}

// UpdateInput holds optional replacement values for a revenue.
type UpdateInput struct {
	Amount      *decimal.Decimal
	Date        *time.Time
	Description *string
	Notes       *string
	Attachments *dbtypes.Attachments
}

// Service exposes revenue ledger operations.
type Service interface {
	Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.Revenue, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateInput) (*models.Revenue, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
	List(ctx context.Context, actor access.Actor, from, to *time.Time) ([]models.Revenue, error)
}

type service struct {
	repo     *Repository
	recorder *audit.Recorder
}

// NewService constructs a revenue service.
func NewService(repo *Repository, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("revenue repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, recorder: recorder}, nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.Revenue, error) {
	if err := actor.Require(access.EditRevenues, "record revenues"); err != nil {
		return nil, err
	}
	if err := validateEntry(input.Amount, input.Date, input.Description); err != nil {
		return nil, err
	}

	row := &models.Revenue{
		Amount:      input.Amount,
		Date:        input.Date,
		Description: strings.TrimSpace(input.Description),
		Notes:       input.Notes,
		AddedBy:     actor.Name,
		Attachments: input.Attachments,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create revenue")
	}

	s.recorder.Record(ctx, actor, enums.OperationRevenueCreated,
		fmt.Sprintf("revenue of %s recorded: %s", row.Amount.StringFixed(2), row.Description))
	return row, nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateInput) (*models.Revenue, error) {
	if err := actor.Require(access.EditRevenues, "update revenues"); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "revenue not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load revenue")
	}

	if input.Amount != nil {
		row.Amount = *input.Amount
	}
	if input.Date != nil {
		row.Date = *input.Date
	}
	if input.Description != nil {
		row.Description = strings.TrimSpace(*input.Description)
	}
	if input.Notes != nil {
		row.Notes = *input.Notes
	}
	if input.Attachments != nil {
		row.Attachments = *input.Attachments
	}
	if err := validateEntry(row.Amount, row.Date, row.Description); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update revenue")
	}

	s.recorder.Record(ctx, actor, enums.OperationRevenueUpdated,
		fmt.Sprintf("revenue %s updated", row.ID))
	return row, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(access.EditRevenues, "delete revenues"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "revenue not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete revenue")
	}

	s.recorder.Record(ctx, actor, enums.OperationRevenueDeleted,
		fmt.Sprintf("revenue %s deleted", id))
	return nil
}

func (s *service) List(ctx context.Context, actor access.Actor, from, to *time.Time) ([]models.Revenue, error) {
	if err := actor.Require(access.ViewRevenues, "view revenues"); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list revenues")
	}
	return rows, nil
}

func validateEntry(amount decimal.Decimal, date time.Time, description string) error {
	if amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}
	if date.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}
	if strings.TrimSpace(description) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	return nil
}
