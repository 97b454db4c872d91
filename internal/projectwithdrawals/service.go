package projectwithdrawals

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
	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

// CreateInput holds the validated payload to record a project withdrawal.
type CreateInput struct {
	Amount  decimal.Decimal
	Date    time.Time
	Purpose string
	Notes   string
}

// UpdateInput holds optional replacement values for a project withdrawal.
type UpdateInput struct {
	Amount  *decimal.Decimal
	Date    *time.Time
	Purpose *string
	Notes   *string
}

// Service exposes project withdrawal operations. These draw against the
// project's allocated balance, so they require the approve permission.
type Service interface {
	Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.ProjectWithdrawal, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateInput) (*models.ProjectWithdrawal, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
	List(ctx context.Context, actor access.Actor) ([]models.ProjectWithdrawal, error)
}

type service struct {
	repo     *Repository
	recorder *audit.Recorder
}

// NewService constructs a project withdrawal service.
func NewService(repo *Repository, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("project withdrawal repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, recorder: recorder}, nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.ProjectWithdrawal, error) {
	if err := actor.Require(access.ApproveWithdrawals, "record project withdrawals"); err != nil {
		return nil, err
	}
	if err := validateEntry(input.Amount, input.Date, input.Purpose); err != nil {
		return nil, err
	}

	row := &models.ProjectWithdrawal{
		Amount:     input.Amount,
		Date:       input.Date,
		Purpose:    strings.TrimSpace(input.Purpose),
		Notes:      input.Notes,
		ApprovedBy: actor.Name,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create project withdrawal")
	}

	s.recorder.Record(ctx, actor, enums.OperationProjectWithdrawalCreated,
		fmt.Sprintf("project withdrawal of %s for %q", row.Amount.StringFixed(2), row.Purpose))
	return row, nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateInput) (*models.ProjectWithdrawal, error) {
	if err := actor.Require(access.ApproveWithdrawals, "update project withdrawals"); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project withdrawal not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load project withdrawal")
	}

	if input.Amount != nil {
		row.Amount = *input.Amount
	}
	if input.Date != nil {
		row.Date = *input.Date
	}
	if input.Purpose != nil {
		row.Purpose = strings.TrimSpace(*input.Purpose)
	}
	if input.Notes != nil {
		row.Notes = *input.Notes
	}
	if err := validateEntry(row.Amount, row.Date, row.Purpose); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update project withdrawal")
	}

	s.recorder.Record(ctx, actor, enums.OperationProjectWithdrawalUpdated,
		fmt.Sprintf("project withdrawal %s updated", row.ID))
	return row, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(access.ApproveWithdrawals, "delete project withdrawals"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "project withdrawal not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete project withdrawal")
	}

	s.recorder.Record(ctx, actor, enums.OperationProjectWithdrawalDeleted,
		fmt.Sprintf("project withdrawal %s deleted", id))
	return nil
}

func (s *service) List(ctx context.Context, actor access.Actor) ([]models.ProjectWithdrawal, error) {
	if err := actor.Require(access.ViewWithdrawals, "view project withdrawals"); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list project withdrawals")
	}
	return rows, nil
}

func validateEntry(amount decimal.Decimal, date time.Time, purpose string) error {
	if !amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if date.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}
	if strings.TrimSpace(purpose) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "purpose is required")
	}
	return nil
}
