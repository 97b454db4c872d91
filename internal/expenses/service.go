package expenses

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
	dbtypes "github.com/fastcommand/finance-backend/pkg/db/types"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

// CreateInput holds the validated payload to record an expense.
type CreateInput struct {
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Notes       string
	Attachments dbtypes.Attachments
}

// UpdateInput holds optional replacement values for an expense.
type UpdateInput struct {
	Amount      *decimal.Decimal
	Date        *time.Time
	Category    *string
	Notes       *string
	Attachments *dbtypes.Attachments
}

// Service exposes expense ledger operations.
type Service interface {
	Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.Expense, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateInput) (*models.Expense, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
	List(ctx context.Context, actor access.Actor, from, to *time.Time) ([]models.Expense, error)
}

type service struct {
	repo     *Repository
	recorder *audit.Recorder
}

// NewService constructs an expense service.
func NewService(repo *Repository, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expense repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, recorder: recorder}, nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.Expense, error) {
	if err := actor.Require(access.EditExpenses, "record expenses"); err != nil {
		return nil, err
	}
	if err := validateEntry(input.Amount, input.Date, input.Category); err != nil {
		return nil, err
	}

	row := &models.Expense{
		Amount:      input.Amount,
		Date:        input.Date,
		Category:    strings.TrimSpace(input.Category),
		Notes:       input.Notes,
		AddedBy:     actor.Name,
		Attachments: input.Attachments,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create expense")
	}

	s.recorder.Record(ctx, actor, enums.OperationExpenseCreated,
		fmt.Sprintf("expense of %s recorded under %q", row.Amount.StringFixed(2), row.Category))
	return row, nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateInput) (*models.Expense, error) {
	if err := actor.Require(access.EditExpenses, "update expenses"); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load expense")
	}

	if input.Amount != nil {
		row.Amount = *input.Amount
	}
	if input.Date != nil {
		row.Date = *input.Date
	}
	if input.Category != nil {
		row.Category = strings.TrimSpace(*input.Category)
	}
	if input.Notes != nil {
		row.Notes = *input.Notes
	}
	if input.Attachments != nil {
		row.Attachments = *input.Attachments
	}
	if err := validateEntry(row.Amount, row.Date, row.Category); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update expense")
	}

	s.recorder.Record(ctx, actor, enums.OperationExpenseUpdated,
		fmt.Sprintf("expense %s updated", row.ID))
	return row, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(access.EditExpenses, "delete expenses"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete expense")
	}

	s.recorder.Record(ctx, actor, enums.OperationExpenseDeleted,
		fmt.Sprintf("expense %s deleted", id))
	return nil
}

func (s *service) List(ctx context.Context, actor access.Actor, from, to *time.Time) ([]models.Expense, error) {
	if err := actor.Require(access.ViewExpenses, "view expenses"); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list expenses")
	}
	return rows, nil
}

func validateEntry(amount decimal.Decimal, date time.Time, category string) error {
	if amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}
	if date.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}
	if strings.TrimSpace(category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	return nil
}
