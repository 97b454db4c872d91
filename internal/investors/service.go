package investors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/internal/audit"
	"github.com/fastcommand/finance-backend/pkg/db"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// CreateInput holds the validated payload to register an investor.
type CreateInput struct {
	Name               string
	Phone              string
	NationalID         *string
	BankTransferNumber *string
	SharePercentage    decimal.Decimal
	TotalInvested      decimal.Decimal
}

// UpdateInput holds optional replacement values for an investor. TotalProfit
// credits distributed profit into the investor's withdrawable balance.
type UpdateInput struct {
	Name               *string
	Phone              *string
	NationalID         *string
	BankTransferNumber *string
	SharePercentage    *decimal.Decimal
	TotalInvested      *decimal.Decimal
	TotalProfit        *decimal.Decimal
}

// Service exposes investor management operations.
type Service interface {
	Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.Investor, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateInput) (*models.Investor, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*models.Investor, error)
	List(ctx context.Context, actor access.Actor) ([]models.Investor, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	recorder *audit.Recorder
}

// NewService constructs an investor service.
func NewService(repo *Repository, dbClient *db.Client, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("investor repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, dbClient: dbClient, recorder: recorder}, nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.Investor, error) {
	if err := actor.Require(access.EditInvestors, "create investors"); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "investor name is required")
	}
	if err := validateShare(input.SharePercentage); err != nil {
		return nil, err
	}
	if input.TotalInvested.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "totalInvested cannot be negative")
	}

	row := &models.Investor{
		Name:               name,
		Phone:              strings.TrimSpace(input.Phone),
		NationalID:         input.NationalID,
		BankTransferNumber: input.BankTransferNumber,
		SharePercentage:    input.SharePercentage,
		TotalInvested:      input.TotalInvested,
		// invested capital is withdrawable from day one
		CurrentBalance: input.TotalInvested,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an investor with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create investor")
	}

	s.recorder.Record(ctx, actor, enums.OperationInvestorCreated,
		fmt.Sprintf("investor %q created with %s%% share", row.Name, row.SharePercentage.StringFixed(2)))
	return row, nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateInput) (*models.Investor, error) {
	if err := actor.Require(access.EditInvestors, "update investors"); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "investor not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load investor")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "investor name is required")
		}
		row.Name = name
	}
	if input.Phone != nil {
		row.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.NationalID != nil {
		row.NationalID = input.NationalID
	}
	if input.BankTransferNumber != nil {
		row.BankTransferNumber = input.BankTransferNumber
	}
	if input.SharePercentage != nil {
		if err := validateShare(*input.SharePercentage); err != nil {
			return nil, err
		}
		row.SharePercentage = *input.SharePercentage
	}
	if input.TotalInvested != nil {
		if input.TotalInvested.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "totalInvested cannot be negative")
		}
		row.TotalInvested = *input.TotalInvested
	}
	if input.TotalProfit != nil {
		row.TotalProfit = *input.TotalProfit
	}
	if input.TotalInvested != nil || input.TotalProfit != nil {
		// keep the cached balance consistent with the new funding base
		row.CurrentBalance = row.TotalInvested.Add(row.TotalProfit).Sub(row.TotalWithdrawn)
	}

	if err := s.repo.Update(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an investor with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update investor")
	}

	s.recorder.Record(ctx, actor, enums.OperationInvestorUpdated,
		fmt.Sprintf("investor %q updated", row.Name))
	return row, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(access.EditInvestors, "delete investors"); err != nil {
		return err
	}

	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "investor not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load investor")
	}

	withdrawals, err := s.repo.CountWithdrawals(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count withdrawals")
	}
	if withdrawals > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict,
			"investor has recorded withdrawals; delete those first")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete investor")
	}

	s.recorder.Record(ctx, actor, enums.OperationInvestorDeleted,
		fmt.Sprintf("investor %q deleted", row.Name))
	return nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*models.Investor, error) {
	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "investor not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load investor")
	}

	// investors may read their own profile without the list permission
	if !actor.Can(access.ViewInvestors) {
		p := actor.Permissions()
		if !p.CanViewOwnProfile || !strings.EqualFold(strings.TrimSpace(actor.Name), strings.TrimSpace(row.Name)) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role "+actor.Role.String()+" cannot view this investor")
		}
	}
	return row, nil
}

func (s *service) List(ctx context.Context, actor access.Actor) ([]models.Investor, error) {
	if err := actor.Require(access.ViewInvestors, "list investors"); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list investors")
	}
	return rows, nil
}

func validateShare(share decimal.Decimal) error {
	if share.IsNegative() || share.GreaterThan(oneHundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "sharePercentage must be between 0 and 100")
	}
	return nil
}
