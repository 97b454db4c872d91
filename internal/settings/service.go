package settings

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/internal/audit"
	"github.com/fastcommand/finance-backend/internal/distribution"
	"github.com/fastcommand/finance-backend/pkg/db"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

var (
	defaultProjectPercentage = decimal.NewFromInt(15)
	oneHundred               = decimal.NewFromInt(100)
)

const defaultCurrency = "MRU"

// AllocationInput is one candidate carve-out in a save request.
type AllocationInput struct {
	Name        string
	Percentage  decimal.Decimal
	Description string
}

// SaveInput is the validated payload for replacing the app settings.
type SaveInput struct {
	ProjectPercentage decimal.Decimal
	Currency          string
	CustomAllocations []AllocationInput
}

// Service resolves and mutates the singleton app settings.
type Service interface {
	Resolve(ctx context.Context) (distribution.ResolvedSettings, error)
	Get(ctx context.Context, actor access.Actor) (*models.AppSettings, error)
	Save(ctx context.Context, actor access.Actor, input SaveInput) (*models.AppSettings, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	recorder *audit.Recorder
}

// NewService constructs a settings service.
func NewService(repo *Repository, dbClient *db.Client, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, dbClient: dbClient, recorder: recorder}, nil
}

// Resolve loads the persisted settings for the distribution engine, falling
// back to the defaults when nothing has been saved yet. Persisted rows that
// violate the current validation rules still resolve; the engine clamps and
// reports the violation instead of breaking every dashboard read.
func (s *service) Resolve(ctx context.Context) (distribution.ResolvedSettings, error) {
	row, err := s.repo.Load(ctx)
	if err != nil {
		return distribution.ResolvedSettings{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
	}
	if row == nil {
		return distribution.ResolvedSettings{ProjectPercentage: defaultProjectPercentage}, nil
	}
	return distribution.ResolvedSettings{
		ProjectPercentage: row.ProjectPercentage,
		CustomAllocations: row.CustomAllocations,
	}, nil
}

// Get returns the raw settings row for display, seeding defaults when absent.
func (s *service) Get(ctx context.Context, actor access.Actor) (*models.AppSettings, error) {
	if err := actor.Require(access.ViewSettings, "view settings"); err != nil {
		return nil, err
	}
	row, err := s.repo.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
	}
	if row == nil {
		return &models.AppSettings{
			ProjectPercentage: defaultProjectPercentage,
			Currency:          defaultCurrency,
		}, nil
	}
	return row, nil
}

// Save validates and persists a full replacement of the settings. Candidates
// whose allocations sum past the project percentage are rejected before any
// write, naming the offending total.
func (s *service) Save(ctx context.Context, actor access.Actor, input SaveInput) (*models.AppSettings, error) {
	if err := actor.Require(access.EditSettings, "edit settings"); err != nil {
		return nil, err
	}
	if err := validate(input); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	var saved *models.AppSettings
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.Load(ctx)
		if err != nil {
			return err
		}
		if row == nil {
			row = &models.AppSettings{}
		}
		row.ProjectPercentage = input.ProjectPercentage
		row.Currency = currency
		row.CustomAllocations = make([]models.CustomAllocation, 0, len(input.CustomAllocations))
		for i, alloc := range input.CustomAllocations {
			row.CustomAllocations = append(row.CustomAllocations, models.CustomAllocation{
				Name:        alloc.Name,
				Percentage:  alloc.Percentage,
				Description: alloc.Description,
				Position:    i,
			})
		}
		if err := repo.Save(ctx, row); err != nil {
			return err
		}
		saved = row
		s.recorder.RecordTx(ctx, tx, actor, enums.OperationSettingsUpdated,
			fmt.Sprintf("project percentage set to %s with %d custom allocations",
				input.ProjectPercentage.StringFixed(2), len(input.CustomAllocations)))
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save settings")
	}
	return saved, nil
}

func validate(input SaveInput) error {
	var errs []error

	if input.ProjectPercentage.IsNegative() || input.ProjectPercentage.GreaterThan(oneHundred) {
		errs = append(errs, fmt.Errorf("projectPercentage must be between 0 and 100, got %s", input.ProjectPercentage))
	}

	var allocTotal decimal.Decimal
	for i, alloc := range input.CustomAllocations {
		if alloc.Name == "" {
			errs = append(errs, fmt.Errorf("customAllocations[%d].name is required", i))
		}
		if !alloc.Percentage.IsPositive() {
			errs = append(errs, fmt.Errorf("customAllocations[%d].percentage must be positive, got %s", i, alloc.Percentage))
		}
		allocTotal = allocTotal.Add(alloc.Percentage)
	}
	if allocTotal.GreaterThan(input.ProjectPercentage) {
		errs = append(errs, fmt.Errorf("custom allocations total %s%% exceeds project percentage %s%%",
			allocTotal.StringFixed(2), input.ProjectPercentage.StringFixed(2)))
	}

	if combined := multierr.Combine(errs...); combined != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, combined, "invalid settings")
	}
	return nil
}
