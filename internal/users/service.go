package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/internal/audit"
	"github.com/fastcommand/finance-backend/pkg/config"
	"github.com/fastcommand/finance-backend/pkg/db"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
	"github.com/fastcommand/finance-backend/pkg/security"
)

// CreateInput holds the validated payload to provision an account.
// PermissionOverrides grant capabilities beyond the role's defaults.
type CreateInput struct {
	Name                string
	Phone               string
	Email               *string
	Role                enums.Role
	Password            string
	PermissionOverrides []string
}

// UpdateInput holds optional replacement values for an account.
type UpdateInput struct {
	Name                *string
	Phone               *string
	Email               *string
	Role                *enums.Role
	Password            *string
	IsActive            *bool
	PermissionOverrides *[]string
}

// Service exposes account management. All operations are admin-only; account
// management rides on the settings permission since both are Admin-scoped.
type Service interface {
	Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.User, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateInput) (*models.User, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
	List(ctx context.Context, actor access.Actor) ([]models.User, error)
}

type service struct {
	repo        *Repository
	recorder    *audit.Recorder
	passwordCfg config.PasswordConfig
}

// NewService constructs a user management service.
func NewService(repo *Repository, recorder *audit.Recorder, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, recorder: recorder, passwordCfg: passwordCfg}, nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.User, error) {
	if err := actor.Require(access.EditSettings, "manage accounts"); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and phone are required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role "+string(input.Role))
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	if err := validateOverrides(input.PermissionOverrides); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	row := &models.User{
		Name:                name,
		Phone:               phone,
		Email:               input.Email,
		Role:                input.Role,
		PasswordHash:        hash,
		PermissionOverrides: input.PermissionOverrides,
		IsActive:            true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with that phone number already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	s.recorder.Record(ctx, actor, enums.OperationUserCreated,
		fmt.Sprintf("account %q created with role %s", row.Name, row.Role))
	return row, nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateInput) (*models.User, error) {
	if err := actor.Require(access.EditSettings, "manage accounts"); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		row.Name = name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
		}
		row.Phone = phone
	}
	if input.Email != nil {
		row.Email = input.Email
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role "+string(*input.Role))
		}
		if actor.ID == row.ID && *input.Role != row.Role {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot change your own role")
		}
		row.Role = *input.Role
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		row.PasswordHash = hash
	}
	if input.IsActive != nil {
		if actor.ID == row.ID && !*input.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot deactivate your own account")
		}
		row.IsActive = *input.IsActive
	}
	if input.PermissionOverrides != nil {
		if err := validateOverrides(*input.PermissionOverrides); err != nil {
			return nil, err
		}
		row.PermissionOverrides = *input.PermissionOverrides
	}

	if err := s.repo.Update(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with that phone number already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}

	s.recorder.Record(ctx, actor, enums.OperationUserUpdated,
		fmt.Sprintf("account %q updated", row.Name))
	return row, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(access.EditSettings, "manage accounts"); err != nil {
		return err
	}
	if actor.ID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}

	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}

	s.recorder.Record(ctx, actor, enums.OperationUserDeleted,
		fmt.Sprintf("account %q deleted", row.Name))
	return nil
}

func (s *service) List(ctx context.Context, actor access.Actor) ([]models.User, error) {
	if err := actor.Require(access.EditSettings, "manage accounts"); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return rows, nil
}

func validateOverrides(overrides []string) error {
	for _, name := range overrides {
		if !access.ValidOverride(name) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown permission override "+strconv.Quote(name))
		}
	}
	return nil
}
