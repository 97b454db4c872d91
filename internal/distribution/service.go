package distribution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

type investorLister interface {
	List(ctx context.Context) ([]models.Investor, error)
}

type revenueLister interface {
	List(ctx context.Context, from, to *time.Time) ([]models.Revenue, error)
}

type expenseLister interface {
	List(ctx context.Context, from, to *time.Time) ([]models.Expense, error)
}

type withdrawalLister interface {
	List(ctx context.Context, from, to *time.Time) ([]models.Withdrawal, error)
}

type projectWithdrawalLister interface {
	List(ctx context.Context) ([]models.ProjectWithdrawal, error)
}

type settingsResolver interface {
	Resolve(ctx context.Context) (ResolvedSettings, error)
}

// Service loads a fresh ledger snapshot and runs the engine over it. Stats
// are never cached: every read recomputes from current data.
type Service struct {
	investors          investorLister
	revenues           revenueLister
	expenses           expenseLister
	withdrawals        withdrawalLister
	projectWithdrawals projectWithdrawalLister
	settings           settingsResolver
}

// NewService constructs the distribution service.
func NewService(
	investors investorLister,
	revenues revenueLister,
	expenses expenseLister,
	withdrawals withdrawalLister,
	projectWithdrawals projectWithdrawalLister,
	settings settingsResolver,
) (*Service, error) {
	if investors == nil || revenues == nil || expenses == nil || withdrawals == nil || projectWithdrawals == nil {
		return nil, fmt.Errorf("all ledger repositories required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings resolver required")
	}
	return &Service{
		investors:          investors,
		revenues:           revenues,
		expenses:           expenses,
		withdrawals:        withdrawals,
		projectWithdrawals: projectWithdrawals,
		settings:           settings,
	}, nil
}

func (s *Service) snapshot(ctx context.Context) (Snapshot, error) {
	settings, err := s.settings.Resolve(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	investors, err := s.investors.List(ctx)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list investors")
	}
	revenues, err := s.revenues.List(ctx, nil, nil)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list revenues")
	}
	expenses, err := s.expenses.List(ctx, nil, nil)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list expenses")
	}
	withdrawals, err := s.withdrawals.List(ctx, nil, nil)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list withdrawals")
	}
	projectWithdrawals, err := s.projectWithdrawals.List(ctx)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list project withdrawals")
	}

	return Snapshot{
		Investors:          investors,
		Revenues:           revenues,
		Expenses:           expenses,
		Withdrawals:        withdrawals,
		ProjectWithdrawals: projectWithdrawals,
		Settings:           settings,
		Now:                time.Now(),
	}, nil
}

// Dashboard computes the aggregate stats for actors allowed to see all data.
func (s *Service) Dashboard(ctx context.Context, actor access.Actor) (*Stats, error) {
	if err := actor.Require(access.ViewAllData, "view the dashboard"); err != nil {
		return nil, err
	}
	return s.Stats(ctx)
}

// Stats computes the aggregate stats without an actor gate. Callers that
// expose the result authorize it against their own permission.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(snap)
	return &stats, nil
}

// InvestorProfits computes per-investor effective figures. Actors without
// the investor-list permission receive only their own row.
func (s *Service) InvestorProfits(ctx context.Context, actor access.Actor) (*Stats, []InvestorProfit, error) {
	perms := actor.Permissions()
	if !perms.CanViewInvestors && !perms.CanViewOwnProfile {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "role "+actor.Role.String()+" cannot view investor profits")
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	stats, profits := InvestorsWithEffectiveProfits(snap)
	if perms.CanViewInvestors {
		return &stats, profits, nil
	}

	// own-profile actors get their row without the aggregate stats
	own := make([]InvestorProfit, 0, 1)
	for _, p := range profits {
		if strings.EqualFold(strings.TrimSpace(p.Investor.Name), strings.TrimSpace(actor.Name)) {
			own = append(own, p)
		}
	}
	if len(own) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "no investor profile matches this account")
	}
	return nil, own, nil
}
