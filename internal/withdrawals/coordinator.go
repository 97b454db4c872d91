package withdrawals

import (
	"bytes"
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
	"github.com/fastcommand/finance-backend/internal/investors"
	"github.com/fastcommand/finance-backend/pkg/db"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	dbtypes "github.com/fastcommand/finance-backend/pkg/db/types"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

// CreateInput holds the validated payload to record a withdrawal. Clients
// still migrating off name references may leave InvestorID unset and send
// InvestorName instead; the coordinator resolves it to the id.
type CreateInput struct {
	InvestorID   uuid.UUID
	InvestorName string
	Amount       decimal.Decimal
	Date         time.Time
	Notes        string
	Attachments  dbtypes.Attachments
}

// UpdateInput holds optional replacement values for a withdrawal. Changing
// the investor moves the balance effect from the old investor to the new one.
type UpdateInput struct {
	InvestorID   *uuid.UUID
	InvestorName *string
	Amount       *decimal.Decimal
	Date         *time.Time
	Notes        *string
	Attachments  *dbtypes.Attachments
}

// Coordinator applies withdrawal mutations together with their cross-entity
// side effect: the affected investor's cached totals. Every mutation runs in
// one transaction with the investor row locked, so concurrent withdrawals
// against the same investor serialize instead of losing updates. The cached
// totals are recomputed from the withdrawals table rather than incremented,
// which keeps a retried mutation from double-applying.
type Coordinator struct {
	repo         *Repository
	investorRepo *investors.Repository
	dbClient     *db.Client
	recorder     *audit.Recorder
}

// NewCoordinator constructs the withdrawal coordinator.
func NewCoordinator(repo *Repository, investorRepo *investors.Repository, dbClient *db.Client, recorder *audit.Recorder) (*Coordinator, error) {
	if repo == nil {
		return nil, fmt.Errorf("withdrawal repository required")
	}
	if investorRepo == nil {
		return nil, fmt.Errorf("investor repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Coordinator{repo: repo, investorRepo: investorRepo, dbClient: dbClient, recorder: recorder}, nil
}

// Create records a withdrawal after checking it against the investor's
// current balance. The check and the balance update happen under a row lock.
func (c *Coordinator) Create(ctx context.Context, actor access.Actor, input CreateInput) (*models.Withdrawal, error) {
	if err := actor.Require(access.ApproveWithdrawals, "approve withdrawals"); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}

	var created *models.Withdrawal
	err := c.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := c.investorRepo.WithTx(tx)
		repo := c.repo.WithTx(tx)

		investorID, err := resolveInvestorID(ctx, invRepo, input.InvestorID, input.InvestorName)
		if err != nil {
			return err
		}
		investor, err := invRepo.LockByID(ctx, investorID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "investor not found")
		}
		if err != nil {
			return err
		}

		if input.Amount.GreaterThan(investor.CurrentBalance) {
			return pkgerrors.New(pkgerrors.CodeInsufficientBalance,
				fmt.Sprintf("withdrawal of %s exceeds current balance %s",
					input.Amount.StringFixed(2), investor.CurrentBalance.StringFixed(2))).
				WithDetails(map[string]string{
					"requested":      input.Amount.StringFixed(2),
					"currentBalance": investor.CurrentBalance.StringFixed(2),
				})
		}

		row := &models.Withdrawal{
			InvestorID:   investor.ID,
			InvestorName: investor.Name,
			Amount:       input.Amount,
			Date:         input.Date,
			Notes:        input.Notes,
			ApprovedBy:   actor.Name,
			Attachments:  input.Attachments,
		}
		if err := repo.Create(ctx, row); err != nil {
			return err
		}
		if err := c.refreshBalances(ctx, tx, investor); err != nil {
			return err
		}

		created = row
		c.recorder.RecordTx(ctx, tx, actor, enums.OperationWithdrawalCreated,
			fmt.Sprintf("withdrawal of %s for investor %q", row.Amount.StringFixed(2), investor.Name))
		return nil
	})
	if err != nil {
		return nil, coordinatorError(err, "create withdrawal")
	}
	return created, nil
}

// Update reverses the prior withdrawal's balance effect and applies the new
// one. When the investor changes, both investors are locked in a stable order
// and both updates commit or neither does.
func (c *Coordinator) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateInput) (*models.Withdrawal, error) {
	if err := actor.Require(access.ApproveWithdrawals, "approve withdrawals"); err != nil {
		return nil, err
	}
	if input.Amount != nil && !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	var updated *models.Withdrawal
	err := c.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := c.investorRepo.WithTx(tx)
		repo := c.repo.WithTx(tx)

		row, err := repo.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "withdrawal not found")
		}
		if err != nil {
			return err
		}

		oldInvestorID := row.InvestorID
		newInvestorID := oldInvestorID
		if input.InvestorID != nil {
			newInvestorID = *input.InvestorID
		} else if input.InvestorName != nil {
			newInvestorID, err = resolveInvestorID(ctx, invRepo, uuid.Nil, *input.InvestorName)
			if err != nil {
				return err
			}
		}

		oldInvestor, newInvestor, err := lockPair(ctx, invRepo, oldInvestorID, newInvestorID)
		if err != nil {
			return err
		}

		newAmount := row.Amount
		if input.Amount != nil {
			newAmount = *input.Amount
		}

		// bound check against the target investor's balance with the old
		// withdrawal's effect reversed
		headroom := newInvestor.CurrentBalance
		if newInvestor.ID == oldInvestorID {
			headroom = headroom.Add(row.Amount)
		}
		if newAmount.GreaterThan(headroom) {
			return pkgerrors.New(pkgerrors.CodeInsufficientBalance,
				fmt.Sprintf("withdrawal of %s exceeds current balance %s",
					newAmount.StringFixed(2), headroom.StringFixed(2)))
		}

		row.InvestorID = newInvestor.ID
		row.InvestorName = newInvestor.Name
		row.Amount = newAmount
		if input.Date != nil {
			row.Date = *input.Date
		}
		if input.Notes != nil {
			row.Notes = *input.Notes
		}
		if input.Attachments != nil {
			row.Attachments = *input.Attachments
		}
		if err := repo.Update(ctx, row); err != nil {
			return err
		}

		if err := c.refreshBalances(ctx, tx, oldInvestor); err != nil {
			return err
		}
		if newInvestor.ID != oldInvestor.ID {
			if err := c.refreshBalances(ctx, tx, newInvestor); err != nil {
				return err
			}
		}

		updated = row
		c.recorder.RecordTx(ctx, tx, actor, enums.OperationWithdrawalUpdated,
			fmt.Sprintf("withdrawal %s updated to %s for investor %q", row.ID, row.Amount.StringFixed(2), newInvestor.Name))
		return nil
	})
	if err != nil {
		return nil, coordinatorError(err, "update withdrawal")
	}
	return updated, nil
}

// Delete removes a withdrawal and restores the investor's balance.
func (c *Coordinator) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(access.ApproveWithdrawals, "approve withdrawals"); err != nil {
		return err
	}

	err := c.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := c.investorRepo.WithTx(tx)
		repo := c.repo.WithTx(tx)

		row, err := repo.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "withdrawal not found")
		}
		if err != nil {
			return err
		}

		investor, err := invRepo.LockByID(ctx, row.InvestorID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// investor row gone; nothing to restore
			return repo.Delete(ctx, id)
		}
		if err != nil {
			return err
		}

		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		if err := c.refreshBalances(ctx, tx, investor); err != nil {
			return err
		}

		c.recorder.RecordTx(ctx, tx, actor, enums.OperationWithdrawalDeleted,
			fmt.Sprintf("withdrawal of %s for investor %q deleted", row.Amount.StringFixed(2), investor.Name))
		return nil
	})
	if err != nil {
		return coordinatorError(err, "delete withdrawal")
	}
	return nil
}

// List returns withdrawals the actor may see. Actors without the view-all
// permission get only withdrawals recorded against their own name.
func (c *Coordinator) List(ctx context.Context, actor access.Actor, from, to *time.Time) ([]models.Withdrawal, error) {
	perms := actor.Permissions()
	if !perms.CanViewWithdrawals && !perms.CanViewOwnWithdrawal {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role "+actor.Role.String()+" cannot view withdrawals")
	}

	rows, err := c.repo.List(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list withdrawals")
	}
	if perms.CanViewAllData {
		return rows, nil
	}

	own := rows[:0:0]
	for _, w := range rows {
		if strings.EqualFold(strings.TrimSpace(w.InvestorName), strings.TrimSpace(actor.Name)) {
			own = append(own, w)
		}
	}
	return own, nil
}

// refreshBalances recomputes the investor's cached withdrawal totals from
// the ledger inside the current transaction. The balance draws on invested
// capital plus credited profit, the same base the investor service seeds
// and maintains.
func (c *Coordinator) refreshBalances(ctx context.Context, tx *gorm.DB, investor *models.Investor) error {
	withdrawn, err := c.repo.WithTx(tx).SumByInvestor(ctx, investor.ID)
	if err != nil {
		return err
	}
	investor.TotalWithdrawn = withdrawn
	investor.CurrentBalance = investor.TotalInvested.Add(investor.TotalProfit).Sub(withdrawn)
	return c.investorRepo.WithTx(tx).Update(ctx, investor)
}

// resolveInvestorID returns the explicit id when set and otherwise falls
// back to a trimmed, case-folded name lookup for clients that predate
// id-based references.
func resolveInvestorID(ctx context.Context, invRepo *investors.Repository, id uuid.UUID, name string) (uuid.UUID, error) {
	if id != uuid.Nil {
		return id, nil
	}
	if strings.TrimSpace(name) == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "investor_id or investor_name is required")
	}
	row, err := invRepo.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "investor not found")
	}
	if err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}

// lockPair locks one or two investor rows, always in ascending id order so
// two concurrent updates cannot deadlock on each other.
func lockPair(ctx context.Context, invRepo *investors.Repository, oldID, newID uuid.UUID) (*models.Investor, *models.Investor, error) {
	lock := func(id uuid.UUID) (*models.Investor, error) {
		row, err := invRepo.LockByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "investor not found")
		}
		return row, err
	}

	if oldID == newID {
		row, err := lock(oldID)
		if err != nil {
			return nil, nil, err
		}
		return row, row, nil
	}

	first, second := oldID, newID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}
	a, err := lock(first)
	if err != nil {
		return nil, nil, err
	}
	b, err := lock(second)
	if err != nil {
		return nil, nil, err
	}
	if a.ID == oldID {
		return a, b, nil
	}
	return b, a, nil
}

func coordinatorError(err error, op string) error {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
