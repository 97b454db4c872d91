package withdrawals

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/internal/audit"
	"github.com/fastcommand/finance-backend/internal/investors"
	"github.com/fastcommand/finance-backend/pkg/config"
	"github.com/fastcommand/finance-backend/pkg/db"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

const testSchema = `
CREATE TABLE IF NOT EXISTS investors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  national_id TEXT,
  bank_transfer_number TEXT,
  share_percentage NUMERIC NOT NULL DEFAULT 0,
  total_invested NUMERIC NOT NULL DEFAULT 0,
  total_profit NUMERIC NOT NULL DEFAULT 0,
  total_withdrawn NUMERIC NOT NULL DEFAULT 0,
  current_balance NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS withdrawals (
  id TEXT PRIMARY KEY,
  investor_id TEXT NOT NULL,
  investor_name TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  date DATETIME NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  approved_by TEXT NOT NULL DEFAULT '',
  attachments TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS operation_logs (
  id TEXT PRIMARY KEY,
  operation_type TEXT NOT NULL,
  details TEXT NOT NULL,
  performed_by TEXT NOT NULL,
  created_at DATETIME
);`

func setupCoordinator(t *testing.T) (*Coordinator, *db.Client) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	client, err := db.New(context.Background(), config.DBConfig{DSN: dsn, Driver: "sqlite"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().Exec(testSchema).Error)

	logg := logger.New(logger.Options{ServiceName: "test"})
	recorder, err := audit.NewRecorder(audit.NewRepository(client.DB()), logg)
	require.NoError(t, err)

	coord, err := NewCoordinator(NewRepository(client.DB()), investors.NewRepository(client.DB()), client, recorder)
	require.NoError(t, err)
	return coord, client
}

func seedInvestor(t *testing.T, client *db.Client, name string, profit int64) *models.Investor {
	t.Helper()
	row := &models.Investor{
		ID:              uuid.New(),
		Name:            name,
		SharePercentage: decimal.NewFromInt(50),
		TotalProfit:     decimal.NewFromInt(profit),
		CurrentBalance:  decimal.NewFromInt(profit),
	}
	require.NoError(t, client.DB().Create(row).Error)
	return row
}

func adminActor() access.Actor {
	return access.Actor{ID: uuid.New(), Name: "Admin", Role: enums.RoleAdmin}
}

func reloadInvestor(t *testing.T, client *db.Client, id uuid.UUID) *models.Investor {
	t.Helper()
	var row models.Investor
	require.NoError(t, client.DB().First(&row, "id = ?", id).Error)
	return &row
}

func TestCoordinatorCreateUpdatesCachedBalances(t *testing.T) {
	coord, client := setupCoordinator(t)
	inv := seedInvestor(t, client, "Aicha", 1000)

	row, err := coord.Create(context.Background(), adminActor(), CreateInput{
		InvestorID: inv.ID,
		Amount:     decimal.NewFromInt(300),
		Date:       time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Aicha", row.InvestorName)
	assert.Equal(t, "Admin", row.ApprovedBy)

	after := reloadInvestor(t, client, inv.ID)
	assert.True(t, after.TotalWithdrawn.Equal(decimal.NewFromInt(300)), "total withdrawn %s", after.TotalWithdrawn)
	assert.True(t, after.CurrentBalance.Equal(decimal.NewFromInt(700)), "current balance %s", after.CurrentBalance)

	var logCount int64
	require.NoError(t, client.DB().Model(&models.OperationLog{}).Count(&logCount).Error)
	assert.Equal(t, int64(1), logCount)
}

func TestCoordinatorCreateRejectsInsufficientBalance(t *testing.T) {
	coord, client := setupCoordinator(t)
	inv := seedInvestor(t, client, "Brahim", 200)

	_, err := coord.Create(context.Background(), adminActor(), CreateInput{
		InvestorID: inv.ID,
		Amount:     decimal.NewFromInt(500),
		Date:       time.Now(),
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientBalance, appErr.Code())

	// nothing persisted
	var count int64
	require.NoError(t, client.DB().Model(&models.Withdrawal{}).Count(&count).Error)
	assert.Zero(t, count)
	after := reloadInvestor(t, client, inv.ID)
	assert.True(t, after.CurrentBalance.Equal(decimal.NewFromInt(200)))
}

func TestCoordinatorCreateRejectsNonPositiveAmount(t *testing.T) {
	coord, client := setupCoordinator(t)
	inv := seedInvestor(t, client, "Aicha", 1000)

	_, err := coord.Create(context.Background(), adminActor(), CreateInput{
		InvestorID: inv.ID,
		Amount:     decimal.Zero,
		Date:       time.Now(),
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCoordinatorCreateRequiresApprovalPermission(t *testing.T) {
	coord, client := setupCoordinator(t)
	inv := seedInvestor(t, client, "Aicha", 1000)

	investor := access.Actor{ID: uuid.New(), Name: "Aicha", Role: enums.RoleInvestor}
	_, err := coord.Create(context.Background(), investor, CreateInput{
		InvestorID: inv.ID,
		Amount:     decimal.NewFromInt(10),
		Date:       time.Now(),
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestCoordinatorUpdateSameInvestorUsesHeadroom(t *testing.T) {
	coord, client := setupCoordinator(t)
	inv := seedInvestor(t, client, "Aicha", 1000)

	row, err := coord.Create(context.Background(), adminActor(), CreateInput{
		InvestorID: inv.ID,
		Amount:     decimal.NewFromInt(900),
		Date:       time.Now(),
	})
	require.NoError(t, err)

	// balance is 100 now, but raising the same withdrawal to 950 is fine
	// because its own 900 is reversed first
	amount := decimal.NewFromInt(950)
	updated, err := coord.Update(context.Background(), adminActor(), row.ID, UpdateInput{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(amount))

	after := reloadInvestor(t, client, inv.ID)
	assert.True(t, after.CurrentBalance.Equal(decimal.NewFromInt(50)), "current balance %s", after.CurrentBalance)

	over := decimal.NewFromInt(1100)
	_, err = coord.Update(context.Background(), adminActor(), row.ID, UpdateInput{Amount: &over})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientBalance, appErr.Code())
}

func TestCoordinatorUpdateMovesEffectBetweenInvestors(t *testing.T) {
	coord, client := setupCoordinator(t)
	first := seedInvestor(t, client, "Aicha", 1000)
	second := seedInvestor(t, client, "Brahim", 500)

	row, err := coord.Create(context.Background(), adminActor(), CreateInput{
		InvestorID: first.ID,
		Amount:     decimal.NewFromInt(400),
		Date:       time.Now(),
	})
	require.NoError(t, err)

	updated, err := coord.Update(context.Background(), adminActor(), row.ID, UpdateInput{InvestorID: &second.ID})
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.InvestorID)
	assert.Equal(t, "Brahim", updated.InvestorName)

	afterFirst := reloadInvestor(t, client, first.ID)
	afterSecond := reloadInvestor(t, client, second.ID)
	assert.True(t, afterFirst.CurrentBalance.Equal(decimal.NewFromInt(1000)), "first balance %s", afterFirst.CurrentBalance)
	assert.True(t, afterFirst.TotalWithdrawn.IsZero())
	assert.True(t, afterSecond.CurrentBalance.Equal(decimal.NewFromInt(100)), "second balance %s", afterSecond.CurrentBalance)
	assert.True(t, afterSecond.TotalWithdrawn.Equal(decimal.NewFromInt(400)))
}

func TestCoordinatorDeleteRestoresBalance(t *testing.T) {
	coord, client := setupCoordinator(t)
	inv := seedInvestor(t, client, "Aicha", 1000)

	row, err := coord.Create(context.Background(), adminActor(), CreateInput{
		InvestorID: inv.ID,
		Amount:     decimal.NewFromInt(250),
		Date:       time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, coord.Delete(context.Background(), adminActor(), row.ID))

	after := reloadInvestor(t, client, inv.ID)
	assert.True(t, after.TotalWithdrawn.IsZero())
	assert.True(t, after.CurrentBalance.Equal(decimal.NewFromInt(1000)))

	err = coord.Delete(context.Background(), adminActor(), row.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestCoordinatorBalancesAreRecomputedNotIncremented(t *testing.T) {
	coord, client := setupCoordinator(t)
	inv := seedInvestor(t, client, "Aicha", 1000)

	// drift the cache on purpose; the next mutation must repair it
	require.NoError(t, client.DB().Model(&models.Investor{}).
		Where("id = ?", inv.ID).
		Update("total_withdrawn", decimal.NewFromInt(999)).Error)

	_, err := coord.Create(context.Background(), adminActor(), CreateInput{
		InvestorID: inv.ID,
		Amount:     decimal.NewFromInt(100),
		Date:       time.Now(),
	})
	require.NoError(t, err)

	after := reloadInvestor(t, client, inv.ID)
	assert.True(t, after.TotalWithdrawn.Equal(decimal.NewFromInt(100)), "total withdrawn %s", after.TotalWithdrawn)
	assert.True(t, after.CurrentBalance.Equal(decimal.NewFromInt(900)), "current balance %s", after.CurrentBalance)
}

func TestCoordinatorListScopesInvestorsToOwnRows(t *testing.T) {
	coord, client := setupCoordinator(t)
	first := seedInvestor(t, client, "Aicha", 1000)
	second := seedInvestor(t, client, "Brahim", 1000)

	for _, inv := range []*models.Investor{first, second} {
		_, err := coord.Create(context.Background(), adminActor(), CreateInput{
			InvestorID: inv.ID,
			Amount:     decimal.NewFromInt(100),
			Date:       time.Now(),
		})
		require.NoError(t, err)
	}

	all, err := coord.List(context.Background(), adminActor(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// name matching ignores case and padding
	own, err := coord.List(context.Background(), access.Actor{Name: "  AICHA ", Role: enums.RoleInvestor}, nil, nil)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, first.ID, own[0].InvestorID)
}

func TestCoordinatorDrawsOnServiceCreatedInvestor(t *testing.T) {
	coord, client := setupCoordinator(t)

	logg := logger.New(logger.Options{ServiceName: "test"})
	recorder, err := audit.NewRecorder(audit.NewRepository(client.DB()), logg)
	require.NoError(t, err)
	invSvc, err := investors.NewService(investors.NewRepository(client.DB()), client, recorder)
	require.NoError(t, err)

	created, err := invSvc.Create(context.Background(), adminActor(), investors.CreateInput{
		Name:            "Mariem",
		Phone:           "22001122",
		SharePercentage: decimal.NewFromInt(25),
		TotalInvested:   decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.True(t, created.CurrentBalance.Equal(decimal.NewFromInt(500)), "seeded balance %s", created.CurrentBalance)

	// invested capital funds the withdrawal with no column seeding involved
	_, err = coord.Create(context.Background(), adminActor(), CreateInput{
		InvestorID: created.ID,
		Amount:     decimal.NewFromInt(200),
		Date:       time.Now(),
	})
	require.NoError(t, err)

	after := reloadInvestor(t, client, created.ID)
	assert.True(t, after.TotalWithdrawn.Equal(decimal.NewFromInt(200)))
	assert.True(t, after.CurrentBalance.Equal(decimal.NewFromInt(300)), "current balance %s", after.CurrentBalance)

	// crediting profit through the service widens the withdrawable balance
	profit := decimal.NewFromInt(100)
	_, err = invSvc.Update(context.Background(), adminActor(), created.ID, investors.UpdateInput{TotalProfit: &profit})
	require.NoError(t, err)
	after = reloadInvestor(t, client, created.ID)
	assert.True(t, after.CurrentBalance.Equal(decimal.NewFromInt(400)), "current balance %s", after.CurrentBalance)

	_, err = coord.Create(context.Background(), adminActor(), CreateInput{
		InvestorID: created.ID,
		Amount:     decimal.NewFromInt(401),
		Date:       time.Now(),
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientBalance, appErr.Code())
}

func TestCoordinatorCreateResolvesInvestorByName(t *testing.T) {
	coord, client := setupCoordinator(t)
	inv := seedInvestor(t, client, "Aicha", 1000)

	row, err := coord.Create(context.Background(), adminActor(), CreateInput{
		InvestorName: "  aicha ",
		Amount:       decimal.NewFromInt(50),
		Date:         time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, inv.ID, row.InvestorID)

	after := reloadInvestor(t, client, inv.ID)
	assert.True(t, after.CurrentBalance.Equal(decimal.NewFromInt(950)))
}

func TestCoordinatorCreateRequiresInvestorReference(t *testing.T) {
	coord, _ := setupCoordinator(t)

	_, err := coord.Create(context.Background(), adminActor(), CreateInput{
		Amount: decimal.NewFromInt(50),
		Date:   time.Now(),
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCoordinatorUpdateResolvesInvestorByName(t *testing.T) {
	coord, client := setupCoordinator(t)
	first := seedInvestor(t, client, "Aicha", 1000)
	second := seedInvestor(t, client, "Brahim", 500)

	row, err := coord.Create(context.Background(), adminActor(), CreateInput{
		InvestorID: first.ID,
		Amount:     decimal.NewFromInt(100),
		Date:       time.Now(),
	})
	require.NoError(t, err)

	name := "BRAHIM"
	moved, err := coord.Update(context.Background(), adminActor(), row.ID, UpdateInput{InvestorName: &name})
	require.NoError(t, err)
	assert.Equal(t, second.ID, moved.InvestorID)

	assert.True(t, reloadInvestor(t, client, first.ID).CurrentBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, reloadInvestor(t, client, second.ID).CurrentBalance.Equal(decimal.NewFromInt(400)))
}
