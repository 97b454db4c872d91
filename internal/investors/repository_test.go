package investors

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/pkg/db/models"
)

func setupInvestorsDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
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
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func TestFindByNameNormalizesInput(t *testing.T) {
	conn := setupInvestorsDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Investor{
		ID:              uuid.New(),
		Name:            "  Aicha ",
		SharePercentage: decimal.NewFromInt(60),
	}))

	for _, input := range []string{"aicha", "AICHA", "  Aicha  "} {
		row, err := repo.FindByName(ctx, input)
		require.NoError(t, err, "lookup %q", input)
		assert.Equal(t, "  Aicha ", row.Name)
	}

	_, err := repo.FindByName(ctx, "Brahim")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteReportsMissingRow(t *testing.T) {
	conn := setupInvestorsDB(t)
	repo := NewRepository(conn)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCountWithdrawals(t *testing.T) {
	conn := setupInvestorsDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	inv := &models.Investor{ID: uuid.New(), Name: "Brahim", SharePercentage: decimal.NewFromInt(40)}
	require.NoError(t, repo.Create(ctx, inv))

	count, err := repo.CountWithdrawals(ctx, inv.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, conn.Exec(
		`INSERT INTO withdrawals (id, investor_id, investor_name, amount, date) VALUES (?, ?, ?, 100, date('now'))`,
		uuid.NewString(), inv.ID.String(), inv.Name).Error)

	count, err = repo.CountWithdrawals(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
