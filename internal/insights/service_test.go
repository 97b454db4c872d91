package insights

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/internal/audit"
	"github.com/fastcommand/finance-backend/internal/distribution"
	"github.com/fastcommand/finance-backend/pkg/config"
	"github.com/fastcommand/finance-backend/pkg/db"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

func healthyStats() *distribution.Stats {
	return &distribution.Stats{
		TotalRevenue:     decimal.NewFromInt(100000),
		TotalExpenses:    decimal.NewFromInt(40000),
		TotalProfit:      decimal.NewFromInt(60000),
		AvailableBalance: decimal.NewFromInt(51000),
		MonthlyGrowth:    decimal.NewFromInt(5),
	}
}

func titles(out []Insight) []string {
	var names []string
	for _, i := range out {
		names = append(names, i.Title)
	}
	return names
}

func TestFromStatsStableFallback(t *testing.T) {
	out := FromStats(healthyStats())
	require.Len(t, out, 1)
	assert.Equal(t, "Finances look stable", out[0].Title)
	assert.Equal(t, enums.InsightTypeAnalysis, out[0].Type)
	assert.Equal(t, enums.InsightSeverityLow, out[0].Severity)
}

func TestFromStatsIntegrityWarning(t *testing.T) {
	stats := healthyStats()
	stats.IntegrityWarning = "project and allocation percentages total 110%"

	out := FromStats(stats)
	require.NotEmpty(t, out)
	assert.Equal(t, "Percentage configuration invalid", out[0].Title)
	assert.Equal(t, enums.InsightSeverityHigh, out[0].Severity)
	assert.Contains(t, out[0].Message, "110%")
}

func TestFromStatsLossAndNegativeBalance(t *testing.T) {
	stats := healthyStats()
	stats.TotalExpenses = decimal.NewFromInt(150000)
	stats.TotalProfit = decimal.NewFromInt(-50000)
	stats.AvailableBalance = decimal.NewFromInt(-42500)

	out := FromStats(stats)
	names := titles(out)
	assert.Contains(t, names, "Project is operating at a loss")
	assert.Contains(t, names, "Distributable balance is negative")
	assert.Contains(t, names, "Expenses are consuming nearly all revenue")
	assert.NotContains(t, names, "Finances look stable")
}

func TestFromStatsExpenseRatioBands(t *testing.T) {
	stats := healthyStats()
	stats.TotalExpenses = decimal.NewFromInt(75000)
	stats.TotalProfit = decimal.NewFromInt(25000)

	out := FromStats(stats)
	names := titles(out)
	assert.Contains(t, names, "Expense ratio is high")
	assert.NotContains(t, names, "Expenses are consuming nearly all revenue")

	for _, i := range out {
		if i.Title == "Expense ratio is high" {
			assert.Equal(t, enums.InsightTypeRecommendation, i.Type)
			assert.Equal(t, enums.InsightSeverityMedium, i.Severity)
			assert.Contains(t, i.Message, "75.0%")
		}
	}
}

func TestFromStatsSkipsRatioWithoutRevenue(t *testing.T) {
	stats := &distribution.Stats{
		TotalExpenses:    decimal.NewFromInt(5000),
		TotalProfit:      decimal.NewFromInt(-5000),
		AvailableBalance: decimal.NewFromInt(-5000),
	}

	out := FromStats(stats)
	names := titles(out)
	assert.Contains(t, names, "Project is operating at a loss")
	assert.NotContains(t, names, "Expense ratio is high")
	assert.NotContains(t, names, "Expenses are consuming nearly all revenue")
}

func TestFromStatsMonthlyGrowth(t *testing.T) {
	stats := healthyStats()
	stats.MonthlyGrowth = decimal.NewFromInt(25)

	out := FromStats(stats)
	names := titles(out)
	assert.Contains(t, names, "Strong revenue this month")
}

type stubStats struct{ stats *distribution.Stats }

func (s stubStats) Stats(_ context.Context) (*distribution.Stats, error) { return s.stats, nil }

func setupService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	client, err := db.New(context.Background(), config.DBConfig{DSN: dsn, Driver: "sqlite"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().Exec(`CREATE TABLE IF NOT EXISTS operation_logs (
  id TEXT PRIMARY KEY,
  operation_type TEXT NOT NULL,
  details TEXT NOT NULL,
  performed_by TEXT NOT NULL,
  created_at DATETIME
);`).Error)

	logg := logger.New(logger.Options{ServiceName: "test"})
	recorder, err := audit.NewRecorder(audit.NewRepository(client.DB()), logg)
	require.NoError(t, err)

	svc, err := NewService(stubStats{stats: healthyStats()}, recorder)
	require.NoError(t, err)
	return svc
}

func TestGenerateAllowsInvestor(t *testing.T) {
	svc := setupService(t)

	actor := access.Actor{ID: uuid.New(), Name: "Aicha", Role: enums.RoleInvestor}
	out, err := svc.Generate(context.Background(), actor)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateFailsClosedForUnknownRole(t *testing.T) {
	svc := setupService(t)

	actor := access.Actor{ID: uuid.New(), Name: "Ghost", Role: enums.Role("ghost")}
	_, err := svc.Generate(context.Background(), actor)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}
