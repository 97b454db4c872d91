package distribution

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastcommand/finance-backend/pkg/db/models"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func baseSnapshot() Snapshot {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return Snapshot{
		Investors: []models.Investor{
			{Name: "Aicha", SharePercentage: dec(60)},
			{Name: "Brahim", SharePercentage: dec(40)},
		},
		Revenues: []models.Revenue{
			{Amount: dec(100000), Date: now.AddDate(0, -2, 0)},
		},
		Expenses: []models.Expense{
			{Amount: dec(40000), Date: now.AddDate(0, -1, 0)},
		},
		Settings: ResolvedSettings{ProjectPercentage: dec(15)},
		Now:      now,
	}
}

func TestComputeStatsEndToEndScenario(t *testing.T) {
	stats := ComputeStats(baseSnapshot())

	assert.True(t, stats.TotalRevenue.Equal(dec(100000)))
	assert.True(t, stats.TotalExpenses.Equal(dec(40000)))
	assert.True(t, stats.TotalProfit.Equal(dec(60000)))
	assert.True(t, stats.ProjectBalance.Equal(dec(9000)))
	assert.True(t, stats.InvestorsPercentage.Equal(dec(85)))
	assert.True(t, stats.AvailableBalance.Equal(dec(51000)))
	assert.Empty(t, stats.IntegrityWarning)
}

func TestEffectiveProfitsEndToEndScenario(t *testing.T) {
	stats, profits := InvestorsWithEffectiveProfits(baseSnapshot())
	require.Len(t, profits, 2)

	assert.True(t, stats.AvailableBalance.Equal(dec(51000)))

	a := profits[0]
	assert.Equal(t, "Aicha", a.Investor.Name)
	assert.True(t, a.EffectiveSharePercentage.Equal(dec(51)), "got %s", a.EffectiveSharePercentage)
	assert.True(t, a.ExpectedEffectiveProfit.Equal(dec(26010)), "got %s", a.ExpectedEffectiveProfit)
	assert.True(t, a.ActualTotalProfit.Equal(dec(30600)), "got %s", a.ActualTotalProfit)
	assert.True(t, a.ActualCurrentBalance.Equal(dec(30600)))

	b := profits[1]
	assert.True(t, b.EffectiveSharePercentage.Equal(dec(34)))
	assert.True(t, b.ActualTotalProfit.Equal(dec(20400)))
}

func TestEffectiveProfitsZeroShares(t *testing.T) {
	snap := baseSnapshot()
	snap.Investors = []models.Investor{
		{Name: "Aicha", SharePercentage: decimal.Zero},
		{Name: "Brahim", SharePercentage: decimal.Zero},
	}

	_, profits := InvestorsWithEffectiveProfits(snap)
	require.Len(t, profits, 2)
	for _, p := range profits {
		assert.True(t, p.EffectiveSharePercentage.IsZero())
		assert.True(t, p.ExpectedEffectiveProfit.IsZero())
		assert.True(t, p.ActualTotalProfit.IsZero())
	}
}

func TestEffectiveProfitsNoInvestors(t *testing.T) {
	snap := baseSnapshot()
	snap.Investors = nil

	stats, profits := InvestorsWithEffectiveProfits(snap)
	assert.Empty(t, profits)
	assert.Equal(t, 0, stats.InvestorCount)
}

func TestWithdrawalsReduceAvailableAndBalances(t *testing.T) {
	snap := baseSnapshot()
	snap.Withdrawals = []models.Withdrawal{
		{InvestorName: "  AICHA ", Amount: dec(10000), Date: snap.Now},
	}

	stats, profits := InvestorsWithEffectiveProfits(snap)
	assert.True(t, stats.TotalWithdrawals.Equal(dec(10000)))
	assert.True(t, stats.AvailableBalance.Equal(dec(41000)))

	// name match is case-insensitive after trimming
	a := profits[0]
	assert.True(t, a.ActualTotalWithdrawn.Equal(dec(10000)))
	assert.True(t, a.ActualCurrentBalance.Equal(dec(20600)))

	b := profits[1]
	assert.True(t, b.ActualTotalWithdrawn.IsZero())
}

func TestProjectWithdrawalsReduceAvailable(t *testing.T) {
	snap := baseSnapshot()
	snap.ProjectWithdrawals = []models.ProjectWithdrawal{
		{Amount: dec(5000), Date: snap.Now},
	}

	stats := ComputeStats(snap)
	assert.True(t, stats.ProjectWithdrawalsSum.Equal(dec(5000)))
	assert.True(t, stats.AvailableBalance.Equal(dec(46000)))
}

func TestCustomAllocationsCarveOut(t *testing.T) {
	snap := baseSnapshot()
	snap.Settings.CustomAllocations = []models.CustomAllocation{
		{Name: "Donations", Percentage: dec(5)},
		{Name: "Fees", Percentage: dec(5)},
	}

	stats := ComputeStats(snap)
	assert.True(t, stats.CustomAllocationsAmount.Equal(dec(6000)))
	assert.True(t, stats.InvestorsPercentage.Equal(dec(75)))
	assert.True(t, stats.AvailableBalance.Equal(dec(36000)))
}

func TestPercentageOverflowClampsWithWarning(t *testing.T) {
	snap := baseSnapshot()
	snap.Settings.ProjectPercentage = dec(80)
	snap.Settings.CustomAllocations = []models.CustomAllocation{
		{Name: "Donations", Percentage: dec(30)},
	}

	stats, profits := InvestorsWithEffectiveProfits(snap)
	assert.True(t, stats.InvestorsPercentage.IsZero())
	assert.NotEmpty(t, stats.IntegrityWarning)
	for _, p := range profits {
		assert.True(t, p.EffectiveSharePercentage.IsZero())
		assert.True(t, p.ExpectedEffectiveProfit.IsZero())
	}
}

func TestNegativeProfitFlowsThrough(t *testing.T) {
	snap := baseSnapshot()
	snap.Expenses = []models.Expense{{Amount: dec(150000), Date: snap.Now}}

	stats := ComputeStats(snap)
	assert.True(t, stats.TotalProfit.Equal(dec(-50000)))
	assert.True(t, stats.ProjectBalance.Equal(dec(-7500)))
}

func TestMonthlyGrowth(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Revenues: []models.Revenue{
			{Amount: dec(25000), Date: now.AddDate(0, 0, -3)},
			{Amount: dec(75000), Date: now.AddDate(0, -3, 0)},
		},
		Settings: ResolvedSettings{ProjectPercentage: dec(15)},
		Now:      now,
	}

	stats := ComputeStats(snap)
	assert.True(t, stats.MonthlyGrowth.Equal(dec(25)))
}

func TestMonthlyGrowthZeroRevenue(t *testing.T) {
	snap := Snapshot{Settings: ResolvedSettings{ProjectPercentage: dec(15)}}
	stats := ComputeStats(snap)
	assert.True(t, stats.MonthlyGrowth.IsZero())
}

func TestComputeStatsIsPure(t *testing.T) {
	snap := baseSnapshot()
	first := ComputeStats(snap)
	second := ComputeStats(snap)
	assert.Equal(t, first, second)
}
