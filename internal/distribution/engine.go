package distribution

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastcommand/finance-backend/pkg/db/models"
)

var hundred = decimal.NewFromInt(100)

// Snapshot is a point-in-time read of the whole ledger. The engine only ever
// reads it, so a single snapshot can be shared across goroutines.
type Snapshot struct {
	Investors          []models.Investor
	Revenues           []models.Revenue
	Expenses           []models.Expense
	Withdrawals        []models.Withdrawal
	ProjectWithdrawals []models.ProjectWithdrawal
	Settings           ResolvedSettings
	Now                time.Time
}

// ResolvedSettings is the subset of app settings the engine cares about.
type ResolvedSettings struct {
	ProjectPercentage decimal.Decimal
	CustomAllocations []models.CustomAllocation
}

// Stats is the aggregate dashboard view derived from a snapshot. Monetary
// fields are rounded to whole units, percentages to two decimals.
type Stats struct {
	TotalRevenue            decimal.Decimal `json:"totalRevenue"`
	TotalExpenses           decimal.Decimal `json:"totalExpenses"`
	TotalProfit             decimal.Decimal `json:"totalProfit"`
	TotalWithdrawals        decimal.Decimal `json:"totalWithdrawals"`
	ProjectBalance          decimal.Decimal `json:"projectBalance"`
	CustomAllocationsAmount decimal.Decimal `json:"customAllocationsAmount"`
	ProjectWithdrawalsSum   decimal.Decimal `json:"projectWithdrawalsSum"`
	AvailableBalance        decimal.Decimal `json:"availableBalance"`
	ProjectPercentage       decimal.Decimal `json:"projectPercentage"`
	InvestorsPercentage     decimal.Decimal `json:"investorsPercentage"`
	MonthlyGrowth           decimal.Decimal `json:"monthlyGrowth"`
	InvestorCount           int             `json:"investorCount"`

	// IntegrityWarning is set when persisted percentages sum past 100. The
	// stats are still produced, with InvestorsPercentage clamped to zero.
	IntegrityWarning string `json:"integrityWarning,omitempty"`
}

// InvestorProfit is one investor's renormalized position within the pool.
type InvestorProfit struct {
	Investor models.Investor `json:"investor"`

	EffectiveSharePercentage decimal.Decimal `json:"effectiveSharePercentage"`
	ExpectedEffectiveProfit  decimal.Decimal `json:"expectedEffectiveProfit"`
	ActualTotalProfit        decimal.Decimal `json:"actualTotalProfit"`
	ActualTotalWithdrawn     decimal.Decimal `json:"actualTotalWithdrawn"`
	ActualCurrentBalance     decimal.Decimal `json:"actualCurrentBalance"`
}

// rawStats keeps the unrounded intermediates so per-investor figures are
// derived at full precision before display rounding.
type rawStats struct {
	totalRevenue          decimal.Decimal
	totalExpenses         decimal.Decimal
	totalProfit           decimal.Decimal
	totalWithdrawals      decimal.Decimal
	projectBalance        decimal.Decimal
	allocAmount           decimal.Decimal
	projectWithdrawalsSum decimal.Decimal
	availableBalance      decimal.Decimal
	projectPct            decimal.Decimal
	investorsPct          decimal.Decimal
	monthlyGrowth         decimal.Decimal
	investorCount         int
	warning               string
}

func compute(snap Snapshot) rawStats {
	var totalRevenue, totalExpenses, monthRevenue decimal.Decimal
	now := snap.Now
	if now.IsZero() {
		now = time.Now()
	}
	for _, r := range snap.Revenues {
		totalRevenue = totalRevenue.Add(r.Amount)
		if sameMonth(r.Date, now) {
			monthRevenue = monthRevenue.Add(r.Amount)
		}
	}
	for _, e := range snap.Expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}
	totalProfit := totalRevenue.Sub(totalExpenses)

	var totalWithdrawals decimal.Decimal
	for _, w := range snap.Withdrawals {
		totalWithdrawals = totalWithdrawals.Add(w.Amount)
	}
	var projectWithdrawalsSum decimal.Decimal
	for _, pw := range snap.ProjectWithdrawals {
		projectWithdrawalsSum = projectWithdrawalsSum.Add(pw.Amount)
	}

	projectPct := snap.Settings.ProjectPercentage
	var allocPct decimal.Decimal
	for _, a := range snap.Settings.CustomAllocations {
		allocPct = allocPct.Add(a.Percentage)
	}

	projectBalance := totalProfit.Mul(projectPct).Div(hundred)
	allocAmount := totalProfit.Mul(allocPct).Div(hundred)
	available := totalProfit.
		Sub(projectBalance).
		Sub(allocAmount).
		Sub(projectWithdrawalsSum).
		Sub(totalWithdrawals)

	investorsPct := hundred.Sub(projectPct).Sub(allocPct)
	warning := ""
	if investorsPct.IsNegative() {
		investorsPct = decimal.Zero
		warning = "project percentage and custom allocations exceed 100%; investor share clamped to 0"
	}

	var monthlyGrowth decimal.Decimal
	if totalRevenue.IsPositive() {
		monthlyGrowth = monthRevenue.Div(totalRevenue).Mul(hundred)
	}

	return rawStats{
		totalRevenue:          totalRevenue,
		totalExpenses:         totalExpenses,
		totalProfit:           totalProfit,
		totalWithdrawals:      totalWithdrawals,
		projectBalance:        projectBalance,
		allocAmount:           allocAmount,
		projectWithdrawalsSum: projectWithdrawalsSum,
		availableBalance:      available,
		projectPct:            projectPct,
		investorsPct:          investorsPct,
		monthlyGrowth:         monthlyGrowth,
		investorCount:         len(snap.Investors),
		warning:               warning,
	}
}

func (r rawStats) rounded() Stats {
	return Stats{
		TotalRevenue:            r.totalRevenue.Round(0),
		TotalExpenses:           r.totalExpenses.Round(0),
		TotalProfit:             r.totalProfit.Round(0),
		TotalWithdrawals:        r.totalWithdrawals.Round(0),
		ProjectBalance:          r.projectBalance.Round(0),
		CustomAllocationsAmount: r.allocAmount.Round(0),
		ProjectWithdrawalsSum:   r.projectWithdrawalsSum.Round(0),
		AvailableBalance:        r.availableBalance.Round(0),
		ProjectPercentage:       r.projectPct.Round(2),
		InvestorsPercentage:     r.investorsPct.Round(2),
		MonthlyGrowth:           r.monthlyGrowth.Round(2),
		InvestorCount:           r.investorCount,
		IntegrityWarning:        r.warning,
	}
}

// ComputeStats derives the dashboard aggregates from a ledger snapshot. It is
// a pure function: same snapshot in, same stats out.
func ComputeStats(snap Snapshot) Stats {
	return compute(snap).rounded()
}

// InvestorsWithEffectiveProfits renormalizes each investor's nominal share
// within the investor pool and derives expected and actual profit figures.
// Shares summing to zero yield all-zero effective figures for every investor.
func InvestorsWithEffectiveProfits(snap Snapshot) (Stats, []InvestorProfit) {
	raw := compute(snap)

	var totalShares decimal.Decimal
	for _, inv := range snap.Investors {
		totalShares = totalShares.Add(inv.SharePercentage)
	}

	withdrawnByName := make(map[string]decimal.Decimal, len(snap.Investors))
	for _, w := range snap.Withdrawals {
		key := normalizeName(w.InvestorName)
		withdrawnByName[key] = withdrawnByName[key].Add(w.Amount)
	}

	out := make([]InvestorProfit, 0, len(snap.Investors))
	for _, inv := range snap.Investors {
		var effPct decimal.Decimal
		if totalShares.IsPositive() {
			effPct = inv.SharePercentage.Div(totalShares).Mul(raw.investorsPct)
		}
		expected := raw.availableBalance.Mul(effPct).Div(hundred)
		actualProfit := raw.totalProfit.Mul(effPct).Div(hundred)
		withdrawn := withdrawnByName[normalizeName(inv.Name)]
		actualBalance := actualProfit.Sub(withdrawn)

		out = append(out, InvestorProfit{
			Investor:                 inv,
			EffectiveSharePercentage: effPct.Round(2),
			ExpectedEffectiveProfit:  expected.Round(0),
			ActualTotalProfit:        actualProfit.Round(0),
			ActualTotalWithdrawn:     withdrawn.Round(0),
			ActualCurrentBalance:     actualBalance.Round(0),
		})
	}
	return raw.rounded(), out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
