package insights

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/internal/audit"
	"github.com/fastcommand/finance-backend/internal/distribution"
	"github.com/fastcommand/finance-backend/pkg/enums"
)

// Insight is one generated observation about the project's finances.
type Insight struct {
	Type     enums.InsightType     `json:"type"`
	Severity enums.InsightSeverity `json:"severity"`
	Title    string                `json:"title"`
	Message  string                `json:"message"`
}

type statsReader interface {
	Stats(ctx context.Context) (*distribution.Stats, error)
}

// Service derives rule-based insights from the current dashboard stats.
type Service struct {
	stats    statsReader
	recorder *audit.Recorder
}

// NewService constructs the insights service.
func NewService(stats statsReader, recorder *audit.Recorder) (*Service, error) {
	if stats == nil {
		return nil, fmt.Errorf("stats reader required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Service{stats: stats, recorder: recorder}, nil
}

var (
	seventyPct = decimal.NewFromInt(70)
	ninetyPct  = decimal.NewFromInt(90)
	tenPct     = decimal.NewFromInt(10)
)

// Generate computes the current insight set. Insights are derived fresh on
// every call, never stored. The insights permission alone authorizes the
// aggregate read, so investors can see insights without the full dashboard.
func (s *Service) Generate(ctx context.Context, actor access.Actor) ([]Insight, error) {
	if err := actor.Require(access.ViewInsights, "view insights"); err != nil {
		return nil, err
	}
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, err
	}

	out := FromStats(stats)
	s.recorder.Record(ctx, actor, enums.OperationInsightsGenerated,
		fmt.Sprintf("%d insights generated", len(out)))
	return out, nil
}

// FromStats applies the rule set to a stats snapshot.
func FromStats(stats *distribution.Stats) []Insight {
	var out []Insight

	if stats.IntegrityWarning != "" {
		out = append(out, Insight{
			Type:     enums.InsightTypeWarning,
			Severity: enums.InsightSeverityHigh,
			Title:    "Percentage configuration invalid",
			Message:  stats.IntegrityWarning,
		})
	}

	if stats.TotalProfit.IsNegative() {
		out = append(out, Insight{
			Type:     enums.InsightTypeWarning,
			Severity: enums.InsightSeverityHigh,
			Title:    "Project is operating at a loss",
			Message: fmt.Sprintf("Expenses exceed revenues by %s. Review the largest expense categories.",
				stats.TotalProfit.Neg().StringFixed(0)),
		})
	}

	if stats.TotalRevenue.IsPositive() {
		expenseRatio := stats.TotalExpenses.Div(stats.TotalRevenue).Mul(decimal.NewFromInt(100))
		switch {
		case expenseRatio.GreaterThanOrEqual(ninetyPct):
			out = append(out, Insight{
				Type:     enums.InsightTypeWarning,
				Severity: enums.InsightSeverityHigh,
				Title:    "Expenses are consuming nearly all revenue",
				Message:  fmt.Sprintf("Expenses are %s%% of revenue, leaving almost no margin.", expenseRatio.StringFixed(1)),
			})
		case expenseRatio.GreaterThanOrEqual(seventyPct):
			out = append(out, Insight{
				Type:     enums.InsightTypeRecommendation,
				Severity: enums.InsightSeverityMedium,
				Title:    "Expense ratio is high",
				Message:  fmt.Sprintf("Expenses are %s%% of revenue. Consider reviewing recurring costs.", expenseRatio.StringFixed(1)),
			})
		}
	}

	if stats.AvailableBalance.IsNegative() {
		out = append(out, Insight{
			Type:     enums.InsightTypeWarning,
			Severity: enums.InsightSeverityHigh,
			Title:    "Distributable balance is negative",
			Message:  "Withdrawals and allocations exceed the profit available. New withdrawals should be paused.",
		})
	}

	if stats.MonthlyGrowth.GreaterThan(tenPct) {
		out = append(out, Insight{
			Type:     enums.InsightTypeAnalysis,
			Severity: enums.InsightSeverityLow,
			Title:    "Strong revenue this month",
			Message:  fmt.Sprintf("%s%% of all revenue was earned in the current month.", stats.MonthlyGrowth.StringFixed(1)),
		})
	}

	if len(out) == 0 {
		out = append(out, Insight{
			Type:     enums.InsightTypeAnalysis,
			Severity: enums.InsightSeverityLow,
			Title:    "Finances look stable",
			Message:  "No anomalies detected in the current ledger.",
		})
	}
	return out
}
