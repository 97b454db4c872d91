package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/internal/audit"
	"github.com/fastcommand/finance-backend/internal/distribution"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

type ledgerReader interface {
	List(ctx context.Context, from, to *time.Time) ([]models.Revenue, error)
}

type expenseReader interface {
	List(ctx context.Context, from, to *time.Time) ([]models.Expense, error)
}

type withdrawalReader interface {
	List(ctx context.Context, from, to *time.Time) ([]models.Withdrawal, error)
}

type projectWithdrawalReader interface {
	List(ctx context.Context) ([]models.ProjectWithdrawal, error)
}

type profitsReader interface {
	Dashboard(ctx context.Context, actor access.Actor) (*distribution.Stats, error)
	InvestorProfits(ctx context.Context, actor access.Actor) (*distribution.Stats, []distribution.InvestorProfit, error)
}

// Service produces the full-ledger spreadsheet export.
type Service struct {
	revenues           ledgerReader
	expenses           expenseReader
	withdrawals        withdrawalReader
	projectWithdrawals projectWithdrawalReader
	profits            profitsReader
	recorder           *audit.Recorder
}

// NewService constructs the export service.
func NewService(revenues ledgerReader, expenses expenseReader, withdrawals withdrawalReader, projectWithdrawals projectWithdrawalReader, profits profitsReader, recorder *audit.Recorder) (*Service, error) {
	if revenues == nil || expenses == nil || withdrawals == nil || projectWithdrawals == nil {
		return nil, fmt.Errorf("all ledger readers required")
	}
	if profits == nil {
		return nil, fmt.Errorf("profits reader required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Service{
		revenues:           revenues,
		expenses:           expenses,
		withdrawals:        withdrawals,
		projectWithdrawals: projectWithdrawals,
		profits:            profits,
		recorder:           recorder,
	}, nil
}

const dateLayout = "2006-01-02"

// WriteWorkbook streams the complete ledger as an xlsx workbook.
func (s *Service) WriteWorkbook(ctx context.Context, actor access.Actor, w io.Writer) error {
	if err := actor.Require(access.ExportData, "export data"); err != nil {
		return err
	}

	stats, profits, err := s.profits.InvestorProfits(ctx, actor)
	if err != nil {
		return err
	}
	revenues, err := s.revenues.List(ctx, nil, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list revenues")
	}
	expenses, err := s.expenses.List(ctx, nil, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list expenses")
	}
	withdrawals, err := s.withdrawals.List(ctx, nil, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list withdrawals")
	}
	projectWithdrawals, err := s.projectWithdrawals.List(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list project withdrawals")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummary(f, stats); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write summary sheet")
	}
	if err := writeInvestors(f, profits); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write investors sheet")
	}
	if err := writeRevenues(f, revenues); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write revenues sheet")
	}
	if err := writeExpenses(f, expenses); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write expenses sheet")
	}
	if err := writeWithdrawals(f, withdrawals, projectWithdrawals); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write withdrawals sheet")
	}
	// drop the default sheet created by NewFile
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete default sheet")
	}

	if err := f.Write(w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write workbook")
	}

	s.recorder.Record(ctx, actor, enums.OperationDataExported, "full ledger exported to spreadsheet")
	return nil
}

func setHeaders(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, stats *distribution.Stats) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Total revenue", stats.TotalRevenue.String()},
		{"Total expenses", stats.TotalExpenses.String()},
		{"Total profit", stats.TotalProfit.String()},
		{"Project balance", stats.ProjectBalance.String()},
		{"Custom allocations", stats.CustomAllocationsAmount.String()},
		{"Project withdrawals", stats.ProjectWithdrawalsSum.String()},
		{"Investor withdrawals", stats.TotalWithdrawals.String()},
		{"Available balance", stats.AvailableBalance.String()},
		{"Project percentage", stats.ProjectPercentage.String() + "%"},
		{"Investors percentage", stats.InvestorsPercentage.String() + "%"},
		{"Monthly growth", stats.MonthlyGrowth.String() + "%"},
	}
	if err := setHeaders(f, sheet, []string{"Metric", "Value"}); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, sheet, i+2, r); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "B", 24)
}

func writeInvestors(f *excelize.File, profits []distribution.InvestorProfit) error {
	const sheet = "Investors"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []string{"Name", "Phone", "Share %", "Effective share %", "Total invested",
		"Expected profit", "Actual profit", "Withdrawn", "Current balance"}
	if err := setHeaders(f, sheet, headers); err != nil {
		return err
	}
	for i, p := range profits {
		row := []any{
			p.Investor.Name,
			p.Investor.Phone,
			p.Investor.SharePercentage.String(),
			p.EffectiveSharePercentage.String(),
			p.Investor.TotalInvested.String(),
			p.ExpectedEffectiveProfit.String(),
			p.ActualTotalProfit.String(),
			p.ActualTotalWithdrawn.String(),
			p.ActualCurrentBalance.String(),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "I", 18)
}

func writeRevenues(f *excelize.File, rows []models.Revenue) error {
	const sheet = "Revenues"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setHeaders(f, sheet, []string{"Date", "Amount", "Description", "Notes", "Added by"}); err != nil {
		return err
	}
	for i, r := range rows {
		values := []any{r.Date.Format(dateLayout), r.Amount.String(), r.Description, r.Notes, r.AddedBy}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "E", 18)
}

func writeExpenses(f *excelize.File, rows []models.Expense) error {
	const sheet = "Expenses"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setHeaders(f, sheet, []string{"Date", "Amount", "Category", "Notes", "Added by"}); err != nil {
		return err
	}
	for i, e := range rows {
		values := []any{e.Date.Format(dateLayout), e.Amount.String(), e.Category, e.Notes, e.AddedBy}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "E", 18)
}

func writeWithdrawals(f *excelize.File, rows []models.Withdrawal, projectRows []models.ProjectWithdrawal) error {
	const sheet = "Withdrawals"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setHeaders(f, sheet, []string{"Date", "Investor", "Amount", "Notes", "Approved by"}); err != nil {
		return err
	}
	next := 2
	for _, w := range rows {
		values := []any{w.Date.Format(dateLayout), w.InvestorName, w.Amount.String(), w.Notes, w.ApprovedBy}
		if err := setRow(f, sheet, next, values); err != nil {
			return err
		}
		next++
	}

	const projectSheet = "Project withdrawals"
	if _, err := f.NewSheet(projectSheet); err != nil {
		return err
	}
	if err := setHeaders(f, projectSheet, []string{"Date", "Amount", "Purpose", "Notes", "Approved by"}); err != nil {
		return err
	}
	for i, pw := range projectRows {
		values := []any{pw.Date.Format(dateLayout), pw.Amount.String(), pw.Purpose, pw.Notes, pw.ApprovedBy}
		if err := setRow(f, projectSheet, i+2, values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "E", 18); err != nil {
		return err
	}
	return f.SetColWidth(projectSheet, "A", "E", 18)
}
