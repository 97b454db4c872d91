package audit

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
	"github.com/fastcommand/finance-backend/pkg/logger"
	"github.com/fastcommand/finance-backend/pkg/pagination"
)

// Recorder appends audit entries for ledger mutations. Failures are logged
// and swallowed: an audit write must never abort the mutation it describes.
type Recorder struct {
	repo *Repository
	logg *logger.Logger
}

// NewRecorder constructs an audit recorder.
func NewRecorder(repo *Repository, logg *logger.Logger) (*Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Recorder{repo: repo, logg: logg}, nil
}

// Record appends one entry attributed to the actor. Errors are swallowed.
func (rec *Recorder) Record(ctx context.Context, actor access.Actor, op enums.OperationType, details string) {
	rec.record(ctx, rec.repo, actor, op, details)
}

// RecordTx appends one entry inside the caller's transaction so the audit row
// commits or rolls back together with the mutation it describes.
func (rec *Recorder) RecordTx(ctx context.Context, tx *gorm.DB, actor access.Actor, op enums.OperationType, details string) {
	rec.record(ctx, rec.repo.WithTx(tx), actor, op, details)
}

func (rec *Recorder) record(ctx context.Context, repo *Repository, actor access.Actor, op enums.OperationType, details string) {
	entry := &models.OperationLog{
		OperationType: op,
		Details:       details,
		PerformedBy:   actor.Name,
	}
	if err := repo.Insert(ctx, entry); err != nil {
		ctx = rec.logg.WithOperation(ctx, op.String())
		rec.logg.Error(ctx, "audit entry dropped", err)
	}
}

// ListResult is a page of operation log rows.
type ListResult struct {
	Entries []models.OperationLog `json:"entries"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
}

// List returns the operations log for actors allowed to see all data.
func (rec *Recorder) List(ctx context.Context, actor access.Actor, p pagination.Params) (*ListResult, error) {
	if err := actor.Require(access.ViewAllData, "view the operations log"); err != nil {
		return nil, err
	}
	p = pagination.Normalize(p)
	rows, total, err := rec.repo.List(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list operations log")
	}
	return &ListResult{Entries: rows, Total: total, Page: p.Page, Limit: p.Limit}, nil
}
