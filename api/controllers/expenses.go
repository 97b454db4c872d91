package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/api/responses"
	"github.com/fastcommand/finance-backend/api/validators"
	expensesvc "github.com/fastcommand/finance-backend/internal/expenses"
	"github.com/fastcommand/finance-backend/pkg/config"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	dbtypes "github.com/fastcommand/finance-backend/pkg/db/types"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

type createExpenseRequest struct {
	Amount      decimal.Decimal     `json:"amount"`
	Date        time.Time           `json:"date" validate:"required"`
	Category    string              `json:"category" validate:"required"`
	Notes       string              `json:"notes,omitempty"`
	Attachments dbtypes.Attachments `json:"attachments,omitempty"`
}

type updateExpenseRequest struct {
	Amount      *decimal.Decimal     `json:"amount,omitempty"`
	Date        *time.Time           `json:"date,omitempty"`
	Category    *string              `json:"category,omitempty"`
	Notes       *string              `json:"notes,omitempty"`
	Attachments *dbtypes.Attachments `json:"attachments,omitempty"`
}

func CreateExpense(svc expensesvc.Service, attachCfg config.AttachmentsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createExpenseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateAttachments(payload.Attachments, attachCfg); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), expensesvc.CreateInput{
			Amount:      payload.Amount,
			Date:        payload.Date,
			Category:    payload.Category,
			Notes:       payload.Notes,
			Attachments: payload.Attachments,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func UpdateExpense(svc expensesvc.Service, attachCfg config.AttachmentsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateExpenseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Attachments != nil {
			if err := validators.ValidateAttachments(*payload.Attachments, attachCfg); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		row, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, expensesvc.UpdateInput{
			Amount:      payload.Amount,
			Date:        payload.Date,
			Category:    payload.Category,
			Notes:       payload.Notes,
			Attachments: payload.Attachments,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func DeleteExpense(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ListExpenses(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if wantSummary(r) {
			responses.WriteSuccess(w, summarize(rows, func(row models.Expense) decimal.Decimal { return row.Amount }))
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
