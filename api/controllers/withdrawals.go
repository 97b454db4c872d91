package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/api/responses"
	"github.com/fastcommand/finance-backend/api/validators"
	withdrawalsvc "github.com/fastcommand/finance-backend/internal/withdrawals"
	"github.com/fastcommand/finance-backend/pkg/config"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	dbtypes "github.com/fastcommand/finance-backend/pkg/db/types"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

// createWithdrawalRequest references the investor by id; investor_name is a
// fallback for clients that still send names, resolved by the coordinator.
type createWithdrawalRequest struct {
	InvestorID   uuid.UUID           `json:"investor_id,omitempty"`
	InvestorName string              `json:"investor_name,omitempty"`
	Amount       decimal.Decimal     `json:"amount"`
	Date         time.Time           `json:"date" validate:"required"`
	Notes        string              `json:"notes,omitempty"`
	Attachments  dbtypes.Attachments `json:"attachments,omitempty"`
}

type updateWithdrawalRequest struct {
	InvestorID   *uuid.UUID           `json:"investor_id,omitempty"`
	InvestorName *string              `json:"investor_name,omitempty"`
	Amount       *decimal.Decimal     `json:"amount,omitempty"`
	Date         *time.Time           `json:"date,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
	Attachments  *dbtypes.Attachments `json:"attachments,omitempty"`
}

func CreateWithdrawal(coord *withdrawalsvc.Coordinator, attachCfg config.AttachmentsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createWithdrawalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateAttachments(payload.Attachments, attachCfg); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := coord.Create(r.Context(), middleware.ActorFromContext(r.Context()), withdrawalsvc.CreateInput{
			InvestorID:   payload.InvestorID,
			InvestorName: payload.InvestorName,
			Amount:       payload.Amount,
			Date:         payload.Date,
			Notes:        payload.Notes,
			Attachments:  payload.Attachments,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func UpdateWithdrawal(coord *withdrawalsvc.Coordinator, attachCfg config.AttachmentsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateWithdrawalRequest
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

		row, err := coord.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, withdrawalsvc.UpdateInput{
			InvestorID:   payload.InvestorID,
			InvestorName: payload.InvestorName,
			Amount:       payload.Amount,
			Date:         payload.Date,
			Notes:        payload.Notes,
			Attachments:  payload.Attachments,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func DeleteWithdrawal(coord *withdrawalsvc.Coordinator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := coord.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ListWithdrawals(coord *withdrawalsvc.Coordinator, logg *logger.Logger) http.HandlerFunc {
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

		rows, err := coord.List(r.Context(), middleware.ActorFromContext(r.Context()), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if wantSummary(r) {
			responses.WriteSuccess(w, summarize(rows, func(row models.Withdrawal) decimal.Decimal { return row.Amount }))
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
