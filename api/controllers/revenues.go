package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/api/responses"
	"github.com/fastcommand/finance-backend/api/validators"
	revenuesvc "github.com/fastcommand/finance-backend/internal/revenues"
	"github.com/fastcommand/finance-backend/pkg/config"
	"github.com/fastcommand/finance-backend/pkg/db/models"
	dbtypes "github.com/fastcommand/finance-backend/pkg/db/types"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

type createRevenueRequest struct {
	Amount      decimal.Decimal     `json:"amount"`
	Date        time.Time           `json:"date" validate:"required"`
	Description string              `json:"description" validate:"required"`
	Notes       string              `json:"notes,omitempty"`
	Attachments dbtypes.Attachments `json:"attachments,omitempty"`
}

type updateRevenueRequest struct {
	Amount      *decimal.Decimal     `json:"amount,omitempty"`
	Date        *time.Time           `json:"date,omitempty"`
	Description *string              `json:"description,omitempty"`
	Notes       *string              `json:"notes,omitempty"`
	Attachments *dbtypes.Attachments `json:"attachments,omitempty"`
}

func CreateRevenue(svc revenuesvc.Service, attachCfg config.AttachmentsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createRevenueRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateAttachments(payload.Attachments, attachCfg); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), revenuesvc.CreateInput{
			Amount:      payload.Amount,
			Date:        payload.Date,
			Description: payload.Description,
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

func UpdateRevenue(svc revenuesvc.Service, attachCfg config.AttachmentsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateRevenueRequest
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

		row, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, revenuesvc.UpdateInput{
			Amount:      payload.Amount,
			Date:        payload.Date,
			Description: payload.Description,
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

func DeleteRevenue(svc revenuesvc.Service, logg *logger.Logger) http.HandlerFunc {
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

func ListRevenues(svc revenuesvc.Service, logg *logger.Logger) http.HandlerFunc {
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
			responses.WriteSuccess(w, summarize(rows, func(row models.Revenue) decimal.Decimal { return row.Amount }))
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
