package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/api/responses"
	"github.com/fastcommand/finance-backend/api/validators"
	investorsvc "github.com/fastcommand/finance-backend/internal/investors"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

type createInvestorRequest struct {
	Name               string          `json:"name" validate:"required"`
	Phone              string          `json:"phone" validate:"required"`
	NationalID         *string         `json:"national_id,omitempty"`
	BankTransferNumber *string         `json:"bank_transfer_number,omitempty"`
	SharePercentage    decimal.Decimal `json:"share_percentage"`
	TotalInvested      decimal.Decimal `json:"total_invested"`
}

type updateInvestorRequest struct {
	Name               *string          `json:"name,omitempty"`
	Phone              *string          `json:"phone,omitempty"`
	NationalID         *string          `json:"national_id,omitempty"`
	BankTransferNumber *string          `json:"bank_transfer_number,omitempty"`
	SharePercentage    *decimal.Decimal `json:"share_percentage,omitempty"`
	TotalInvested      *decimal.Decimal `json:"total_invested,omitempty"`
	TotalProfit        *decimal.Decimal `json:"total_profit,omitempty"`
}

func CreateInvestor(svc investorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createInvestorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), investorsvc.CreateInput{
			Name:               payload.Name,
			Phone:              payload.Phone,
			NationalID:         payload.NationalID,
			BankTransferNumber: payload.BankTransferNumber,
			SharePercentage:    payload.SharePercentage,
			TotalInvested:      payload.TotalInvested,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func UpdateInvestor(svc investorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateInvestorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, investorsvc.UpdateInput{
			Name:               payload.Name,
			Phone:              payload.Phone,
			NationalID:         payload.NationalID,
			BankTransferNumber: payload.BankTransferNumber,
			SharePercentage:    payload.SharePercentage,
			TotalInvested:      payload.TotalInvested,
			TotalProfit:        payload.TotalProfit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func DeleteInvestor(svc investorsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

func GetInvestor(svc investorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Get(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func ListInvestors(svc investorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}
