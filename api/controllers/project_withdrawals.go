package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/api/responses"
	"github.com/fastcommand/finance-backend/api/validators"
	projectsvc "github.com/fastcommand/finance-backend/internal/projectwithdrawals"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

type createProjectWithdrawalRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Date    time.Time       `json:"date" validate:"required"`
	Purpose string          `json:"purpose" validate:"required"`
	Notes   string          `json:"notes,omitempty"`
}

type updateProjectWithdrawalRequest struct {
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Date    *time.Time       `json:"date,omitempty"`
	Purpose *string          `json:"purpose,omitempty"`
	Notes   *string          `json:"notes,omitempty"`
}

func CreateProjectWithdrawal(svc projectsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProjectWithdrawalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), projectsvc.CreateInput{
			Amount:  payload.Amount,
			Date:    payload.Date,
			Purpose: payload.Purpose,
			Notes:   payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func UpdateProjectWithdrawal(svc projectsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProjectWithdrawalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, projectsvc.UpdateInput{
			Amount:  payload.Amount,
			Date:    payload.Date,
			Purpose: payload.Purpose,
			Notes:   payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func DeleteProjectWithdrawal(svc projectsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

func ListProjectWithdrawals(svc projectsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
