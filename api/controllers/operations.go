package controllers

import (
	"net/http"

	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/api/responses"
	"github.com/fastcommand/finance-backend/api/validators"
	"github.com/fastcommand/finance-backend/internal/audit"
	"github.com/fastcommand/finance-backend/pkg/logger"
	"github.com/fastcommand/finance-backend/pkg/pagination"
)

func ListOperations(recorder *audit.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := recorder.List(r.Context(), middleware.ActorFromContext(r.Context()), pagination.Params{
			Page:  page,
			Limit: limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
